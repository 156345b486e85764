// Package session implements the active-session store: one active session
// per student with bounded message history, free-form state, explicit end and
// an idle-timeout sweep. Ended sessions move to a per-student history list.
//
// The store is the sole mutator of its sessions. Returned sessions are
// defensive clones; append and trim happen in one critical section so the
// message cap is never observed exceeded.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/logging"
)

// Options configures a Store.
type Options struct {
	// MessageCap bounds per-session message history (default 50).
	MessageCap int
	// Logger receives sweep/diagnostic logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Store manages active sessions and per-student session history.
type Store struct {
	mu        sync.Mutex
	active    map[string]*core.Session // session id -> session
	byStudent map[string]string        // student id -> active session id
	history   map[string][]*core.Session
	opts      Options
}

// NewStore constructs an empty session store.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		MessageCap: 50,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Store{
		active:    map[string]*core.Session{},
		byStudent: map[string]string{},
		history:   map[string][]*core.Session{},
		opts:      opts,
	}
}

// GetOrCreate returns the student's active session id, creating a session
// only when none is active. At most one active session exists per student.
func (s *Store) GetOrCreate(studentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byStudent[studentID]; ok {
		return id
	}
	sess := core.NewSession(studentID)
	s.active[sess.ID] = sess
	s.byStudent[studentID] = sess.ID
	return sess.ID
}

// ActiveFor returns the student's active session id without creating one.
func (s *Store) ActiveFor(studentID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byStudent[studentID]
	return id, ok
}

// Get returns a clone of an active session.
func (s *Store) Get(sessionID string) (*core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[sessionID]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Append records one user/agent exchange and refreshes the activity
// timestamp. The message cap is enforced atomically with the append.
// Returns false when the session is unknown or already ended.
func (s *Store) Append(sessionID, userText, agentText string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[sessionID]
	if !ok {
		return false
	}
	now := time.Now().UTC()
	sess.Messages = append(sess.Messages, core.Message{Timestamp: now, UserText: userText, AgentText: agentText})
	if overflow := len(sess.Messages) - s.opts.MessageCap; overflow > 0 {
		sess.Messages = append([]core.Message{}, sess.Messages[overflow:]...)
	}
	sess.LastActivityAt = now
	return true
}

// SetState stores a key/value pair in session state.
func (s *Store) SetState(sessionID, key string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[sessionID]
	if !ok {
		return false
	}
	sess.State[key] = value
	return true
}

// GetState returns the value and existence flag for a state key.
func (s *Store) GetState(sessionID, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[sessionID]
	if !ok {
		return nil, false
	}
	v, ok := sess.State[key]
	return v, ok
}

// Stats summarizes an active session.
func (s *Store) Stats(sessionID string) (core.SessionStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[sessionID]
	if !ok {
		return core.SessionStats{}, false
	}
	return core.SessionStats{
		SessionID:       sess.ID,
		StudentID:       sess.StudentID,
		MessageCount:    len(sess.Messages),
		DurationSeconds: sess.LastActivityAt.Sub(sess.CreatedAt).Seconds(),
		CreatedAt:       sess.CreatedAt,
		LastActivityAt:  sess.LastActivityAt,
	}, true
}

// End moves a session from the active map into the student's history list.
// A subsequent GetOrCreate for the student allocates a new session.
func (s *Store) End(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked(sessionID)
}

func (s *Store) endLocked(sessionID string) bool {
	sess, ok := s.active[sessionID]
	if !ok {
		return false
	}
	sess.EndedAt = time.Now().UTC()
	delete(s.active, sessionID)
	if s.byStudent[sess.StudentID] == sessionID {
		delete(s.byStudent, sess.StudentID)
	}
	s.history[sess.StudentID] = append(s.history[sess.StudentID], sess)
	return true
}

// SweepIdle ends every active session whose last activity is older than
// maxAge and returns how many were ended.
func (s *Store) SweepIdle(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)
	var stale []string
	for id, sess := range s.active {
		if sess.LastActivityAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		s.endLocked(id)
	}
	if len(stale) > 0 {
		s.opts.Logger.Info("idle sweep ended sessions", "count", len(stale))
	}
	return len(stale)
}

// History returns clones of the student's ended sessions, oldest first.
func (s *Store) History(studentID string) []*core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	past := s.history[studentID]
	result := make([]*core.Session, 0, len(past))
	for _, sess := range past {
		result = append(result, sess.Clone())
	}
	return result
}

// Recent formats the session's most recent exchanges for prompt injection.
// Agent responses are truncated to keep the block compact.
func (s *Store) Recent(sessionID string, limit int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[sessionID]
	if !ok || len(sess.Messages) == 0 {
		return "No prior conversation in this session."
	}
	messages := sess.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		agentText := msg.AgentText
		if len(agentText) > 200 {
			agentText = core.Truncate(agentText, 200) + "..."
		}
		fmt.Fprintf(&sb, "Student: %s\nEduMentor: %s", msg.UserText, agentText)
	}
	return sb.String()
}
