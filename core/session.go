package core

import "time"

// Message is one user/agent exchange within a session.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	UserText  string    `json:"user_text"`
	AgentText string    `json:"agent_text"`
}

// Session is a conversational container with bounded message history and
// free-form key/value state for in-progress multi-step flows. A session is
// created on start, mutated per message, and ended explicitly or by the idle
// timeout sweep; ended sessions move to the per-student history list.
type Session struct {
	ID             string         `json:"id"`
	StudentID      string         `json:"student_id"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	EndedAt        time.Time      `json:"ended_at,omitempty"` // zero while active
	Messages       []Message      `json:"messages"`
	State          map[string]any `json:"state"`
}

// NewSession creates an active session for the given student.
func NewSession(studentID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             NewID(),
		StudentID:      studentID,
		CreatedAt:      now,
		LastActivityAt: now,
		Messages:       []Message{},
		State:          map[string]any{},
	}
}

// Ended reports whether the session has been moved to history.
func (s *Session) Ended() bool { return !s.EndedAt.IsZero() }

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Messages = append([]Message{}, s.Messages...)
	clone.State = make(map[string]any, len(s.State))
	for k, v := range s.State {
		clone.State[k] = v
	}
	return &clone
}

// SessionStats summarizes one session for reporting surfaces.
type SessionStats struct {
	SessionID       string    `json:"session_id"`
	StudentID       string    `json:"student_id"`
	MessageCount    int       `json:"message_count"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
}
