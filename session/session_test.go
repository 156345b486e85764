package session

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateReusesActiveSession(t *testing.T) {
	s := NewStore()

	first := s.GetOrCreate("s1")
	second := s.GetOrCreate("s1")
	assert.Equal(t, first, second)

	other := s.GetOrCreate("s2")
	assert.NotEqual(t, first, other)
}

func TestActiveForDoesNotCreate(t *testing.T) {
	s := NewStore()

	_, ok := s.ActiveFor("s1")
	assert.False(t, ok)

	id := s.GetOrCreate("s1")
	active, ok := s.ActiveFor("s1")
	assert.True(t, ok)
	assert.Equal(t, id, active)

	s.End(id)
	_, ok = s.ActiveFor("s1")
	assert.False(t, ok)
}

func TestAppendEnforcesMessageCap(t *testing.T) {
	s := NewStore(func(o *Options) { o.MessageCap = 3 })
	id := s.GetOrCreate("s1")

	for i := 0; i < 5; i++ {
		assert.True(t, s.Append(id, fmt.Sprintf("q%d", i), "a"))
	}

	sess, ok := s.Get(id)
	assert.True(t, ok)
	assert.Len(t, sess.Messages, 3)
	assert.Equal(t, "q2", sess.Messages[0].UserText)
	assert.Equal(t, "q4", sess.Messages[2].UserText)
}

func TestAppendUnknownSession(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Append("nope", "q", "a"))
}

func TestEndMovesSessionToHistory(t *testing.T) {
	s := NewStore()
	id := s.GetOrCreate("s1")
	s.Append(id, "q", "a")

	assert.True(t, s.End(id))
	_, ok := s.Get(id)
	assert.False(t, ok)

	// A new session is allocated after end.
	next := s.GetOrCreate("s1")
	assert.NotEqual(t, id, next)

	past := s.History("s1")
	assert.Len(t, past, 1)
	assert.Equal(t, id, past[0].ID)
	assert.False(t, past[0].EndedAt.IsZero())

	// Ending twice is a no-op.
	assert.False(t, s.End(id))
}

func TestSweepIdle(t *testing.T) {
	s := NewStore()
	idle := s.GetOrCreate("s1")
	fresh := s.GetOrCreate("s2")
	s.Append(fresh, "q", "a")

	// Sessions are created just now; nothing is idle yet.
	assert.Equal(t, 0, s.SweepIdle(time.Hour))

	// Everything is older than a zero max age.
	assert.Equal(t, 2, s.SweepIdle(0))
	_, ok := s.Get(idle)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.False(t, ok)

	// Swept sessions land in history like explicitly ended ones.
	assert.Len(t, s.History("s1"), 1)
	assert.NotEqual(t, idle, s.GetOrCreate("s1"))
}

func TestSessionState(t *testing.T) {
	s := NewStore()
	id := s.GetOrCreate("s1")

	assert.True(t, s.SetState(id, "current_topic", "algebra"))
	v, ok := s.GetState(id, "current_topic")
	assert.True(t, ok)
	assert.Equal(t, "algebra", v)

	_, ok = s.GetState(id, "missing")
	assert.False(t, ok)
	assert.False(t, s.SetState("nope", "k", "v"))
}

func TestStats(t *testing.T) {
	s := NewStore()
	id := s.GetOrCreate("s1")
	s.Append(id, "q1", "a1")
	s.Append(id, "q2", "a2")

	stats, ok := s.Stats(id)
	assert.True(t, ok)
	assert.Equal(t, id, stats.SessionID)
	assert.Equal(t, "s1", stats.StudentID)
	assert.Equal(t, 2, stats.MessageCount)
	assert.GreaterOrEqual(t, stats.DurationSeconds, 0.0)
}

func TestRecentFormatsAndTruncates(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "No prior conversation in this session.", s.Recent("nope", 5))

	id := s.GetOrCreate("s1")
	// Three-byte runes; the 200-byte display cap lands mid-rune.
	long := strings.Repeat("ス", 100)
	s.Append(id, "what is algebra", long)

	recent := s.Recent(id, 5)
	assert.Contains(t, recent, "Student: what is algebra")
	assert.Contains(t, recent, "EduMentor: ")
	assert.Contains(t, recent, "...")
	assert.True(t, utf8.ValidString(recent))
	assert.Less(t, len(recent), len(long))
}

func TestGetReturnsClone(t *testing.T) {
	s := NewStore()
	id := s.GetOrCreate("s1")
	s.Append(id, "q", "a")

	sess, _ := s.Get(id)
	sess.Messages[0].UserText = "mutated"

	fresh, _ := s.Get(id)
	assert.Equal(t, "q", fresh.Messages[0].UserText)
}
