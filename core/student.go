package core

import (
	"time"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for sessions and traces.
func NewID() string { return uuid.NewString() }

// Profile captures the learning profile portion of a student record.
type Profile struct {
	Level         string   `json:"level"`          // beginner, intermediate, advanced
	LearningStyle string   `json:"learning_style"` // visual, auditory, kinesthetic
	Strengths     []string `json:"strengths"`
	Gaps          []string `json:"gaps"`
	Interests     []string `json:"interests"`
}

// Preferences holds per-student response shaping preferences.
type Preferences struct {
	ExplanationDetail  string `json:"explanation_detail"`  // simple, medium, detailed
	PracticeDifficulty string `json:"practice_difficulty"` // easy, medium, hard
}

// Interaction is one routed request recorded in a student's long-term memory.
// ResponseSummary is bounded; the full response lives only in the session.
type Interaction struct {
	Timestamp       time.Time `json:"timestamp"`
	Query           string    `json:"query"`
	ResponseSummary string    `json:"response_summary"`
	Intent          Intent    `json:"intent"`
	Topic           string    `json:"topic,omitempty"`
}

// TopicStats tracks how often and when a topic has been studied.
type TopicStats struct {
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Count     int       `json:"count"`
}

// StudentRecord is the per-student long-term memory record. It is created on
// first access and mutated on every interaction; it is never deleted
// automatically. Interactions are capped by the owning store; entries beyond
// the cap are dropped or folded into ContextSummary by compaction.
type StudentRecord struct {
	StudentID      string                `json:"student_id"`
	CreatedAt      time.Time             `json:"created_at"`
	Profile        Profile               `json:"profile"`
	Interactions   []Interaction         `json:"interactions"`
	TopicsStudied  map[string]TopicStats `json:"topics_studied"`
	Preferences    Preferences           `json:"preferences"`
	ContextSummary string                `json:"context_summary"`
	// ArchivedTopics counts interactions dropped past the history cap, by
	// topic, so compaction can still reflect them in ContextSummary.
	ArchivedTopics map[string]int `json:"archived_topics"`
}

// NewStudentRecord initializes a fresh record with the default profile.
func NewStudentRecord(studentID string) *StudentRecord {
	return &StudentRecord{
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
		Profile: Profile{
			Level:         "intermediate",
			LearningStyle: "visual",
			Strengths:     []string{},
			Gaps:          []string{},
			Interests:     []string{},
		},
		Interactions:  []Interaction{},
		TopicsStudied: map[string]TopicStats{},
		Preferences: Preferences{
			ExplanationDetail:  "medium",
			PracticeDifficulty: "medium",
		},
		ArchivedTopics: map[string]int{},
	}
}

// Clone returns a deep copy of the record safe for independent mutation.
func (r *StudentRecord) Clone() *StudentRecord {
	clone := *r
	clone.Profile.Strengths = append([]string{}, r.Profile.Strengths...)
	clone.Profile.Gaps = append([]string{}, r.Profile.Gaps...)
	clone.Profile.Interests = append([]string{}, r.Profile.Interests...)
	clone.Interactions = append([]Interaction{}, r.Interactions...)
	clone.TopicsStudied = make(map[string]TopicStats, len(r.TopicsStudied))
	for k, v := range r.TopicsStudied {
		clone.TopicsStudied[k] = v
	}
	clone.ArchivedTopics = make(map[string]int, len(r.ArchivedTopics))
	for k, v := range r.ArchivedTopics {
		clone.ArchivedTopics[k] = v
	}
	return &clone
}

// StudentContext is the read-only projection of a StudentRecord handed to
// agents and the intent classifier. It never aliases store-owned slices.
type StudentContext struct {
	Level             string      `json:"level"`
	LearningStyle     string      `json:"learning_style"`
	Strengths         []string    `json:"strengths"`
	Gaps              []string    `json:"gaps"`
	Interests         []string    `json:"interests"`
	RecentTopics      []string    `json:"recent_topics"` // unique topics of the last 5 interactions
	TotalInteractions int         `json:"total_interactions"`
	Preferences       Preferences `json:"preferences"`
}
