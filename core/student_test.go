package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStudentRecordDefaults(t *testing.T) {
	rec := NewStudentRecord("s1")
	assert.Equal(t, "s1", rec.StudentID)
	assert.Equal(t, "intermediate", rec.Profile.Level)
	assert.Equal(t, "visual", rec.Profile.LearningStyle)
	assert.Equal(t, "medium", rec.Preferences.ExplanationDetail)
	assert.Equal(t, "medium", rec.Preferences.PracticeDifficulty)
	assert.Empty(t, rec.Interactions)
	assert.NotNil(t, rec.TopicsStudied)
	assert.NotNil(t, rec.ArchivedTopics)
}

func TestStudentRecordCloneIsDeep(t *testing.T) {
	rec := NewStudentRecord("s1")
	rec.Profile.Strengths = []string{"algebra"}
	rec.Interactions = []Interaction{{Query: "q", Intent: IntentGeneral, Timestamp: time.Now()}}
	rec.TopicsStudied["math"] = TopicStats{Count: 1}
	rec.ArchivedTopics["science"] = 2

	clone := rec.Clone()
	clone.Profile.Strengths[0] = "mutated"
	clone.Interactions[0].Query = "mutated"
	clone.TopicsStudied["math"] = TopicStats{Count: 99}
	clone.ArchivedTopics["science"] = 99

	assert.Equal(t, "algebra", rec.Profile.Strengths[0])
	assert.Equal(t, "q", rec.Interactions[0].Query)
	assert.Equal(t, 1, rec.TopicsStudied["math"].Count)
	assert.Equal(t, 2, rec.ArchivedTopics["science"])
}
