package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrieveByTopicName(t *testing.T) {
	kb := NewBase()

	facts := kb.Retrieve("can you explain algebra to me", 5)
	assert.NotEmpty(t, facts)
	assert.Contains(t, facts[0], "y = mx + b")
}

func TestRetrieveFuzzyWordMatch(t *testing.T) {
	kb := NewBase()

	// "photosynthesis" is not a subject or topic name; only the fuzzy pass
	// can find it inside a fact.
	facts := kb.Retrieve("what is photosynthesis", 5)
	assert.NotEmpty(t, facts)

	found := false
	for _, fact := range facts {
		if strings.Contains(strings.ToLower(fact), "photosynthesis") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRetrieveBoundedAndDeduplicated(t *testing.T) {
	kb := NewBase()

	facts := kb.Retrieve("science biology chemistry physics", 3)
	assert.Len(t, facts, 3)

	seen := map[string]bool{}
	for _, fact := range facts {
		assert.False(t, seen[fact], "duplicate fact: %s", fact)
		seen[fact] = true
	}
}

func TestRetrieveMissReturnsEmpty(t *testing.T) {
	kb := NewBase()
	assert.Empty(t, kb.Retrieve("xylophone maintenance", 5))
	assert.Empty(t, kb.Retrieve("algebra", 0))
}

func TestAddAndSearchTopic(t *testing.T) {
	kb := NewEmptyBase()
	kb.Add("Music", "Theory", "An octave spans twelve semitones")

	facts := kb.SearchTopic("music", "theory")
	assert.Equal(t, []string{"An octave spans twelve semitones"}, facts)
	assert.Nil(t, kb.SearchTopic("music", "history"))

	// Returned slice must not alias internal storage.
	facts[0] = "mutated"
	assert.Equal(t, "An octave spans twelve semitones", kb.SearchTopic("music", "theory")[0])
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "- a\n- b", Format([]string{"a", "b"}))
}
