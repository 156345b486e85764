package memory

import "strings"

// TopicClassifier maps free text onto a coarse topic label, or "" when no
// topic is recognized. The keyword implementation below is a heuristic;
// swap it for a model or rule based classifier without touching the store.
type TopicClassifier interface {
	Classify(text string) string
}

type topicEntry struct {
	name     string
	keywords []string
}

// KeywordClassifier matches query words against a small fixed taxonomy.
// Topics are checked in a stable order so overlapping keyword sets resolve
// deterministically.
type KeywordClassifier struct {
	topics []topicEntry
}

// NewKeywordClassifier builds the default subject taxonomy.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{topics: []topicEntry{
		{name: "math", keywords: []string{"algebra", "geometry", "calculus", "equation", "formula", "math"}},
		{name: "science", keywords: []string{"biology", "chemistry", "physics", "photosynthesis", "atom", "force"}},
		{name: "english", keywords: []string{"grammar", "writing", "essay", "literature", "reading"}},
		{name: "history", keywords: []string{"history", "war", "ancient", "civilization"}},
		{name: "computer", keywords: []string{"programming", "code", "algorithm", "python", "java"}},
	}}
}

// Classify implements TopicClassifier.
func (c *KeywordClassifier) Classify(text string) string {
	lower := strings.ToLower(text)
	for _, topic := range c.topics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return topic.name
			}
		}
	}
	return ""
}
