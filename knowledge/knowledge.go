// Package knowledge provides keyword-indexed local fact retrieval. It backs
// the tutoring prompts and the offline fallback path when the completion
// service is unavailable. Lookups never fail; a miss returns no facts.
package knowledge

import (
	"strings"
	"sync"
)

// Base is a subject -> topic -> facts table with keyword retrieval.
// Safe for concurrent use.
type Base struct {
	mu    sync.RWMutex
	facts map[string]map[string][]string
}

// NewBase creates a Base seeded with the built-in curriculum facts.
func NewBase() *Base {
	return &Base{facts: seedFacts()}
}

// NewEmptyBase creates a Base without seed data.
func NewEmptyBase() *Base {
	return &Base{facts: map[string]map[string][]string{}}
}

// Retrieve returns up to maxResults facts relevant to the query. Subject and
// topic names are matched as substrings of the query first; individual facts
// are then fuzzy-matched on query words longer than three characters. The
// result is empty when nothing matches.
func (b *Base) Retrieve(query string, maxResults int) []string {
	if maxResults <= 0 {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	queryLower := strings.ToLower(query)
	var relevant []string
	seen := map[string]bool{}

	appendFact := func(fact string) bool {
		if seen[fact] {
			return len(relevant) < maxResults
		}
		seen[fact] = true
		relevant = append(relevant, fact)
		return len(relevant) < maxResults
	}

	// Subject/topic name hits contribute their top two facts each.
	for subject, topics := range b.facts {
		for topic, facts := range topics {
			if !strings.Contains(queryLower, subject) && !strings.Contains(queryLower, topic) {
				continue
			}
			for i, fact := range facts {
				if i >= 2 {
					break
				}
				if !appendFact(fact) {
					return relevant
				}
			}
		}
	}

	// Fuzzy word match against individual facts.
	words := significantWords(queryLower)
	for _, topics := range b.facts {
		for _, facts := range topics {
			for _, fact := range facts {
				if !matchesAny(strings.ToLower(fact), words) {
					continue
				}
				if !appendFact(fact) {
					return relevant
				}
			}
		}
	}

	return relevant
}

// SearchTopic returns all facts for an exact subject/topic pair, or nil.
func (b *Base) SearchTopic(subject, topic string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	topics, ok := b.facts[strings.ToLower(subject)]
	if !ok {
		return nil
	}
	facts, ok := topics[strings.ToLower(topic)]
	if !ok {
		return nil
	}
	return append([]string{}, facts...)
}

// Add appends facts under a subject/topic pair, creating both as needed.
func (b *Base) Add(subject, topic string, facts ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subject = strings.ToLower(subject)
	topic = strings.ToLower(topic)
	if b.facts[subject] == nil {
		b.facts[subject] = map[string][]string{}
	}
	b.facts[subject][topic] = append(b.facts[subject][topic], facts...)
}

// Format renders retrieved facts as a bulleted block for prompt injection.
func Format(facts []string) string {
	if len(facts) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, fact := range facts {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(fact)
	}
	return sb.String()
}

func significantWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(query) {
		w = strings.Trim(w, ".,!?\"'")
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

func matchesAny(fact string, words []string) bool {
	for _, w := range words {
		if strings.Contains(fact, w) {
			return true
		}
	}
	return false
}

func seedFacts() map[string]map[string][]string {
	return map[string]map[string][]string{
		"math": {
			"algebra": {
				"Linear equations use the form y = mx + b",
				"Quadratic equations use the form ax^2 + bx + c = 0",
				"The quadratic formula is x = (-b +/- sqrt(b^2-4ac)) / 2a",
			},
			"geometry": {
				"Area of a circle = pi * r^2",
				"Pythagorean theorem: a^2 + b^2 = c^2",
				"Volume of a sphere = (4/3) * pi * r^3",
			},
		},
		"science": {
			"biology": {
				"Photosynthesis: 6CO2 + 6H2O -> C6H12O6 + 6O2",
				"DNA has four bases: Adenine, Thymine, Guanine, Cytosine",
				"Cells are the basic unit of life",
			},
			"chemistry": {
				"Atoms consist of protons, neutrons, and electrons",
				"The pH scale ranges from 0 (acidic) to 14 (basic)",
				"Chemical reactions conserve mass",
			},
			"physics": {
				"Newton's First Law: objects in motion stay in motion",
				"F = ma (force equals mass times acceleration)",
				"Energy cannot be created or destroyed",
			},
		},
		"language": {
			"grammar": {
				"Subject-verb agreement: singular subjects take singular verbs",
				"Commas separate items in a list",
				"Apostrophes show possession or contractions",
			},
			"writing": {
				"A thesis statement should be clear and arguable",
				"Use transition words to connect ideas",
				"Conclude by restating main points",
			},
		},
	}
}
