package core

import "strings"

// Intent is the classified purpose of a student query. It selects one of the
// fixed routing plans executed by the orchestrator.
type Intent string

const (
	// IntentExplanation indicates the student wants a concept explained.
	IntentExplanation Intent = "explanation"
	// IntentPractice indicates the student wants practice problems or a quiz.
	IntentPractice Intent = "practice"
	// IntentProgress indicates the student is asking about their own progress.
	IntentProgress Intent = "progress"
	// IntentHomework indicates the student needs help with a specific assignment.
	IntentHomework Intent = "homework"
	// IntentGeneral is the fail-open default for everything else.
	IntentGeneral Intent = "general"
)

// Intents lists every valid intent in scan order.
var Intents = []Intent{IntentExplanation, IntentPractice, IntentProgress, IntentHomework, IntentGeneral}

// String returns the intent token.
func (i Intent) String() string { return string(i) }

// Valid reports whether the intent is one of the five known values.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

// ScanIntent searches free text for the first recognizable intent token.
// Classifier output is not guaranteed to be a single clean token, so the scan
// is substring based and case insensitive. The boolean reports whether a
// token was found.
func ScanIntent(text string) (Intent, bool) {
	lower := strings.ToLower(text)
	for _, intent := range Intents {
		if strings.Contains(lower, string(intent)) {
			return intent, true
		}
	}
	return IntentGeneral, false
}
