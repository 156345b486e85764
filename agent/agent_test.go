package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/knowledge"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
)

// staticClient always answers with a fixed response or error.
type staticClient struct {
	text string
	err  error
	last model.Request
}

func (c *staticClient) Generate(_ context.Context, req model.Request) (string, error) {
	c.last = req
	return c.text, c.err
}

func TestTutorTeachBuildsProfilePrompt(t *testing.T) {
	mem := memory.NewStore()
	mem.AddStrength("s1", "fractions")
	mem.AddGap("s1", "geometry proofs")

	client := &staticClient{text: "Let's think about it together."}
	tutor := NewTutor(client, mem, knowledge.NewBase())

	text, err := tutor.Teach(context.Background(), "explain algebra", "s1", "upstream context")
	assert.NoError(t, err)
	assert.Equal(t, "Let's think about it together.", text)

	prompt := client.last.UserPrompt
	assert.Contains(t, prompt, "Strengths: fractions")
	assert.Contains(t, prompt, "Knowledge Gaps: geometry proofs")
	assert.Contains(t, prompt, "y = mx + b") // retrieved fact
	assert.Contains(t, prompt, "ADDITIONAL CONTEXT: upstream context")
	assert.Contains(t, prompt, "explain algebra")
}

func TestTutorTeachWithoutKnowledgeHits(t *testing.T) {
	client := &staticClient{text: "ok"}
	tutor := NewTutor(client, memory.NewStore(), knowledge.NewEmptyBase())

	_, err := tutor.Teach(context.Background(), "anything", "s1", "")
	assert.NoError(t, err)
	assert.Contains(t, client.last.UserPrompt, "Using general knowledge.")
	assert.NotContains(t, client.last.UserPrompt, "ADDITIONAL CONTEXT")
}

func TestTutorTeachWrapsErrors(t *testing.T) {
	tutor := NewTutor(&staticClient{err: errors.New("boom")}, memory.NewStore(), knowledge.NewEmptyBase())

	_, err := tutor.Teach(context.Background(), "q", "s1", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tutor:")
}

func TestProvideHint(t *testing.T) {
	client := &staticClient{text: "think about the denominator"}
	tutor := NewTutor(client, memory.NewStore(), knowledge.NewEmptyBase())

	hint, err := tutor.ProvideHint(context.Background(), "what is 1/2 + 1/3?", "unknown-level")
	assert.NoError(t, err)
	assert.Equal(t, "Hint: think about the denominator", hint)
	// Unknown difficulty falls back to the balanced hint.
	assert.Contains(t, client.last.UserPrompt, "balanced hint")
}

func TestGenerateQuizDefaultsAndFraming(t *testing.T) {
	client := &staticClient{text: "1. What is 2+2?"}
	quiz := NewQuizGenerator(client)

	text, err := quiz.GenerateQuiz(context.Background(), "fractions", 0, "")
	assert.NoError(t, err)
	assert.Contains(t, text, "PRACTICE QUIZ: fractions")
	assert.Contains(t, text, "Difficulty: MEDIUM")
	assert.Contains(t, text, "1. What is 2+2?")
	assert.Contains(t, client.last.UserPrompt, "NUMBER OF QUESTIONS: 5")
}

func TestExplainerDetailLevels(t *testing.T) {
	client := &staticClient{text: "An atom is tiny."}
	explainer := NewConceptExplainer(client)

	text, err := explainer.Explain(context.Background(), "atoms", "simple")
	assert.NoError(t, err)
	assert.Contains(t, text, "CONCEPT EXPLANATION: atoms")
	assert.Contains(t, client.last.UserPrompt, "2-3 sentences")

	_, err = explainer.Explain(context.Background(), "atoms", "bogus")
	assert.NoError(t, err)
	assert.Contains(t, client.last.UserPrompt, "DETAIL LEVEL: medium")
}

func TestAnalyzeProgressStarterMessage(t *testing.T) {
	client := &staticClient{text: "should not be called"}
	tracker := NewProgressTracker(client, memory.NewStore())

	text, err := tracker.AnalyzeProgress(context.Background(), "fresh")
	assert.NoError(t, err)
	assert.Contains(t, text, "No learning activity recorded yet")
	assert.Empty(t, client.last.UserPrompt)
}

func TestAnalyzeProgressReport(t *testing.T) {
	mem := memory.NewStore()
	mem.AddInteraction("s1", "algebra question", "answer", core.IntentHomework)
	mem.AddInteraction("s1", "photosynthesis", "answer", core.IntentExplanation)

	client := &staticClient{text: "Strong engagement with math."}
	tracker := NewProgressTracker(client, mem)

	text, err := tracker.AnalyzeProgress(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Contains(t, text, "LEARNING PROGRESS REPORT")
	assert.Contains(t, text, "Total interactions: 2 | Topics explored: 2")
	assert.Contains(t, text, "Strong engagement with math.")

	prompt := client.last.UserPrompt
	assert.Contains(t, prompt, "math: 1 interactions")
	assert.Contains(t, prompt, "algebra question")
}

func TestIdentifyGaps(t *testing.T) {
	mem := memory.NewStore()
	mem.AddInteraction("s1", "algebra question", "answer", core.IntentHomework)

	client := &staticClient{text: `Here you go: ["fraction division", "word problems"]`}
	tracker := NewProgressTracker(client, mem)

	gaps, err := tracker.IdentifyGaps(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"fraction division", "word problems"}, gaps)
	assert.Equal(t, gaps, mem.Record("s1").Profile.Gaps)
}

func TestIdentifyGapsUnparseableLeavesGapsUntouched(t *testing.T) {
	mem := memory.NewStore()
	mem.AddInteraction("s1", "algebra question", "answer", core.IntentHomework)
	mem.AddGap("s1", "existing gap")

	tracker := NewProgressTracker(&staticClient{text: "the student struggles with fractions"}, mem)

	_, err := tracker.IdentifyGaps(context.Background(), "s1")
	assert.Error(t, err)
	assert.Equal(t, []string{"existing gap"}, mem.Record("s1").Profile.Gaps)
}

func TestIdentifyGapsNoHistory(t *testing.T) {
	tracker := NewProgressTracker(&staticClient{text: "[]"}, memory.NewStore())

	gaps, err := tracker.IdentifyGaps(context.Background(), "fresh")
	assert.NoError(t, err)
	assert.Nil(t, gaps)
}

func TestMasteryScoreTiers(t *testing.T) {
	mem := memory.NewStore()
	client := &staticClient{}
	tracker := NewProgressTracker(client, mem)

	ma := tracker.MasteryScore("s1", "fractions")
	assert.Equal(t, "Not Assessed", ma.Level)
	assert.Equal(t, 0, ma.Percentage)
	assert.Contains(t, ma.Recommendation, "Start learning about fractions")

	add := func(n int) {
		for i := 0; i < n; i++ {
			mem.AddInteraction("s1", "Fractions practice", "answer", core.IntentPractice)
		}
	}

	add(1)
	ma = tracker.MasteryScore("s1", "fractions")
	assert.Equal(t, "Beginner", ma.Level)
	assert.Equal(t, 30, ma.Percentage)
	assert.Equal(t, 1, ma.Interactions)

	add(2) // 3 matching interactions; matching is case-insensitive.
	ma = tracker.MasteryScore("s1", "FRACTIONS")
	assert.Equal(t, "Developing", ma.Level)
	assert.Equal(t, 55, ma.Percentage)

	add(3) // 6
	ma = tracker.MasteryScore("s1", "fractions")
	assert.Equal(t, "Proficient", ma.Level)
	assert.Equal(t, 70, ma.Percentage)

	add(4) // 10
	ma = tracker.MasteryScore("s1", "fractions")
	assert.Equal(t, "Advanced", ma.Level)
	assert.Equal(t, 85, ma.Percentage)
	assert.Contains(t, ma.Recommendation, "Excellent mastery of fractions")

	// The assessment is computed locally; the completion service is never hit.
	assert.Empty(t, client.last.UserPrompt)
}

func TestMasteryScoreMatchesClassifiedTopic(t *testing.T) {
	mem := memory.NewStore()
	mem.AddInteraction("s1", "explain algebra equations", "answer", core.IntentExplanation)

	tracker := NewProgressTracker(&staticClient{}, mem)

	// "algebra" classifies to the math topic, so a query that never mentions
	// math still counts toward it.
	ma := tracker.MasteryScore("s1", "math")
	assert.Equal(t, 1, ma.Interactions)
	assert.Equal(t, "Beginner", ma.Level)
}

func TestGradeAnswer(t *testing.T) {
	client := &staticClient{text: "Correct, well done."}
	quiz := NewQuizGenerator(client)

	feedback, err := quiz.GradeAnswer(context.Background(), "What is 2+2?", "4")
	assert.NoError(t, err)
	assert.Equal(t, "Correct, well done.", feedback)
	assert.True(t, strings.Contains(client.last.UserPrompt, "STUDENT ANSWER:"))
}
