package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/edumentor/agent"
	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/knowledge"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
	"github.com/hupe1980/edumentor/observability"
	"github.com/hupe1980/edumentor/session"
)

// stubClassifier routes every query to a fixed intent.
type stubClassifier struct {
	intent core.Intent
}

func (c stubClassifier) Classify(context.Context, string, string) core.Intent { return c.intent }

// substringFailClient fails any prompt containing needle; everything else is
// delegated to the inner client.
type substringFailClient struct {
	inner  model.Client
	needle string
	err    error
}

func (c *substringFailClient) Generate(ctx context.Context, req model.Request) (string, error) {
	if strings.Contains(req.UserPrompt, c.needle) {
		return "", c.err
	}
	return c.inner.Generate(ctx, req)
}

// staticClient always answers with a fixed response or error.
type staticClient struct {
	text string
	err  error
}

func (c *staticClient) Generate(context.Context, model.Request) (string, error) {
	return c.text, c.err
}

type fixture struct {
	orch     *Orchestrator
	memory   *memory.Store
	sessions *session.Store
	obs      *observability.Sink
}

func newFixture(client model.Client, intent core.Intent) *fixture {
	mem := memory.NewStore()
	sessions := session.NewStore()
	obs := observability.NewSink()
	kb := knowledge.NewBase()

	tutor := agent.NewTutor(client, mem, kb)
	quiz := agent.NewQuizGenerator(client)
	progress := agent.NewProgressTracker(client, mem)
	explainer := agent.NewConceptExplainer(client)

	orch := New(stubClassifier{intent: intent}, tutor, quiz, progress, explainer, mem, sessions, kb, obs)
	return &fixture{orch: orch, memory: mem, sessions: sessions, obs: obs}
}

func TestRouteExplanationUpdatesMemoryAndSession(t *testing.T) {
	f := newFixture(model.NewMockClient(), core.IntentExplanation)

	text, err := f.orch.Route(context.Background(), "s1", "explain photosynthesis")
	assert.NoError(t, err)
	// The tutor's response is the answer; the explanation reaches the student
	// only through the tutor's upstream context, never prepended verbatim.
	assert.Contains(t, text, "ADDITIONAL CONTEXT: CONCEPT EXPLANATION: explain photosynthesis")
	assert.False(t, strings.HasPrefix(text, "CONCEPT EXPLANATION:"))

	rec := f.memory.Record("s1")
	assert.Len(t, rec.Interactions, 1)
	assert.Equal(t, core.IntentExplanation, rec.Interactions[0].Intent)
	assert.Equal(t, "science", rec.Interactions[0].Topic)

	sessionID := f.sessions.GetOrCreate("s1")
	sess, ok := f.sessions.Get(sessionID)
	assert.True(t, ok)
	assert.Len(t, sess.Messages, 1)
	assert.Equal(t, "explain photosynthesis", sess.Messages[0].UserText)

	summary, ok := f.obs.Summarize("query_routed")
	assert.True(t, ok)
	assert.Equal(t, 1, summary.Count)

	report := f.obs.PerformanceReport()
	assert.Equal(t, 100.0, report["orchestrator"]["route_query"].SuccessRatePct)
}

func TestRouteExplainerFailureFeedsDiagnosticToTutor(t *testing.T) {
	inner := model.NewMockClient()
	client := &substringFailClient{
		inner:  inner,
		needle: "CONCEPT TO EXPLAIN",
		err:    errors.New("model blew up"),
	}
	f := newFixture(client, core.IntentExplanation)

	text, err := f.orch.Route(context.Background(), "s1", "explain photosynthesis")
	assert.NoError(t, err)
	assert.Contains(t, text, "(concept explanation unavailable:")

	// Only the tutor reached the inner client, and it saw the explainer's
	// failure as upstream context instead of an empty block.
	calls := inner.Calls()
	assert.Len(t, calls, 1)
	assert.Contains(t, calls[0].UserPrompt, "ADDITIONAL CONTEXT: (concept explanation unavailable:")
	assert.Contains(t, calls[0].UserPrompt, "model blew up")
}

func TestRoutePracticeRunsBothBranches(t *testing.T) {
	client := model.NewMockClient()
	f := newFixture(client, core.IntentPractice)

	text, err := f.orch.Route(context.Background(), "s1", "fractions")
	assert.NoError(t, err)
	// Study tips come first, then the quiz block.
	assert.Contains(t, text, "PRACTICE QUIZ: fractions")
	tipsIdx := strings.Index(text, "study tips for: fractions")
	quizIdx := strings.Index(text, "PRACTICE QUIZ")
	assert.True(t, tipsIdx >= 0 && tipsIdx < quizIdx)
}

func TestRoutePracticePartialFailureIsInline(t *testing.T) {
	client := &substringFailClient{
		inner:  model.NewMockClient(),
		needle: "Generate a mix of",
		err:    errors.New("model blew up"),
	}
	f := newFixture(client, core.IntentPractice)

	text, err := f.orch.Route(context.Background(), "s1", "fractions")
	assert.NoError(t, err)
	assert.Contains(t, text, "(practice quiz unavailable:")
	assert.Contains(t, text, "study tips for: fractions")

	// A partially degraded plan still counts as a routed success.
	assert.Len(t, f.memory.Record("s1").Interactions, 1)
}

func TestRouteHomeworkDegradesToQuizOnly(t *testing.T) {
	client := &substringFailClient{
		inner:  model.NewMockClient(),
		needle: "STUDENT PROFILE",
		err:    errors.New("model blew up"),
	}
	f := newFixture(client, core.IntentHomework)

	text, err := f.orch.Route(context.Background(), "s1", "solve 2x+3=7")
	assert.NoError(t, err)
	assert.Contains(t, text, "PRACTICE QUIZ: practice for: solve 2x+3=7")
	assert.NotContains(t, text, "unavailable")
}

func TestRouteProgressWithoutHistory(t *testing.T) {
	client := model.NewMockClient()
	f := newFixture(client, core.IntentProgress)

	text, err := f.orch.Route(context.Background(), "s1", "how am I doing?")
	assert.NoError(t, err)
	assert.Contains(t, text, "No learning activity recorded yet")
	// The starter report needs no completion call.
	assert.Empty(t, client.Calls())
}

func TestRouteQuotaFallsBackToKnowledge(t *testing.T) {
	f := newFixture(&staticClient{err: model.QuotaError(time.Minute, errors.New("429"))}, core.IntentGeneral)

	text, err := f.orch.Route(context.Background(), "s1", "explain photosynthesis")
	assert.NoError(t, err)
	assert.Contains(t, text, "temporarily at capacity")
	assert.Contains(t, text, "Photosynthesis")

	// A degraded route mutates neither memory nor sessions.
	assert.Empty(t, f.memory.Record("s1").Interactions)
	assert.Empty(t, f.sessions.History("s1"))

	report := f.obs.PerformanceReport()
	assert.Equal(t, 0.0, report["orchestrator"]["route_query"].SuccessRatePct)
}

func TestRouteQuotaWithoutFactsReturnsRetryMessage(t *testing.T) {
	f := newFixture(&staticClient{err: model.QuotaError(45*time.Second, errors.New("429"))}, core.IntentGeneral)

	text, err := f.orch.Route(context.Background(), "s1", "xylophone tuning")
	assert.NoError(t, err)
	assert.Contains(t, text, "try again in 45s")
}

func TestRouteGenericFailureReturnsApology(t *testing.T) {
	f := newFixture(&staticClient{err: errors.New("boom")}, core.IntentGeneral)

	text, err := f.orch.Route(context.Background(), "s1", "anything")
	assert.NoError(t, err)
	assert.Contains(t, text, "something went wrong")
	assert.Empty(t, f.memory.Record("s1").Interactions)
}

func TestRoutePrefersQuotaErrorWhenAllBranchesFail(t *testing.T) {
	// Tutor fails generically, quiz fails on quota; the fallback must still run.
	client := &substringFailClient{
		inner:  &staticClient{err: model.QuotaError(0, errors.New("429"))},
		needle: "STUDENT PROFILE",
		err:    errors.New("boom"),
	}
	f := newFixture(client, core.IntentHomework)

	text, err := f.orch.Route(context.Background(), "s1", "explain photosynthesis homework")
	assert.NoError(t, err)
	assert.Contains(t, text, "temporarily at capacity")
}

func TestStartLearningSession(t *testing.T) {
	f := newFixture(model.NewMockClient(), core.IntentGeneral)

	sessionID, greeting := f.orch.StartLearningSession("s1")
	assert.NotEmpty(t, sessionID)
	assert.Contains(t, greeting, "Welcome back to EduMentor!")
	assert.Contains(t, greeting, "Level: intermediate")

	// Starting again reuses the active session.
	again, _ := f.orch.StartLearningSession("s1")
	assert.Equal(t, sessionID, again)
}

func TestModelClassifier(t *testing.T) {
	mem := memory.NewStore()

	c := NewModelClassifier(&staticClient{text: "practice"}, mem)
	assert.Equal(t, core.IntentPractice, c.Classify(context.Background(), "quiz me", "s1"))

	c = NewModelClassifier(&staticClient{text: "Category: HOMEWORK."}, mem)
	assert.Equal(t, core.IntentHomework, c.Classify(context.Background(), "solve this", "s1"))

	// Unrecognized output and outright failure both fall open to general.
	c = NewModelClassifier(&staticClient{text: "no idea"}, mem)
	assert.Equal(t, core.IntentGeneral, c.Classify(context.Background(), "hi", "s1"))

	c = NewModelClassifier(&staticClient{err: errors.New("boom")}, mem)
	assert.Equal(t, core.IntentGeneral, c.Classify(context.Background(), "hi", "s1"))
}
