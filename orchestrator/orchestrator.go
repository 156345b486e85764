// Package orchestrator routes student queries to the agent capabilities. Each
// intent maps to a fixed execution plan (solo, sequential or parallel); the
// orchestrator owns degradation, so a routed query always produces
// user-visible text even when the completion service fails.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/edumentor/agent"
	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/knowledge"
	"github.com/hupe1980/edumentor/logging"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
	"github.com/hupe1980/edumentor/observability"
	"github.com/hupe1980/edumentor/session"
)

// Options configures an Orchestrator.
type Options struct {
	// CallTimeout bounds each plan branch (default 30s).
	CallTimeout time.Duration
	// CompactionThreshold triggers memory compaction after successful routes
	// (default 100; 0 disables).
	CompactionThreshold int
	// Logger receives routing diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator coordinates intent classification, plan execution, memory and
// session updates, and trace/metric emission for every routed query.
type Orchestrator struct {
	classifier Classifier
	tutor      *agent.Tutor
	quiz       *agent.QuizGenerator
	progress   *agent.ProgressTracker
	explainer  *agent.ConceptExplainer
	memory     *memory.Store
	sessions   *session.Store
	kb         *knowledge.Base
	obs        *observability.Sink
	opts       Options
}

// New constructs an Orchestrator over the supplied capabilities and stores.
func New(
	classifier Classifier,
	tutor *agent.Tutor,
	quiz *agent.QuizGenerator,
	progress *agent.ProgressTracker,
	explainer *agent.ConceptExplainer,
	mem *memory.Store,
	sessions *session.Store,
	kb *knowledge.Base,
	obs *observability.Sink,
	optFns ...func(o *Options),
) *Orchestrator {
	opts := Options{
		CallTimeout:         30 * time.Second,
		CompactionThreshold: 100,
		Logger:              logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Orchestrator{
		classifier: classifier,
		tutor:      tutor,
		quiz:       quiz,
		progress:   progress,
		explainer:  explainer,
		memory:     mem,
		sessions:   sessions,
		kb:         kb,
		obs:        obs,
		opts:       opts,
	}
}

// Memory exposes the student memory store for outer surfaces.
func (o *Orchestrator) Memory() *memory.Store { return o.memory }

// Sessions exposes the session store for outer surfaces.
func (o *Orchestrator) Sessions() *session.Store { return o.sessions }

// Observability exposes the sink for outer surfaces.
func (o *Orchestrator) Observability() *observability.Sink { return o.obs }

// StartLearningSession ensures an active session for the student and returns
// a personalized greeting. Calling it again while a session is active reuses
// the session and greets without resetting anything.
func (o *Orchestrator) StartLearningSession(studentID string) (string, string) {
	sessionID := o.sessions.GetOrCreate(studentID)
	sc := o.memory.Context(studentID)

	greeting := fmt.Sprintf(`Welcome back to EduMentor!

Your Learning Profile:
- Level: %s
- Learning Style: %s
- Total interactions: %d

I can help you with:
- Understanding concepts (just ask!)
- Practice problems and quizzes
- Homework help
- Tracking your progress

What would you like to learn today?`, sc.Level, sc.LearningStyle, sc.TotalInteractions)

	if len(sc.RecentTopics) > 0 {
		greeting += fmt.Sprintf("\n\nLast time we worked on: %s", strings.Join(sc.RecentTopics, ", "))
	}
	return sessionID, greeting
}

// Route classifies the query, executes the matching plan and records the
// outcome. It always returns user-visible text: service failures degrade to
// knowledge-base answers or a retry message instead of an error. Memory and
// session state are only mutated on successful plans.
//
// The conversation is identified by student id alone: the session store keeps
// at most one active session per student, so the session id is derived rather
// than passed. Surfaces that hold an explicit session id resolve it through
// Sessions().ActiveFor.
func (o *Orchestrator) Route(ctx context.Context, studentID, query string) (string, error) {
	start := time.Now()
	traceID := fmt.Sprintf("query_%s_%d", studentID, start.UnixNano())
	o.obs.StartTrace(traceID, "route_query", map[string]any{
		"student_id": studentID,
		"query":      query,
	})

	intent := o.classifier.Classify(ctx, query, studentID)
	o.obs.AddEvent(traceID, "intent_determined", map[string]any{"intent": string(intent)})
	o.obs.RecordMetric("query_routed", 1, map[string]string{"intent": string(intent)})

	log := o.opts.Logger
	log.Info("routing query", "student_id", studentID, "intent", string(intent))

	text, err := o.executePlan(ctx, traceID, intent, studentID, query)
	if err != nil {
		text = o.degrade(traceID, query, err)
		o.obs.EndTrace(traceID, observability.StatusError, map[string]any{
			"intent": string(intent),
			"error":  err.Error(),
		})
		o.obs.LogPerformance("orchestrator", "route_query", time.Since(start), false)
		log.Warn("route degraded", "student_id", studentID, "intent", string(intent), "error", err)
		return text, nil
	}

	sessionID := o.sessions.GetOrCreate(studentID)
	o.sessions.Append(sessionID, query, text)
	o.memory.AddInteraction(studentID, query, text, intent)
	if o.opts.CompactionThreshold > 0 {
		if o.memory.CompactIfNeeded(studentID, o.opts.CompactionThreshold) {
			o.obs.AddEvent(traceID, "memory_compacted", map[string]any{"student_id": studentID})
			log.Info("memory compacted", "student_id", studentID)
		}
	}

	o.obs.EndTrace(traceID, observability.StatusSuccess, map[string]any{
		"intent":          string(intent),
		"response_length": len(text),
	})
	o.obs.LogPerformance("orchestrator", "route_query", time.Since(start), true)
	return text, nil
}

// executePlan runs the fixed plan for the intent. Plans degrade internally:
// an error is returned only when no branch produced usable text.
func (o *Orchestrator) executePlan(ctx context.Context, traceID string, intent core.Intent, studentID, query string) (string, error) {
	switch intent {
	case core.IntentExplanation:
		return o.explainThenTutor(ctx, traceID, studentID, query)
	case core.IntentPractice:
		return o.quizWithStudyTips(ctx, traceID, studentID, query)
	case core.IntentHomework:
		return o.tutorThenPractice(ctx, traceID, studentID, query)
	case core.IntentProgress:
		return o.analyzeProgress(ctx, traceID, studentID)
	default:
		return o.tutorSolo(ctx, traceID, studentID, query)
	}
}

// explainThenTutor is the sequential explanation plan: the concept explainer
// runs first and its opening feeds the tutor as upstream context; the tutor's
// response alone is the user-visible answer. An explainer failure does not
// abort the tutor; the plan fails only when both fail.
func (o *Orchestrator) explainThenTutor(ctx context.Context, traceID, studentID, query string) (string, error) {
	sc := o.memory.Context(studentID)

	explanation, explainErr := o.runBranch(ctx, traceID, "explainer", func(ctx context.Context) (string, error) {
		return o.explainer.Explain(ctx, query, sc.Preferences.ExplanationDetail)
	})

	extra := core.Truncate(explanation, 500)
	if explainErr != nil {
		extra = fmt.Sprintf("(concept explanation unavailable: %v)", explainErr)
	}

	tutorText, tutorErr := o.runBranch(ctx, traceID, "tutor", func(ctx context.Context) (string, error) {
		return o.tutor.Teach(ctx, query, studentID, extra)
	})
	if tutorErr != nil {
		if explainErr != nil {
			return "", pickError(explainErr, tutorErr)
		}
		// The explanation alone is still a complete answer.
		return explanation, nil
	}
	return tutorText, nil
}

// quizWithStudyTips is the parallel practice plan: quiz generation and study
// tips run concurrently with independent outcomes. A failed branch is
// rendered as an inline diagnostic; the plan fails only when both fail.
func (o *Orchestrator) quizWithStudyTips(ctx context.Context, traceID, studentID, query string) (string, error) {
	sc := o.memory.Context(studentID)

	var (
		wg       sync.WaitGroup
		quizText string
		quizErr  error
		tipsText string
		tipsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quizText, quizErr = o.runBranch(ctx, traceID, "quiz", func(ctx context.Context) (string, error) {
			return o.quiz.GenerateQuiz(ctx, query, 5, sc.Preferences.PracticeDifficulty)
		})
	}()
	go func() {
		defer wg.Done()
		tipsText, tipsErr = o.runBranch(ctx, traceID, "tutor", func(ctx context.Context) (string, error) {
			return o.tutor.Teach(ctx, "study tips for: "+query, studentID, "")
		})
	}()
	wg.Wait()

	if quizErr != nil && tipsErr != nil {
		return "", pickError(quizErr, tipsErr)
	}
	if tipsErr != nil {
		tipsText = fmt.Sprintf("(study tips unavailable: %v)", tipsErr)
	}
	if quizErr != nil {
		quizText = fmt.Sprintf("(practice quiz unavailable: %v)", quizErr)
	}
	return tipsText + "\n\n" + quizText, nil
}

// tutorThenPractice is the sequential homework plan: tutoring guidance first,
// then a short practice set on the same problem.
func (o *Orchestrator) tutorThenPractice(ctx context.Context, traceID, studentID, query string) (string, error) {
	tutorText, tutorErr := o.runBranch(ctx, traceID, "tutor", func(ctx context.Context) (string, error) {
		return o.tutor.Teach(ctx, query, studentID, "")
	})

	quizText, quizErr := o.runBranch(ctx, traceID, "quiz", func(ctx context.Context) (string, error) {
		return o.quiz.GenerateQuiz(ctx, "practice for: "+query, 3, "")
	})

	if tutorErr != nil && quizErr != nil {
		return "", pickError(tutorErr, quizErr)
	}
	if tutorErr != nil {
		return quizText, nil
	}
	if quizErr != nil {
		return tutorText + fmt.Sprintf("\n\n(practice problems unavailable: %v)", quizErr), nil
	}
	return tutorText + "\n\nWant to make sure you've got it? Try these:\n\n" + quizText, nil
}

// Progress produces a progress report directly, bypassing classification.
// Used by surfaces that offer an explicit progress command.
func (o *Orchestrator) Progress(ctx context.Context, studentID string) (string, error) {
	return o.analyzeProgress(ctx, "", studentID)
}

func (o *Orchestrator) analyzeProgress(ctx context.Context, traceID, studentID string) (string, error) {
	return o.runBranch(ctx, traceID, "progress", func(ctx context.Context) (string, error) {
		return o.progress.AnalyzeProgress(ctx, studentID)
	})
}

// tutorSolo handles general queries. The active session's recent exchanges
// feed the tutor so follow-up questions stay coherent.
func (o *Orchestrator) tutorSolo(ctx context.Context, traceID, studentID, query string) (string, error) {
	var recent string
	if sessionID, ok := o.sessions.ActiveFor(studentID); ok {
		recent = o.sessions.Recent(sessionID, 5)
	}
	return o.runBranch(ctx, traceID, "tutor", func(ctx context.Context) (string, error) {
		return o.tutor.Teach(ctx, query, studentID, recent)
	})
}

// runBranch executes one plan branch under the call timeout and records its
// outcome as a trace event.
func (o *Orchestrator) runBranch(ctx context.Context, traceID, capability string, fn func(ctx context.Context) (string, error)) (string, error) {
	branchCtx := ctx
	if o.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		branchCtx, cancel = context.WithTimeout(ctx, o.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := fn(branchCtx)
	duration := time.Since(start)

	data := map[string]any{"capability": capability, "duration_ms": duration.Milliseconds()}
	if err != nil {
		data["error"] = err.Error()
		o.obs.AddEvent(traceID, "branch_failed", data)
		o.obs.LogPerformance(capability, "execute", duration, false)
		return "", err
	}
	o.obs.AddEvent(traceID, "branch_completed", data)
	o.obs.LogPerformance(capability, "execute", duration, true)
	return text, nil
}

// degrade renders user-visible text for a failed plan. Quota exhaustion falls
// back to locally retrieved facts when any match the query, otherwise to a
// retry message; everything else gets an apology.
func (o *Orchestrator) degrade(traceID, query string, err error) string {
	if model.IsQuotaExhausted(err) {
		if facts := o.kb.Retrieve(query, 5); len(facts) > 0 {
			o.obs.AddEvent(traceID, "fallback_used", map[string]any{"source": "knowledge_base", "facts": len(facts)})
			return fmt.Sprintf(`Note: The AI tutoring service is temporarily at capacity, so here is what I
know locally about your question:

%s

For a full personalized answer, please try again in a few minutes.`, knowledge.Format(facts))
		}
		o.obs.AddEvent(traceID, "fallback_used", map[string]any{"source": "retry_message"})
		retryIn := "a few minutes"
		if se, ok := model.AsServiceError(err); ok && se.RetryAfter > 0 {
			retryIn = se.RetryAfter.String()
		}
		return fmt.Sprintf(`The AI tutoring service is temporarily at capacity and I don't have local
material on this topic. Please try again in %s.`, retryIn)
	}

	o.obs.AddEvent(traceID, "fallback_used", map[string]any{"source": "apology"})
	return `I'm sorry - something went wrong while preparing your answer. Nothing was
lost; please try asking again.`
}

// pickError chooses the error to propagate when every branch of a plan
// failed. Quota exhaustion wins so the knowledge-base fallback can run.
func pickError(errs ...error) error {
	for _, err := range errs {
		if model.IsQuotaExhausted(err) {
			return err
		}
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
