// Package edumentor provides a high-level façade over the orchestration core
// and its services (memory, sessions, knowledge base & observability) enabling
// rapid construction of an educational tutoring system. Most applications
// interact with this package by:
//  1. Creating an EduMentor via New() with a completion client (optionally
//     overriding default in-memory services)
//  2. Starting a learning session for a student (StartSession)
//  3. Routing queries (Ask) and inspecting progress (Progress)
//
// The façade delegates routing to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// record store and a structured logger.
package edumentor

import (
	"context"
	"time"

	"github.com/hupe1980/edumentor/agent"
	"github.com/hupe1980/edumentor/knowledge"
	"github.com/hupe1980/edumentor/logging"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
	"github.com/hupe1980/edumentor/observability"
	"github.com/hupe1980/edumentor/orchestrator"
	"github.com/hupe1980/edumentor/session"
	"github.com/hupe1980/edumentor/store"
)

// Options configures the EduMentor instance.
type Options struct {
	// Model is the default completion model id passed to every capability.
	Model string
	// ClassifierModel overrides the model used for intent classification.
	ClassifierModel string
	// CallTimeout bounds each plan branch (default 30s).
	CallTimeout time.Duration
	// HistoryCap bounds per-student interaction history (default 50).
	HistoryCap int
	// MessageCap bounds per-session message history (default 50).
	MessageCap int
	// CompactionThreshold triggers memory compaction after successful routes
	// (default 100; 0 disables).
	CompactionThreshold int
	// Records optionally persists student records across restarts.
	Records store.RecordStore
	// TracePersister optionally persists completed traces.
	TracePersister observability.TracePersister
	// Knowledge overrides the default seeded knowledge base.
	Knowledge *knowledge.Base
	// Logger is used across all components. Defaults to NoOpLogger.
	Logger logging.Logger
}

// EduMentor is the assembled tutoring system.
type EduMentor struct {
	orch     *orchestrator.Orchestrator
	tracker  *agent.ProgressTracker
	memory   *memory.Store
	sessions *session.Store
	obs      *observability.Sink
}

// New assembles the full system around a completion client.
func New(client model.Client, optFns ...func(o *Options)) *EduMentor {
	opts := Options{
		CallTimeout:         30 * time.Second,
		HistoryCap:          50,
		MessageCap:          50,
		CompactionThreshold: 100,
		Logger:              logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Knowledge == nil {
		opts.Knowledge = knowledge.NewBase()
	}
	if opts.ClassifierModel == "" {
		opts.ClassifierModel = opts.Model
	}

	mem := memory.NewStore(func(o *memory.Options) {
		o.HistoryCap = opts.HistoryCap
		o.Records = opts.Records
		o.Logger = opts.Logger
	})
	sessions := session.NewStore(func(o *session.Options) {
		o.MessageCap = opts.MessageCap
		o.Logger = opts.Logger
	})
	obs := observability.NewSink(func(o *observability.Options) {
		o.Persister = opts.TracePersister
		o.Logger = opts.Logger
	})

	tutor := agent.NewTutor(client, mem, opts.Knowledge, func(o *agent.TutorOptions) {
		o.Model = opts.Model
	})
	quiz := agent.NewQuizGenerator(client, func(o *agent.QuizOptions) {
		o.Model = opts.Model
	})
	progress := agent.NewProgressTracker(client, mem, func(o *agent.ProgressOptions) {
		o.Model = opts.Model
	})
	explainer := agent.NewConceptExplainer(client, func(o *agent.ExplainerOptions) {
		o.Model = opts.Model
	})
	classifier := orchestrator.NewModelClassifier(client, mem, func(o *orchestrator.ModelClassifierOptions) {
		o.Model = opts.ClassifierModel
		o.Logger = opts.Logger
	})

	orch := orchestrator.New(classifier, tutor, quiz, progress, explainer, mem, sessions, opts.Knowledge, obs,
		func(o *orchestrator.Options) {
			o.CallTimeout = opts.CallTimeout
			o.CompactionThreshold = opts.CompactionThreshold
			o.Logger = opts.Logger
		},
	)

	return &EduMentor{orch: orch, tracker: progress, memory: mem, sessions: sessions, obs: obs}
}

// StartSession ensures an active session for the student and returns its id
// plus a personalized greeting.
func (e *EduMentor) StartSession(studentID string) (string, string) {
	return e.orch.StartLearningSession(studentID)
}

// Ask routes one student query and returns the response text.
func (e *EduMentor) Ask(ctx context.Context, studentID, query string) (string, error) {
	return e.orch.Route(ctx, studentID, query)
}

// Progress produces a progress report directly, bypassing classification.
func (e *EduMentor) Progress(ctx context.Context, studentID string) (string, error) {
	return e.orch.Progress(ctx, studentID)
}

// Mastery assesses the student's engagement-based mastery of a topic. It is
// computed locally from recorded history without a completion call.
func (e *EduMentor) Mastery(studentID, topic string) agent.MasteryAssessment {
	return e.tracker.MasteryScore(studentID, topic)
}

// Orchestrator exposes the underlying orchestrator.
func (e *EduMentor) Orchestrator() *orchestrator.Orchestrator { return e.orch }

// Memory exposes the student memory store.
func (e *EduMentor) Memory() *memory.Store { return e.memory }

// Sessions exposes the session store.
func (e *EduMentor) Sessions() *session.Store { return e.sessions }

// Observability exposes the trace/metric sink.
func (e *EduMentor) Observability() *observability.Sink { return e.obs }
