package orchestrator

import (
	"context"
	"fmt"

	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/logging"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
)

// Classifier determines the intent behind a student query.
type Classifier interface {
	Classify(ctx context.Context, query, studentID string) core.Intent
}

// ModelClassifierOptions configures a ModelClassifier.
type ModelClassifierOptions struct {
	Model  string
	Logger logging.Logger
}

// ModelClassifier asks the completion service for a single intent token and
// scans the response for a known intent. It never returns an error: any
// failure or unrecognized response falls open to the general intent so the
// orchestrator can always route.
type ModelClassifier struct {
	client model.Client
	memory *memory.Store
	opts   ModelClassifierOptions
}

// NewModelClassifier creates a model-backed intent classifier.
func NewModelClassifier(client model.Client, mem *memory.Store, optFns ...func(o *ModelClassifierOptions)) *ModelClassifier {
	opts := ModelClassifierOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &ModelClassifier{client: client, memory: mem, opts: opts}
}

// Classify determines the query's intent. The student's context summary is
// included so ambiguous follow-ups ("more like that") resolve sensibly.
func (c *ModelClassifier) Classify(ctx context.Context, query, studentID string) core.Intent {
	prompt := fmt.Sprintf(`Classify this student query into exactly one category.

Categories:
- explanation: wants a concept explained
- practice: wants practice problems or a quiz
- progress: asks about their learning progress
- homework: needs help with a specific homework problem
- general: anything else

Student context:
%s

Query: %s

Respond with ONLY the category name.`, c.memory.ContextSummary(studentID), query)

	text, err := c.client.Generate(ctx, model.Request{
		Model:           c.opts.Model,
		SystemPrompt:    "You are an intent classifier for an educational assistant. Respond with a single category token.",
		UserPrompt:      prompt,
		Temperature:     0.3,
		MaxOutputTokens: 10,
	})
	if err != nil {
		c.opts.Logger.Warn("intent classification failed, falling back to general", "error", err)
		return core.IntentGeneral
	}

	if intent, ok := core.ScanIntent(text); ok {
		return intent
	}
	c.opts.Logger.Debug("unrecognized intent response, falling back to general", "response", text)
	return core.IntentGeneral
}
