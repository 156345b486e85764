package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/edumentor/config"
	"github.com/hupe1980/edumentor/model"
)

// ExplainerOptions configures a ConceptExplainer instance.
type ExplainerOptions struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int64
}

// ConceptExplainer breaks complex concepts into structured, intuitive
// explanations at a requested detail level.
type ConceptExplainer struct {
	client model.Client
	opts   ExplainerOptions
}

// NewConceptExplainer creates a concept explanation capability.
func NewConceptExplainer(client model.Client, optFns ...func(o *ExplainerOptions)) *ConceptExplainer {
	opts := ExplainerOptions{
		Temperature:     0.6,
		MaxOutputTokens: 1200,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ConceptExplainer{client: client, opts: opts}
}

// Explain produces a structured explanation of the concept. detailLevel is
// simple, medium or detailed; unknown values fall back to medium.
func (e *ConceptExplainer) Explain(ctx context.Context, concept, detailLevel string) (string, error) {
	instructions := map[string]string{
		"simple":   "Explain in 2-3 sentences using everyday language. No jargon.",
		"medium":   "Provide a clear explanation with an analogy and one example. Keep it focused.",
		"detailed": "Provide a comprehensive explanation: definition, analogy, step-by-step breakdown, common misconceptions and a practice example.",
	}
	instruction, ok := instructions[detailLevel]
	if !ok {
		detailLevel = "medium"
		instruction = instructions["medium"]
	}

	prompt := fmt.Sprintf(`CONCEPT TO EXPLAIN: %s

DETAIL LEVEL: %s
%s

Structure your explanation to build intuition first, then add precision.`, concept, detailLevel, instruction)

	text, err := e.client.Generate(ctx, model.Request{
		Model:           e.opts.Model,
		SystemPrompt:    config.ExplainerSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     e.opts.Temperature,
		MaxOutputTokens: e.opts.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("explainer: %w", err)
	}

	divider := strings.Repeat("=", 60)
	return fmt.Sprintf(`CONCEPT EXPLANATION: %s
%s

%s

%s
Questions? Ask for a simpler or more detailed explanation anytime.`, concept, divider, text, divider), nil
}
