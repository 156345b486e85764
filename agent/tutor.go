package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/edumentor/config"
	"github.com/hupe1980/edumentor/knowledge"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
)

// TutorOptions configures a Tutor instance.
type TutorOptions struct {
	Model            string
	Temperature      float64
	MaxOutputTokens  int64
	KnowledgeResults int
}

// Tutor provides personalized Socratic-method tutoring. It combines the
// student's learning profile with locally retrieved facts before each
// completion call.
type Tutor struct {
	client model.Client
	memory *memory.Store
	kb     *knowledge.Base
	opts   TutorOptions
}

// NewTutor creates a tutoring capability.
func NewTutor(client model.Client, mem *memory.Store, kb *knowledge.Base, optFns ...func(o *TutorOptions)) *Tutor {
	opts := TutorOptions{
		Temperature:      0.7,
		MaxOutputTokens:  1000,
		KnowledgeResults: 5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Tutor{client: client, memory: mem, kb: kb, opts: opts}
}

// Teach produces a tutoring response for the query. extra carries optional
// upstream context (e.g. a concept explanation from a sequential plan) and
// may be empty.
func (t *Tutor) Teach(ctx context.Context, query, studentID, extra string) (string, error) {
	sc := t.memory.Context(studentID)

	facts := knowledge.Format(t.kb.Retrieve(query, t.opts.KnowledgeResults))
	if facts == "" {
		facts = "Using general knowledge."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `STUDENT PROFILE:
- Learning Level: %s
- Learning Style: %s
- Strengths: %s
- Knowledge Gaps: %s

RELEVANT KNOWLEDGE:
%s
`,
		sc.Level,
		sc.LearningStyle,
		joinOr(sc.Strengths, "Not yet assessed"),
		joinOr(sc.Gaps, "None identified"),
		facts,
	)
	if extra != "" {
		fmt.Fprintf(&sb, "\nADDITIONAL CONTEXT: %s\n", extra)
	}
	fmt.Fprintf(&sb, `
STUDENT QUESTION:
%s

Provide a helpful, encouraging response that guides the student toward
understanding. Use the Socratic method - ask questions that help them think
through the problem. Adapt your explanation to their level and learning style.`, query)

	text, err := t.client.Generate(ctx, model.Request{
		Model:           t.opts.Model,
		SystemPrompt:    config.TutorSystemPrompt,
		UserPrompt:      sb.String(),
		Temperature:     t.opts.Temperature,
		MaxOutputTokens: t.opts.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("tutor: %w", err)
	}
	return text, nil
}

// ProvideHint produces a hint without giving away the answer. difficulty
// controls how direct the hint is (easy, medium, hard).
func (t *Tutor) ProvideHint(ctx context.Context, question, difficulty string) (string, error) {
	hintLevels := map[string]string{
		"easy":   "very direct hint that almost gives the answer",
		"medium": "balanced hint that guides thinking",
		"hard":   "subtle hint that only provides direction",
	}
	level, ok := hintLevels[difficulty]
	if !ok {
		level = hintLevels["medium"]
	}

	prompt := fmt.Sprintf(`Provide a %s for this question:

%s

The hint should:
- Not give away the complete answer
- Help the student think about the approach
- Be encouraging and positive

Hint:`, level, question)

	text, err := t.client.Generate(ctx, model.Request{
		Model:           t.opts.Model,
		SystemPrompt:    config.TutorSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     0.6,
		MaxOutputTokens: 200,
	})
	if err != nil {
		return "", fmt.Errorf("tutor hint: %w", err)
	}
	return "Hint: " + text, nil
}

// CheckUnderstanding assesses a student's explanation and responds with a
// follow-up in the Socratic style.
func (t *Tutor) CheckUnderstanding(ctx context.Context, topic, studentAnswer string) (string, error) {
	prompt := fmt.Sprintf(`A student is learning about: %s

They said: "%s"

Assess their understanding and provide:
1. Acknowledgment of what they got right
2. Gentle correction if needed
3. A follow-up question to deepen understanding
4. Encouragement

Be supportive and use the Socratic method.`, topic, studentAnswer)

	text, err := t.client.Generate(ctx, model.Request{
		Model:           t.opts.Model,
		SystemPrompt:    config.TutorSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     0.7,
		MaxOutputTokens: 500,
	})
	if err != nil {
		return "", fmt.Errorf("tutor check: %w", err)
	}
	return text, nil
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
