package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/edumentor/config"
	"github.com/hupe1980/edumentor/model"
)

// QuizOptions configures a QuizGenerator instance.
type QuizOptions struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int64
}

// QuizGenerator creates adaptive practice problems and grades free-form
// answers.
type QuizGenerator struct {
	client model.Client
	opts   QuizOptions
}

// NewQuizGenerator creates a quiz generation capability.
func NewQuizGenerator(client model.Client, optFns ...func(o *QuizOptions)) *QuizGenerator {
	opts := QuizOptions{
		Temperature:     0.8, // higher for question variety
		MaxOutputTokens: 1500,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &QuizGenerator{client: client, opts: opts}
}

// GenerateQuiz produces a formatted practice quiz for the topic.
func (q *QuizGenerator) GenerateQuiz(ctx context.Context, topic string, numQuestions int, difficulty string) (string, error) {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	prompt := fmt.Sprintf(`TOPIC: %s
DIFFICULTY: %s
NUMBER OF QUESTIONS: %d

Generate a mix of:
- Multiple choice questions (50%%)
- Short answer questions (30%%)
- Problem-solving questions (20%%)

Format each question clearly with:
- Question number
- Question text
- Options (for MC)
- Point value

At the end, provide an ANSWER KEY with:
- Correct answers
- Brief explanations
- Key concepts tested

Make it educational and engaging!`, topic, difficulty, numQuestions)

	text, err := q.client.Generate(ctx, model.Request{
		Model:           q.opts.Model,
		SystemPrompt:    config.QuizSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     q.opts.Temperature,
		MaxOutputTokens: q.opts.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("quiz generator: %w", err)
	}

	divider := strings.Repeat("=", 60)
	return fmt.Sprintf(`PRACTICE QUIZ: %s
Difficulty: %s
%s

%s

%s
Take your time and show your work!`, topic, strings.ToUpper(difficulty), divider, text, divider), nil
}

// GradeAnswer assesses a student's answer to a question and returns feedback
// with a gentle correction where needed.
func (q *QuizGenerator) GradeAnswer(ctx context.Context, question, answer string) (string, error) {
	prompt := fmt.Sprintf(`Grade this student answer.

QUESTION:
%s

STUDENT ANSWER:
%s

Provide:
1. Whether the answer is correct, partially correct, or incorrect
2. What the student got right
3. What needs correction, with a brief explanation
4. The model answer

Be constructive and encouraging.`, question, answer)

	text, err := q.client.Generate(ctx, model.Request{
		Model:           q.opts.Model,
		SystemPrompt:    config.QuizSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     0.4,
		MaxOutputTokens: 600,
	})
	if err != nil {
		return "", fmt.Errorf("quiz grading: %w", err)
	}
	return text, nil
}
