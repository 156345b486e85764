package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/edumentor/config"
	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/memory"
	"github.com/hupe1980/edumentor/model"
)

// ProgressOptions configures a ProgressTracker instance.
type ProgressOptions struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int64
	// HistoryLimit bounds how many interactions feed the analysis.
	HistoryLimit int
}

// ProgressTracker analyzes learning history and produces progress reports and
// gap assessments. Mastery signals are engagement proxies derived from topic
// counts, not graded outcomes.
type ProgressTracker struct {
	client model.Client
	memory *memory.Store
	opts   ProgressOptions
}

// NewProgressTracker creates a progress analysis capability.
func NewProgressTracker(client model.Client, mem *memory.Store, optFns ...func(o *ProgressOptions)) *ProgressTracker {
	opts := ProgressOptions{
		Temperature:     0.5,
		MaxOutputTokens: 1200,
		HistoryLimit:    20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ProgressTracker{client: client, memory: mem, opts: opts}
}

// AnalyzeProgress produces a formatted learning progress report. A student
// with no recorded interactions gets a starter message without a model call.
func (p *ProgressTracker) AnalyzeProgress(ctx context.Context, studentID string) (string, error) {
	rec := p.memory.Record(studentID)
	if len(rec.Interactions) == 0 && len(rec.TopicsStudied) == 0 {
		return `LEARNING PROGRESS REPORT

No learning activity recorded yet. Ask a question, request an explanation or
try a practice quiz - your progress will show up here as you learn!`, nil
	}

	history := p.memory.History(studentID, p.opts.HistoryLimit)

	prompt := fmt.Sprintf(`Analyze this student's learning progress.

STUDENT PROFILE:
- Level: %s
- Learning Style: %s
- Strengths: %s
- Knowledge Gaps: %s

TOPIC ENGAGEMENT (interaction counts, not test scores):
%s

RECENT INTERACTIONS (%d shown):
%s

Provide a progress report with:
1. Learning patterns you observe
2. Topics showing strong engagement
3. Topics that may need revisiting
4. 2-3 specific, actionable next steps
5. An encouraging closing note`,
		rec.Profile.Level,
		rec.Profile.LearningStyle,
		joinOr(rec.Profile.Strengths, "Not yet assessed"),
		joinOr(rec.Profile.Gaps, "None identified"),
		formatTopicEngagement(rec.TopicsStudied),
		len(history),
		formatHistory(history),
	)

	text, err := p.client.Generate(ctx, model.Request{
		Model:           p.opts.Model,
		SystemPrompt:    config.ProgressSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     p.opts.Temperature,
		MaxOutputTokens: p.opts.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("progress tracker: %w", err)
	}

	divider := strings.Repeat("=", 60)
	return fmt.Sprintf(`LEARNING PROGRESS REPORT
%s
Total interactions: %d | Topics explored: %d

%s

%s
Keep up the great work!`, divider, len(rec.Interactions), len(rec.TopicsStudied), text, divider), nil
}

// IdentifyGaps asks the model for a gap assessment over the recent history
// and replaces the stored gap list with the result. The model is instructed
// to answer with a JSON string array; a response that does not parse leaves
// the stored gaps untouched and returns the raw text.
func (p *ProgressTracker) IdentifyGaps(ctx context.Context, studentID string) ([]string, error) {
	history := p.memory.History(studentID, p.opts.HistoryLimit)
	if len(history) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(`Based on these recent learning interactions, identify up to 5 specific
knowledge gaps - concepts the student appears to struggle with or has not yet
mastered.

RECENT INTERACTIONS:
%s

Respond with ONLY a JSON array of short gap descriptions, for example:
["fraction division", "photosynthesis light reactions"]`, formatHistory(history))

	text, err := p.client.Generate(ctx, model.Request{
		Model:           p.opts.Model,
		SystemPrompt:    config.ProgressSystemPrompt,
		UserPrompt:      prompt,
		Temperature:     0.3,
		MaxOutputTokens: 300,
	})
	if err != nil {
		return nil, fmt.Errorf("gap analysis: %w", err)
	}

	var gaps []string
	cleaned := strings.TrimSpace(text)
	if start := strings.Index(cleaned, "["); start >= 0 {
		if end := strings.LastIndex(cleaned, "]"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}
	if err := json.Unmarshal([]byte(cleaned), &gaps); err != nil {
		return nil, fmt.Errorf("gap analysis: unparseable assessment: %s", strings.TrimSpace(text))
	}

	p.memory.ReplaceGaps(studentID, gaps)
	return gaps, nil
}

// MasteryAssessment grades a student's engagement with one topic.
type MasteryAssessment struct {
	Topic          string `json:"topic"`
	Level          string `json:"mastery_level"`
	Percentage     int    `json:"percentage"`
	Interactions   int    `json:"interactions"`
	Recommendation string `json:"recommendation"`
}

// MasteryScore assesses mastery of a topic from interaction counts alone: a
// local computation over recorded history, no model call. An interaction
// counts when the topic appears in its query or classified topic. More
// engagement maps to a higher tier; the percentages are fixed per tier.
func (p *ProgressTracker) MasteryScore(studentID, topic string) MasteryAssessment {
	needle := strings.ToLower(topic)
	count := 0
	for _, it := range p.memory.History(studentID, 0) {
		if strings.Contains(strings.ToLower(it.Query), needle) ||
			strings.Contains(strings.ToLower(it.Topic), needle) {
			count++
		}
	}

	if count == 0 {
		return MasteryAssessment{
			Topic:          topic,
			Level:          "Not Assessed",
			Percentage:     0,
			Recommendation: fmt.Sprintf("Start learning about %s to build mastery!", topic),
		}
	}

	var level string
	var pct int
	switch {
	case count >= 10:
		level, pct = "Advanced", 85
	case count >= 6:
		level, pct = "Proficient", 70
	case count >= 3:
		level, pct = "Developing", 55
	default:
		level, pct = "Beginner", 30
	}
	return MasteryAssessment{
		Topic:          topic,
		Level:          level,
		Percentage:     pct,
		Interactions:   count,
		Recommendation: masteryRecommendation(level, topic),
	}
}

func masteryRecommendation(level, topic string) string {
	switch level {
	case "Advanced":
		return fmt.Sprintf("Excellent mastery of %s! Consider teaching others or exploring advanced applications.", topic)
	case "Proficient":
		return fmt.Sprintf("Strong understanding of %s. Practice with challenging problems to master it completely.", topic)
	case "Developing":
		return fmt.Sprintf("Good progress on %s. Keep practicing and reviewing key concepts.", topic)
	default:
		return fmt.Sprintf("You're starting your journey with %s. Focus on fundamentals and don't rush.", topic)
	}
}

func formatTopicEngagement(topics map[string]core.TopicStats) string {
	if len(topics) == 0 {
		return "- (no recognized topics yet)"
	}
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if topics[names[i]].Count != topics[names[j]].Count {
			return topics[names[i]].Count > topics[names[j]].Count
		}
		return names[i] < names[j]
	})
	var sb strings.Builder
	for _, name := range names {
		stats := topics[name]
		fmt.Fprintf(&sb, "- %s: %d interactions (last: %s)\n", name, stats.Count, stats.LastSeen.Format("2006-01-02"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatHistory(history []core.Interaction) string {
	if len(history) == 0 {
		return "- (none)"
	}
	var sb strings.Builder
	for _, it := range history {
		topic := it.Topic
		if topic == "" {
			topic = "general"
		}
		fmt.Fprintf(&sb, "- [%s] %s (%s): %s\n", it.Timestamp.Format("2006-01-02"), topic, it.Intent, it.Query)
	}
	return strings.TrimRight(sb.String(), "\n")
}
