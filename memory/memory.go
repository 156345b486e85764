// Package memory implements the per-student long-term memory store: learning
// profile, bounded interaction log, topic frequency counters and the compact
// context summary produced by compaction.
//
// The store is the sole mutator of its records. Writes to a given student are
// serialized through a per-student lock so cap enforcement happens atomically
// with each append. Durable persistence is optional; save failures are
// logged and never propagated.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/edumentor/core"
	"github.com/hupe1980/edumentor/logging"
	"github.com/hupe1980/edumentor/store"
)

const recordKind = "memory"

// Options configures a Store.
type Options struct {
	// HistoryCap bounds the interaction log (default 50).
	HistoryCap int
	// SummaryLength bounds stored response summaries (default 200).
	SummaryLength int
	// Classifier infers topics from query text. Defaults to the keyword taxonomy.
	Classifier TopicClassifier
	// Records optionally persists records across restarts.
	Records store.RecordStore
	// Logger receives persistence warnings. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Store is the long-term memory store, keyed by student id.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	opts    Options
}

type entry struct {
	mu  sync.Mutex
	rec *core.StudentRecord
}

// NewStore constructs a Store with the supplied options.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		HistoryCap:    50,
		SummaryLength: 200,
		Classifier:    NewKeywordClassifier(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Classifier == nil {
		opts.Classifier = NewKeywordClassifier()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Store{entries: map[string]*entry{}, opts: opts}
}

// entryFor returns the entry for a student, creating (and loading, when a
// record store is configured) it on first access.
func (s *Store) entryFor(studentID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[studentID]; ok {
		return e
	}
	rec := core.NewStudentRecord(studentID)
	if s.opts.Records != nil {
		var loaded core.StudentRecord
		ok, err := store.LoadJSON(s.opts.Records, recordKind, studentID, &loaded)
		if err != nil {
			s.opts.Logger.Warn("failed to load student record", "student_id", studentID, "error", err)
		} else if ok {
			if loaded.TopicsStudied == nil {
				loaded.TopicsStudied = map[string]core.TopicStats{}
			}
			if loaded.ArchivedTopics == nil {
				loaded.ArchivedTopics = map[string]int{}
			}
			rec = &loaded
		}
	}
	e := &entry{rec: rec}
	s.entries[studentID] = e
	return e
}

// persist saves the record if a record store is configured. Failures are
// logged; in-memory state is already updated and is not rolled back.
func (s *Store) persist(rec *core.StudentRecord) {
	if s.opts.Records == nil {
		return
	}
	if err := store.SaveJSON(s.opts.Records, recordKind, rec.StudentID, rec); err != nil {
		s.opts.Logger.Warn("failed to save student record", "student_id", rec.StudentID, "error", err)
	}
}

// Context returns the read-only projection used by agents and the classifier.
func (s *Store) Context(studentID string) core.StudentContext {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.rec

	// Unique topics over the last five interactions, most recent first.
	var recent []string
	seen := map[string]bool{}
	start := len(rec.Interactions) - 5
	if start < 0 {
		start = 0
	}
	for i := len(rec.Interactions) - 1; i >= start; i-- {
		topic := rec.Interactions[i].Topic
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		recent = append(recent, topic)
	}

	return core.StudentContext{
		Level:             rec.Profile.Level,
		LearningStyle:     rec.Profile.LearningStyle,
		Strengths:         append([]string{}, rec.Profile.Strengths...),
		Gaps:              append([]string{}, rec.Profile.Gaps...),
		Interests:         append([]string{}, rec.Profile.Interests...),
		RecentTopics:      recent,
		TotalInteractions: len(rec.Interactions),
		Preferences:       rec.Preferences,
	}
}

// AddInteraction records one routed request. It is the sole mutator of the
// interaction log and the topic counters. The history cap is enforced in the
// same critical section as the append; entries dropped past the cap are
// counted into ArchivedTopics for later compaction.
func (s *Store) AddInteraction(studentID, query, response string, intent core.Intent) {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.rec
	now := time.Now().UTC()

	summary := core.Truncate(response, s.opts.SummaryLength)
	topic := s.opts.Classifier.Classify(query)

	rec.Interactions = append(rec.Interactions, core.Interaction{
		Timestamp:       now,
		Query:           query,
		ResponseSummary: summary,
		Intent:          intent,
		Topic:           topic,
	})
	if overflow := len(rec.Interactions) - s.opts.HistoryCap; overflow > 0 {
		for _, dropped := range rec.Interactions[:overflow] {
			if dropped.Topic != "" {
				rec.ArchivedTopics[dropped.Topic]++
			}
		}
		rec.Interactions = append([]core.Interaction{}, rec.Interactions[overflow:]...)
	}

	if topic != "" {
		stats, ok := rec.TopicsStudied[topic]
		if !ok {
			stats = core.TopicStats{FirstSeen: now}
		}
		stats.LastSeen = now
		stats.Count++
		rec.TopicsStudied[topic] = stats
	}

	s.persist(rec)
}

// ProfileUpdate is a partial profile mutation; nil fields are left untouched.
type ProfileUpdate struct {
	Level              *string
	LearningStyle      *string
	Interests          []string
	ExplanationDetail  *string
	PracticeDifficulty *string
}

// UpdateProfile applies a partial update to the student profile and preferences.
func (s *Store) UpdateProfile(studentID string, update ProfileUpdate) {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.rec
	if update.Level != nil {
		rec.Profile.Level = *update.Level
	}
	if update.LearningStyle != nil {
		rec.Profile.LearningStyle = *update.LearningStyle
	}
	if update.Interests != nil {
		rec.Profile.Interests = append([]string{}, update.Interests...)
	}
	if update.ExplanationDetail != nil {
		rec.Preferences.ExplanationDetail = *update.ExplanationDetail
	}
	if update.PracticeDifficulty != nil {
		rec.Preferences.PracticeDifficulty = *update.PracticeDifficulty
	}

	s.persist(rec)
}

// AddStrength records an identified strength. Idempotent: duplicates are ignored.
func (s *Store) AddStrength(studentID, strength string) {
	s.addToSet(studentID, strength, func(rec *core.StudentRecord) *[]string { return &rec.Profile.Strengths })
}

// AddGap records an identified knowledge gap. Idempotent: duplicates are ignored.
func (s *Store) AddGap(studentID, gap string) {
	s.addToSet(studentID, gap, func(rec *core.StudentRecord) *[]string { return &rec.Profile.Gaps })
}

func (s *Store) addToSet(studentID, value string, field func(*core.StudentRecord) *[]string) {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	target := field(e.rec)
	for _, existing := range *target {
		if existing == value {
			return
		}
	}
	*target = append(*target, value)
	s.persist(e.rec)
}

// ReplaceGaps replaces the complete gap list.
func (s *Store) ReplaceGaps(studentID string, gaps []string) {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rec.Profile.Gaps = append([]string{}, gaps...)
	s.persist(e.rec)
}

// History returns up to limit most-recent interactions, oldest first.
func (s *Store) History(studentID string, limit int) []core.Interaction {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	interactions := e.rec.Interactions
	if limit > 0 && len(interactions) > limit {
		interactions = interactions[len(interactions)-limit:]
	}
	return append([]core.Interaction{}, interactions...)
}

// Record returns a clone of the full student record.
func (s *Store) Record(studentID string) *core.StudentRecord {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone()
}

// CompactIfNeeded folds everything beyond the most-recent 50 interactions,
// plus previously archived drop counts, into the context summary once the
// total number of interactions seen reaches threshold. It is an explicit
// maintenance operation, idempotent, and lossy only for entries already
// folded. Returns whether a summary was (re)built.
func (s *Store) CompactIfNeeded(studentID string, threshold int) bool {
	e := s.entryFor(studentID)
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.rec

	archivedTotal := 0
	for _, count := range rec.ArchivedTopics {
		archivedTotal += count
	}
	if len(rec.Interactions)+archivedTotal < threshold {
		return false
	}

	const keep = 50
	if len(rec.Interactions) > keep {
		for _, old := range rec.Interactions[:len(rec.Interactions)-keep] {
			if old.Topic != "" {
				rec.ArchivedTopics[old.Topic]++
			}
		}
		rec.Interactions = append([]core.Interaction{}, rec.Interactions[len(rec.Interactions)-keep:]...)
	}

	rec.ContextSummary = summarizeTopics(rec.ArchivedTopics)
	s.persist(rec)
	return true
}

// ContextSummary renders a compact context block for prompt injection.
func (s *Store) ContextSummary(studentID string) string {
	sc := s.Context(studentID)

	joinOr := func(items []string, max int, fallback string) string {
		if len(items) == 0 {
			return fallback
		}
		if len(items) > max {
			items = items[:max]
		}
		return strings.Join(items, ", ")
	}

	return fmt.Sprintf(`Student Level: %s
Learning Style: %s
Recent Topics: %s
Strengths: %s
Areas for Growth: %s`,
		sc.Level,
		sc.LearningStyle,
		joinOr(sc.RecentTopics, 3, "None"),
		joinOr(sc.Strengths, 3, "Not yet identified"),
		joinOr(sc.Gaps, 3, "None identified"),
	)
}

func summarizeTopics(counts map[string]int) string {
	if len(counts) == 0 {
		return "Earlier sessions covered: (no recognized topics)"
	}
	topics := make([]string, 0, len(counts))
	for topic := range counts {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	parts := make([]string, 0, len(topics))
	for _, topic := range topics {
		parts = append(parts, fmt.Sprintf("%s=%d", topic, counts[topic]))
	}
	return "Earlier sessions covered: " + strings.Join(parts, ", ")
}
