// Package observability records structured traces, metric series and
// performance data for every routed request. The sink is append-only and
// in-process; traces can optionally be persisted through a TracePersister.
package observability

import (
	"sync"
	"time"

	"github.com/hupe1980/edumentor/logging"
)

// Trace statuses. A trace is terminal once EndTrace sets success or error.
const (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusError      = "error"
)

// TraceEvent is one intermediate event appended to a trace.
type TraceEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data,omitempty"`
}

// Trace is the timed record of one orchestrated request's lifecycle.
type Trace struct {
	TraceID   string         `json:"trace_id"`
	Operation string         `json:"operation"`
	StartTime time.Time      `json:"start_time"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Events    []TraceEvent   `json:"events"`
	EndTime   time.Time      `json:"end_time,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Status    string         `json:"status"`
	Result    map[string]any `json:"result,omitempty"`
}

func (t *Trace) terminal() bool {
	return t.Status == StatusSuccess || t.Status == StatusError
}

func (t *Trace) clone() *Trace {
	c := *t
	c.Events = append([]TraceEvent{}, t.Events...)
	return &c
}

// MetricPoint is one recorded metric value.
type MetricPoint struct {
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// MetricSummary holds on-demand summary statistics for a metric series.
type MetricSummary struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// performanceEntry is one LogPerformance record.
type performanceEntry struct {
	Timestamp time.Time
	Component string
	Operation string
	Duration  time.Duration
	Success   bool
}

// OperationStats aggregates performance entries per component/operation.
type OperationStats struct {
	Count           int           `json:"count"`
	AvgDuration     time.Duration `json:"avg_duration"`
	MinDuration     time.Duration `json:"min_duration"`
	MaxDuration     time.Duration `json:"max_duration"`
	SuccessRatePct  float64       `json:"success_rate_pct"`
}

// Options configures a Sink.
type Options struct {
	// Persister optionally stores completed traces. Persistence failures are
	// logged and never propagated to EndTrace callers.
	Persister TracePersister
	// Logger receives sink diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Sink aggregates traces, metrics and performance data. Safe for concurrent use.
type Sink struct {
	mu      sync.Mutex
	traces  map[string]*Trace
	metrics map[string][]MetricPoint
	perf    []performanceEntry
	opts    Options
}

// NewSink constructs an empty Sink.
func NewSink(optFns ...func(o *Options)) *Sink {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Sink{
		traces:  map[string]*Trace{},
		metrics: map[string][]MetricPoint{},
		opts:    opts,
	}
}

// StartTrace begins a new trace. Restarting an existing trace id replaces it.
func (s *Sink) StartTrace(traceID, operation string, metadata map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces[traceID] = &Trace{
		TraceID:   traceID,
		Operation: operation,
		StartTime: time.Now().UTC(),
		Metadata:  metadata,
		Events:    []TraceEvent{},
		Status:    StatusInProgress,
	}
}

// AddEvent appends an event to a non-terminal trace. Unknown or already
// terminal trace ids are a silent no-op.
func (s *Sink) AddEvent(traceID, name string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trace, ok := s.traces[traceID]
	if !ok || trace.terminal() {
		return
	}
	trace.Events = append(trace.Events, TraceEvent{Timestamp: time.Now().UTC(), Name: name, Data: data})
}

// EndTrace marks the trace terminal with the given status, computes its
// duration and hands it to the persister. Unknown trace ids are a no-op;
// persistence failures are swallowed after logging.
func (s *Sink) EndTrace(traceID, status string, result map[string]any) {
	s.mu.Lock()
	trace, ok := s.traces[traceID]
	if !ok || trace.terminal() {
		s.mu.Unlock()
		return
	}
	trace.EndTime = time.Now().UTC()
	trace.Duration = trace.EndTime.Sub(trace.StartTime)
	trace.Status = status
	trace.Result = result
	snapshot := trace.clone()
	s.mu.Unlock()

	if s.opts.Persister != nil {
		if err := s.opts.Persister.Save(snapshot); err != nil {
			s.opts.Logger.Warn("failed to persist trace", "trace_id", traceID, "error", err)
		}
	}
}

// Trace returns a copy of a trace for inspection.
func (s *Sink) Trace(traceID string) (*Trace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trace, ok := s.traces[traceID]
	if !ok {
		return nil, false
	}
	return trace.clone(), true
}

// RecordMetric appends one value to the named metric series.
func (s *Sink) RecordMetric(name string, value float64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[name] = append(s.metrics[name], MetricPoint{
		Timestamp: time.Now().UTC(),
		Name:      name,
		Value:     value,
		Tags:      tags,
	})
}

// Summarize computes count/sum/mean/min/max for a metric series.
func (s *Sink) Summarize(name string) (MetricSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points, ok := s.metrics[name]
	if !ok || len(points) == 0 {
		return MetricSummary{}, false
	}
	summary := MetricSummary{Count: len(points), Min: points[0].Value, Max: points[0].Value}
	for _, p := range points {
		summary.Sum += p.Value
		if p.Value < summary.Min {
			summary.Min = p.Value
		}
		if p.Value > summary.Max {
			summary.Max = p.Value
		}
	}
	summary.Mean = summary.Sum / float64(summary.Count)
	return summary, true
}

// LogPerformance records component/operation timing and also derives a
// performance.<component>.<operation> metric.
func (s *Sink) LogPerformance(component, operation string, duration time.Duration, success bool) {
	s.mu.Lock()
	s.perf = append(s.perf, performanceEntry{
		Timestamp: time.Now().UTC(),
		Component: component,
		Operation: operation,
		Duration:  duration,
		Success:   success,
	})
	s.mu.Unlock()

	successTag := "false"
	if success {
		successTag = "true"
	}
	s.RecordMetric(
		"performance."+component+"."+operation,
		duration.Seconds(),
		map[string]string{"success": successTag},
	)
}

// PerformanceReport aggregates performance entries grouped by component and
// operation: count, avg/min/max duration and success rate percentage.
func (s *Sink) PerformanceReport() map[string]map[string]OperationStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	type bucket struct {
		durations []time.Duration
		successes int
	}
	grouped := map[string]map[string]*bucket{}
	for _, entry := range s.perf {
		if grouped[entry.Component] == nil {
			grouped[entry.Component] = map[string]*bucket{}
		}
		b := grouped[entry.Component][entry.Operation]
		if b == nil {
			b = &bucket{}
			grouped[entry.Component][entry.Operation] = b
		}
		b.durations = append(b.durations, entry.Duration)
		if entry.Success {
			b.successes++
		}
	}

	report := make(map[string]map[string]OperationStats, len(grouped))
	for component, operations := range grouped {
		report[component] = make(map[string]OperationStats, len(operations))
		for operation, b := range operations {
			stats := OperationStats{Count: len(b.durations), MinDuration: b.durations[0], MaxDuration: b.durations[0]}
			var total time.Duration
			for _, d := range b.durations {
				total += d
				if d < stats.MinDuration {
					stats.MinDuration = d
				}
				if d > stats.MaxDuration {
					stats.MaxDuration = d
				}
			}
			stats.AvgDuration = total / time.Duration(stats.Count)
			stats.SuccessRatePct = float64(b.successes) / float64(stats.Count) * 100
			report[component][operation] = stats
		}
	}
	return report
}

// Snapshot is a point-in-time export of the sink's aggregates.
type Snapshot struct {
	ExportedAt time.Time                            `json:"exported_at"`
	Metrics    map[string]MetricSummary             `json:"metrics"`
	Report     map[string]map[string]OperationStats `json:"report"`
}

// Export builds a snapshot of every metric summary plus the performance report.
func (s *Sink) Export() Snapshot {
	s.mu.Lock()
	names := make([]string, 0, len(s.metrics))
	for name := range s.metrics {
		names = append(names, name)
	}
	s.mu.Unlock()

	snap := Snapshot{
		ExportedAt: time.Now().UTC(),
		Metrics:    make(map[string]MetricSummary, len(names)),
		Report:     s.PerformanceReport(),
	}
	for _, name := range names {
		if summary, ok := s.Summarize(name); ok {
			snap.Metrics[name] = summary
		}
	}
	return snap
}
