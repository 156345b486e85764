// Package agent implements the four specialized capabilities coordinated by
// the orchestrator: Socratic tutoring, quiz generation, progress analysis and
// concept explanation. Each capability exposes typed operations backed by one
// completion-service call; every operation is independently retryable and
// surfaces failures as errors for the orchestrator to degrade on.
package agent
