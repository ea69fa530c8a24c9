package seeding

import (
	"errors"
	"fmt"
)

// Status is what happened to one seeder during a run.
type Status int

const (
	StatusApplied Status = iota + 1
	StatusDryRun
	StatusAlreadyInstalled
	StatusBlocked
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusDryRun:
		return "dry run"
	case StatusAlreadyInstalled:
		return "already installed"
	case StatusBlocked:
		return "blocked"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records one seeder's run.
type Outcome struct {
	Seeder  string
	Status  Status
	Summary string
	Reason  string
	// Asked counts questions that were presented to the operator.
	Asked   int
	Answers AnswerSet
	Err     error
}

// Report collects outcomes in run order.
type Report struct {
	Outcomes []Outcome
}

// ByStatus returns outcomes with status s.
func (r Report) ByStatus(s Status) []Outcome {
	var matched []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Status == s {
			matched = append(matched, outcome)
		}
	}
	return matched
}

// Err joins every failure, or returns nil when nothing failed.
func (r Report) Err() error {
	var errs []error
	for _, outcome := range r.Outcomes {
		if outcome.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("seeder %s: %w", outcome.Seeder, outcome.Err))
		}
	}
	return errors.Join(errs...)
}
