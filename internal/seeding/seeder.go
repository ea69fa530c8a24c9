package seeding

import (
	"context"

	"github.com/louisbranch/worldseed/internal/storage"
)

// SeedResult is the outcome of a precondition check.
type SeedResult int

const (
	// ReadyToInstall means the seeder may ask its questions and apply.
	ReadyToInstall SeedResult = iota + 1
	// MayAlreadyBeInstalled means a marker record exists; apply is skipped.
	MayAlreadyBeInstalled
	// PrerequisitesNotMet means upstream data is missing; nothing is asked.
	PrerequisitesNotMet
)

func (r SeedResult) String() string {
	switch r {
	case ReadyToInstall:
		return "ready to install"
	case MayAlreadyBeInstalled:
		return "may already be installed"
	case PrerequisitesNotMet:
		return "prerequisites not met"
	default:
		return "unknown"
	}
}

// Precondition is a SeedResult with an operator-facing reason.
type Precondition struct {
	Result SeedResult
	Reason string
}

// Ready reports that the seeder may run.
func Ready() Precondition {
	return Precondition{Result: ReadyToInstall}
}

// AlreadyInstalled reports that the seeder's marker record was found.
func AlreadyInstalled(reason string) Precondition {
	return Precondition{Result: MayAlreadyBeInstalled, Reason: reason}
}

// Blocked reports that required upstream data is missing.
func Blocked(reason string) Precondition {
	return Precondition{Result: PrerequisitesNotMet, Reason: reason}
}

// Info describes a seeder to the operator and the runner.
type Info struct {
	Name        string
	Tagline     string
	Description string
	// SortOrder places the seeder; lower runs first.
	SortOrder int
	Enabled   bool
}

// Seeder provisions one slice of baseline data.
//
// Implementations are stateless: everything SeedData needs arrives through
// its Scope, so a Seeder value can be run any number of times.
type Seeder interface {
	Info() Info
	Questions() []Question
	// ShouldSeedData must only read.
	ShouldSeedData(ctx context.Context, r storage.Reader) (Precondition, error)
	// SeedData performs every write through scope.Tx and returns a summary.
	// Returning an error rolls the whole transaction back.
	SeedData(ctx context.Context, scope *Scope) (string, error)
}

// Scope is the apply-phase context shared by a seeder's helpers.
type Scope struct {
	Tx      storage.Tx
	Answers Answers

	memo map[string]any
}

// NewScope returns a scope for one apply.
func NewScope(tx storage.Tx, answers Answers) *Scope {
	return &Scope{Tx: tx, Answers: answers, memo: map[string]any{}}
}

// Remember caches the result of load under key for the rest of the apply.
// Errors are not cached.
func Remember[T any](scope *Scope, key string, load func() (T, error)) (T, error) {
	if cached, ok := scope.memo[key]; ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}
	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	scope.memo[key] = value
	return value, nil
}
