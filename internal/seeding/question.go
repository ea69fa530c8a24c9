package seeding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
	"github.com/louisbranch/worldseed/internal/storage"
)

// FilterFunc decides whether a question is asked, given the store and the
// answers the question declares in Requires.
type FilterFunc func(ctx context.Context, r storage.Reader, answers *View) (bool, error)

// ValidateFunc accepts or rejects a candidate answer. Rejections are
// reported with Invalid; any other error aborts the question phase.
type ValidateFunc func(ctx context.Context, r storage.Reader, answer string) error

// Question describes one operator prompt.
type Question struct {
	ID     string
	Prompt string
	// Requires lists earlier question IDs the filter reads.
	Requires []string
	// Filter gates the question; nil means always ask.
	Filter FilterFunc
	// Validate checks answers; use AnyAnswer to accept everything.
	Validate ValidateFunc
	// Default is what SeedData reads when the question was skipped.
	Default Default
}

// Default is a question's skip policy.
type Default struct {
	value string
	set   bool
}

// DefaultTo declares value as the answer for a skipped question.
func DefaultTo(value string) Default {
	return Default{value: value, set: true}
}

// Value returns the default and whether one is declared.
func (d Default) Value() (string, bool) {
	return d.value, d.set
}

// ValidationError rejects an answer with a message meant for the operator.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError and the VALIDATION_FAILED domain code.
func (e *ValidationError) Is(target error) bool {
	switch t := target.(type) {
	case *ValidationError:
		return true
	case *apperrors.Error:
		return t.Code == apperrors.CodeValidationFailed
	}
	return false
}

// Invalid returns a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err rejects an answer.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// CheckQuestions validates a question list: IDs are unique and non-blank,
// prompts are present, validators are set, and every Requires entry names
// an earlier question.
func CheckQuestions(seeder string, questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	var problems []string
	for i, q := range questions {
		id := strings.TrimSpace(q.ID)
		switch {
		case id == "":
			problems = append(problems, fmt.Sprintf("question %d has no id", i))
			continue
		case id != q.ID:
			problems = append(problems, fmt.Sprintf("question %q has surrounding whitespace", q.ID))
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("question %q is declared twice", id))
		}
		if strings.TrimSpace(q.Prompt) == "" {
			problems = append(problems, fmt.Sprintf("question %q has no prompt", id))
		}
		if q.Validate == nil {
			problems = append(problems, fmt.Sprintf("question %q has no validator", id))
		}
		for _, dep := range q.Requires {
			if dep == id {
				problems = append(problems, fmt.Sprintf("question %q requires itself", id))
				continue
			}
			if _, earlier := seen[dep]; !earlier {
				problems = append(problems, fmt.Sprintf("question %q requires %q, which is not an earlier question", id, dep))
			}
		}
		seen[id] = struct{}{}
	}
	if len(problems) == 0 {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidQuestionGraph,
		fmt.Sprintf("seeder %s: %s", seeder, strings.Join(problems, "; ")),
		map[string]string{"seeder": seeder})
}
