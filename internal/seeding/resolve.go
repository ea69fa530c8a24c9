package seeding

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
	"github.com/louisbranch/worldseed/internal/storage"
)

// NextQuestion returns the first question, in declared order, that has no
// answer yet and whose filter passes. Filters are evaluated on every call
// because they may read answers given since the previous call. It reports
// false once no applicable question remains.
func NextQuestion(ctx context.Context, r storage.Reader, questions []Question, answers AnswerSet) (Question, bool, error) {
	for _, q := range questions {
		if answers.Has(q.ID) {
			continue
		}
		applicable, err := applies(ctx, r, q, answers)
		if err != nil {
			return Question{}, false, err
		}
		if applicable {
			return q, true, nil
		}
	}
	return Question{}, false, nil
}

func applies(ctx context.Context, r storage.Reader, q Question, answers AnswerSet) (bool, error) {
	if q.Filter == nil {
		return true, nil
	}
	view := newView(answers, q.Requires)
	ok, err := q.Filter(ctx, r, view)
	if undeclared := view.Undeclared(); len(undeclared) > 0 {
		return false, apperrors.WithMetadata(apperrors.CodeInvalidQuestionGraph,
			fmt.Sprintf("filter for %q reads undeclared answers: %s", q.ID, strings.Join(undeclared, ", ")),
			map[string]string{"question": q.ID})
	}
	if err != nil {
		return false, fmt.Errorf("filter %s: %w", q.ID, err)
	}
	return ok, nil
}
