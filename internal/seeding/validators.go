package seeding

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/worldseed/internal/storage"
)

// AnyAnswer accepts every answer, including blank ones.
func AnyAnswer(context.Context, storage.Reader, string) error {
	return nil
}

// NonBlank rejects empty answers.
func NonBlank(what string) ValidateFunc {
	return func(_ context.Context, _ storage.Reader, answer string) error {
		if answer == "" {
			return Invalid("%s cannot be blank", what)
		}
		return nil
	}
}

// YesNo accepts yes/no answers.
func YesNo(_ context.Context, _ storage.Reader, answer string) error {
	if _, err := ParseBool(answer); err != nil {
		return Invalid("%s; answer yes or no", err)
	}
	return nil
}

// IntBetween accepts whole numbers in [lo, hi].
func IntBetween(lo, hi int64) ValidateFunc {
	return func(_ context.Context, _ storage.Reader, answer string) error {
		n, err := ParseInt(answer)
		if err != nil {
			return Invalid("%s; enter a number from %d to %d", err, lo, hi)
		}
		if n < lo || n > hi {
			return Invalid("%d is out of range; enter a number from %d to %d", n, lo, hi)
		}
		return nil
	}
}

// Date accepts DateLayout dates.
func Date(_ context.Context, _ storage.Reader, answer string) error {
	if _, err := ParseDate(answer); err != nil {
		return Invalid("%s", err)
	}
	return nil
}

// OneOf accepts answers found in choices.
func OneOf[T any](choices Choices[T]) ValidateFunc {
	return func(_ context.Context, _ storage.Reader, answer string) error {
		if _, err := choices.Parse(answer); err != nil {
			return Invalid("%s", err)
		}
		return nil
	}
}

// ExistingID accepts the numeric id of a row in table. Rejections list the
// ids that would be accepted.
func ExistingID(table, what string) ValidateFunc {
	return func(ctx context.Context, r storage.Reader, answer string) error {
		if !storage.ValidIdentifier(table) {
			return fmt.Errorf("%w: table %q", storage.ErrInvalidIdentifier, table)
		}
		ids, err := storage.IDs(ctx, r, "SELECT id FROM "+table+" ORDER BY id")
		if err != nil {
			return err
		}
		valid := formatIDs(ids)
		n, err := ParseInt(answer)
		if err != nil {
			return Invalid("%s; enter the numeric id of an existing %s (valid ids: %s)", err, what, valid)
		}
		for _, id := range ids {
			if id == n {
				return nil
			}
		}
		return Invalid("no %s has id %d (valid ids: %s)", what, n, valid)
	}
}

func formatIDs(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
