package seeding

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the accepted date format for answers.
const DateLayout = "2006-01-02"

// Normalize converts raw operator input to NFC and trims surrounding space.
func Normalize(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

// Fold returns the case-folded, normalized form of s.
func Fold(s string) string {
	return cases.Fold().String(Normalize(s))
}

// EqualFold compares two answers ignoring case and Unicode form.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ParseBool accepts yes/no style answers.
func ParseBool(answer string) (bool, error) {
	switch Fold(answer) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not yes or no", answer)
}

// ParseInt parses a base-10 integer answer.
func ParseInt(answer string) (int64, error) {
	n, err := strconv.ParseInt(Normalize(answer), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", answer)
	}
	return n, nil
}

// ParseDate parses a DateLayout answer.
func ParseDate(answer string) (time.Time, error) {
	date, err := time.Parse(DateLayout, Normalize(answer))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a date in YYYY-MM-DD form", answer)
	}
	return date, nil
}

// Choices maps case-insensitive answer keys to typed values, so closed sets
// are converted at the boundary where the raw answer arrives.
type Choices[T any] struct {
	keys   []string
	values map[string]T
}

// NewChoices builds a choice set; keys are matched with Fold.
func NewChoices[T any](values map[string]T) Choices[T] {
	c := Choices[T]{values: make(map[string]T, len(values))}
	for key, value := range values {
		folded := Fold(key)
		c.keys = append(c.keys, folded)
		c.values[folded] = value
	}
	sort.Strings(c.keys)
	return c
}

// Parse returns the value for answer.
func (c Choices[T]) Parse(answer string) (T, error) {
	value, ok := c.values[Fold(answer)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%q is not one of %s", answer, strings.Join(c.keys, ", "))
	}
	return value, nil
}

// Keys returns the accepted answers in sorted order.
func (c Choices[T]) Keys() []string {
	return append([]string(nil), c.keys...)
}
