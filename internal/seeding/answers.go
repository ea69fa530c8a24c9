package seeding

import (
	"fmt"
	"sort"
	"strconv"

	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
)

// AnswerSet maps question IDs to accepted answers. It is immutable; With
// returns a new set.
type AnswerSet struct {
	values map[string]string
}

// NewAnswerSet returns an empty answer set.
func NewAnswerSet() AnswerSet {
	return AnswerSet{}
}

// AnswersOf builds a set from a map. The map is copied.
func AnswersOf(values map[string]string) AnswerSet {
	set := AnswerSet{values: make(map[string]string, len(values))}
	for id, answer := range values {
		set.values[id] = answer
	}
	return set
}

// With returns a copy of s that also maps id to answer.
func (s AnswerSet) With(id, answer string) AnswerSet {
	next := AnswerSet{values: make(map[string]string, len(s.values)+1)}
	for key, value := range s.values {
		next.values[key] = value
	}
	next.values[id] = answer
	return next
}

// Get returns the answer recorded for id.
func (s AnswerSet) Get(id string) (string, bool) {
	answer, ok := s.values[id]
	return answer, ok
}

// Has reports whether id was answered.
func (s AnswerSet) Has(id string) bool {
	_, ok := s.values[id]
	return ok
}

// Len returns the number of answers.
func (s AnswerSet) Len() int {
	return len(s.values)
}

// IDs returns the answered question IDs in sorted order.
func (s AnswerSet) IDs() []string {
	ids := make([]string, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// View is a filter's window onto earlier answers. Only IDs the question
// declares in Requires are readable; other reads return nothing and are
// recorded as graph violations.
type View struct {
	answers    AnswerSet
	allowed    map[string]struct{}
	undeclared []string
}

func newView(answers AnswerSet, requires []string) *View {
	allowed := make(map[string]struct{}, len(requires))
	for _, id := range requires {
		allowed[id] = struct{}{}
	}
	return &View{answers: answers, allowed: allowed}
}

// Get returns a declared answer. Skipped questions report false.
func (v *View) Get(id string) (string, bool) {
	if _, ok := v.allowed[id]; !ok {
		v.undeclared = append(v.undeclared, id)
		return "", false
	}
	return v.answers.Get(id)
}

// Is reports whether the declared answer id equals want, ignoring case.
func (v *View) Is(id, want string) bool {
	answer, ok := v.Get(id)
	return ok && EqualFold(answer, want)
}

// Yes reports whether the declared answer id is an affirmative yes/no answer.
// A skipped or unparsable answer is not affirmative.
func (v *View) Yes(id string) bool {
	answer, ok := v.Get(id)
	if !ok {
		return false
	}
	yes, err := ParseBool(answer)
	return err == nil && yes
}

// Undeclared returns IDs read without being declared.
func (v *View) Undeclared() []string {
	return append([]string(nil), v.undeclared...)
}

// Answers is the read-only answer access handed to SeedData. It resolves
// skipped questions through their declared Default.
type Answers struct {
	seeder    string
	set       AnswerSet
	questions map[string]Question
}

// NewAnswers binds an answer set to the questions that produced it.
func NewAnswers(seeder string, questions []Question, set AnswerSet) Answers {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return Answers{seeder: seeder, set: set, questions: byID}
}

// Set returns the underlying answer set. Defaults are never part of it.
func (a Answers) Set() AnswerSet {
	return a.set
}

// Value returns the answer for id, the question's Default when it was
// skipped, or an ANSWER_MISSING error when it was skipped without one.
func (a Answers) Value(id string) (string, error) {
	q, known := a.questions[id]
	if !known {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidQuestionGraph,
			fmt.Sprintf("seeder %s has no question %q", a.seeder, id),
			map[string]string{"seeder": a.seeder, "question": id})
	}
	if answer, ok := a.set.Get(id); ok {
		return answer, nil
	}
	if value, ok := q.Default.Value(); ok {
		return value, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeAnswerMissing,
		fmt.Sprintf("question %q was skipped and declares no default", id),
		map[string]string{"seeder": a.seeder, "question": id})
}

// TextOr returns the answer for id, or fallback when the answer is blank.
func (a Answers) TextOr(id, fallback string) (string, error) {
	value, err := a.Value(id)
	if err != nil {
		return "", err
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// Bool parses the answer for id as yes/no.
func (a Answers) Bool(id string) (bool, error) {
	value, err := a.Value(id)
	if err != nil {
		return false, err
	}
	yes, err := ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("answer %q: %w", id, err)
	}
	return yes, nil
}

// Int parses the answer for id as a base-10 integer.
func (a Answers) Int(id string) (int64, error) {
	value, err := a.Value(id)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("answer %q is not an integer: %w", id, err)
	}
	return n, nil
}
