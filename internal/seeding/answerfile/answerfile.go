// Package answerfile replays pre-supplied answers from a TOML file.
//
// The file holds one table per seeder, keyed by question id:
//
//	[economic-zones]
//	zone-name = "Core Worlds"
//	frontier = "yes"
//
//	[arena]
//	arena-capacity = 5000
//
// Each scripted answer is offered once. A missing or rejected answer is
// asked of the fallback operator, or fails when there is none.
package answerfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/louisbranch/worldseed/internal/seeding"
)

// ErrNoAnswer is returned when no scripted answer is left and no fallback
// is configured.
var ErrNoAnswer = errors.New("no scripted answer")

type key struct {
	seeder   string
	question string
}

// Script is a seeding.Operator backed by scripted answers.
type Script struct {
	mu       sync.Mutex
	answers  map[key]string
	used     map[key]bool
	fallback seeding.Operator
	out      io.Writer
}

// Load reads a script from path.
func Load(path string) (*Script, error) {
	var raw map[string]map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load answers %s: %w", path, err)
	}
	return fromTables(raw)
}

// Parse reads a script from TOML text.
func Parse(data string) (*Script, error) {
	var raw map[string]map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return fromTables(raw)
}

func fromTables(raw map[string]map[string]any) (*Script, error) {
	s := &Script{answers: map[key]string{}, used: map[key]bool{}}
	for seeder, questions := range raw {
		for question, value := range questions {
			answer, err := answerText(value)
			if err != nil {
				return nil, fmt.Errorf("answer %s.%s: %w", seeder, question, err)
			}
			s.answers[key{seeder: strings.TrimSpace(seeder), question: strings.TrimSpace(question)}] = answer
		}
	}
	return s, nil
}

func answerText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		if v {
			return "yes", nil
		}
		return "no", nil
	}
	return "", fmt.Errorf("unsupported value of type %T", value)
}

// WithFallback sets the operator asked once scripted answers run out. It
// also receives every notice.
func (s *Script) WithFallback(op seeding.Operator) *Script {
	s.fallback = op
	return s
}

// WithOutput echoes replayed answers and notices to w when there is no
// fallback.
func (s *Script) WithOutput(w io.Writer) *Script {
	s.out = w
	return s
}

// Len returns the number of scripted answers.
func (s *Script) Len() int {
	return len(s.answers)
}

// Ask returns the scripted answer for the prompt on its first attempt.
func (s *Script) Ask(ctx context.Context, prompt seeding.Prompt) (string, error) {
	k := key{seeder: prompt.Seeder, question: prompt.QuestionID}

	s.mu.Lock()
	answer, ok := s.answers[k]
	if ok && !s.used[k] {
		s.used[k] = true
		s.mu.Unlock()
		if s.out != nil {
			fmt.Fprintf(s.out, "[%s] %s %s\n", prompt.Seeder, prompt.Text, answer)
		}
		return answer, nil
	}
	s.mu.Unlock()

	if s.fallback != nil {
		return s.fallback.Ask(ctx, prompt)
	}
	if prompt.Problem != "" {
		return "", fmt.Errorf("%w for %s.%s: scripted answer rejected: %s", ErrNoAnswer, prompt.Seeder, prompt.QuestionID, prompt.Problem)
	}
	return "", fmt.Errorf("%w for %s.%s", ErrNoAnswer, prompt.Seeder, prompt.QuestionID)
}

// Report forwards notices to the fallback.
func (s *Script) Report(ctx context.Context, notice seeding.Notice) {
	if s.fallback != nil {
		s.fallback.Report(ctx, notice)
		return
	}
	if s.out != nil {
		fmt.Fprintf(s.out, "[%s] %s\n", notice.Seeder, notice.Text)
	}
}

// Unused lists scripted answers that were never asked for, as
// "seeder.question".
func (s *Script) Unused() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var unused []string
	for k := range s.answers {
		if !s.used[k] {
			unused = append(unused, k.seeder+"."+k.question)
		}
	}
	sort.Strings(unused)
	return unused
}
