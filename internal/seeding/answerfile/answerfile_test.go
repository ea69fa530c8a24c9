package answerfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/worldseed/internal/seeding"
)

type recordingOperator struct {
	answer  string
	asked   []seeding.Prompt
	notices []seeding.Notice
}

func (o *recordingOperator) Ask(_ context.Context, prompt seeding.Prompt) (string, error) {
	o.asked = append(o.asked, prompt)
	return o.answer, nil
}

func (o *recordingOperator) Report(_ context.Context, notice seeding.Notice) {
	o.notices = append(o.notices, notice)
}

const sample = `
[economic-zones]
zone-name = "Core Worlds"
frontier = true

[arena]
arena-capacity = 5000
`

func TestParseConvertsValues(t *testing.T) {
	script, err := Parse(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if script.Len() != 3 {
		t.Fatalf("len = %d, want 3", script.Len())
	}
	ctx := context.Background()
	cases := []struct {
		seeder, question, want string
	}{
		{"economic-zones", "zone-name", "Core Worlds"},
		{"economic-zones", "frontier", "yes"},
		{"arena", "arena-capacity", "5000"},
	}
	for _, tc := range cases {
		got, err := script.Ask(ctx, seeding.Prompt{Seeder: tc.seeder, QuestionID: tc.question, Attempt: 1})
		if err != nil {
			t.Fatalf("ask %s.%s: %v", tc.seeder, tc.question, err)
		}
		if got != tc.want {
			t.Fatalf("ask %s.%s = %q, want %q", tc.seeder, tc.question, got, tc.want)
		}
	}
	if unused := script.Unused(); len(unused) != 0 {
		t.Fatalf("unused = %v", unused)
	}
}

func TestParseRejectsUnsupportedValues(t *testing.T) {
	if _, err := Parse("[arena]\nrooms = [\"a\", \"b\"]\n"); err == nil {
		t.Fatal("expected error for array answer")
	}
	if _, err := Parse("not toml ="); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAskOffersScriptedAnswerOnce(t *testing.T) {
	script, err := Parse("[arena]\narena-zone = \"9\"\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ctx := context.Background()
	prompt := seeding.Prompt{Seeder: "arena", QuestionID: "arena-zone", Attempt: 1}
	if got, err := script.Ask(ctx, prompt); err != nil || got != "9" {
		t.Fatalf("first ask = %q, %v", got, err)
	}

	prompt.Attempt = 2
	prompt.Problem = "no economic zone has id 9 (valid ids: 1)"
	_, err = script.Ask(ctx, prompt)
	if !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("second ask = %v, want ErrNoAnswer", err)
	}
	if !strings.Contains(err.Error(), "valid ids: 1") {
		t.Fatalf("error should carry the rejection, got %v", err)
	}

	fallback := &recordingOperator{answer: "1"}
	script.WithFallback(fallback)
	if got, err := script.Ask(ctx, prompt); err != nil || got != "1" {
		t.Fatalf("fallback ask = %q, %v", got, err)
	}
	if len(fallback.asked) != 1 || fallback.asked[0].Problem == "" {
		t.Fatalf("fallback prompts = %+v", fallback.asked)
	}
}

func TestAskFallsBackForMissingAnswers(t *testing.T) {
	script, err := Parse("[arena]\narena-zone = \"1\"\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fallback := &recordingOperator{answer: "typed"}
	script.WithFallback(fallback)

	got, err := script.Ask(context.Background(), seeding.Prompt{Seeder: "arena", QuestionID: "arena-manager"})
	if err != nil || got != "typed" {
		t.Fatalf("ask = %q, %v", got, err)
	}
	script.Report(context.Background(), seeding.Notice{Seeder: "arena", Text: "done"})
	if len(fallback.notices) != 1 {
		t.Fatalf("notices = %+v", fallback.notices)
	}
	if unused := script.Unused(); len(unused) != 1 || unused[0] != "arena.arena-zone" {
		t.Fatalf("unused = %v", unused)
	}
}

func TestLoadAndEcho(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write answers: %v", err)
	}
	script, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var out bytes.Buffer
	script.WithOutput(&out)
	if _, err := script.Ask(context.Background(), seeding.Prompt{Seeder: "arena", QuestionID: "arena-capacity", Text: "Capacity?"}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	script.Report(context.Background(), seeding.Notice{Seeder: "arena", Text: "created arena"})
	if !strings.Contains(out.String(), "Capacity? 5000") || !strings.Contains(out.String(), "created arena") {
		t.Fatalf("output = %q", out.String())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
