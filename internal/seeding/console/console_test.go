package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/worldseed/internal/seeding"
)

func TestAskReadsLines(t *testing.T) {
	var out bytes.Buffer
	op := New(strings.NewReader("Core Worlds\r\n  yes\nlast"), &out)
	ctx := context.Background()

	want := []string{"Core Worlds", "  yes", "last"}
	for i, w := range want {
		got, err := op.Ask(ctx, seeding.Prompt{Seeder: "economic-zones", QuestionID: "q", Text: "Name?", Attempt: 1})
		if err != nil {
			t.Fatalf("ask %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("ask %d = %q, want %q", i, got, w)
		}
	}

	if _, err := op.Ask(ctx, seeding.Prompt{Seeder: "economic-zones", Text: "Name?"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("ask after end = %v, want ErrClosed", err)
	}
	if !strings.Contains(out.String(), "[economic-zones]") || !strings.Contains(out.String(), "Name?") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestAskShowsProblemOnRetry(t *testing.T) {
	var out bytes.Buffer
	op := New(strings.NewReader("2\n"), &out)

	_, err := op.Ask(context.Background(), seeding.Prompt{
		Seeder:  "arena",
		Text:    "Which economic zone hosts the arena?",
		Problem: "no economic zone has id 9 (valid ids: 1, 2)",
		Attempt: 2,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	text := out.String()
	problem := strings.Index(text, "valid ids: 1, 2")
	prompt := strings.Index(text, "Which economic zone")
	if problem < 0 || prompt < 0 || problem > prompt {
		t.Fatalf("expected problem before prompt, got %q", text)
	}
}

func TestAskHonorsCanceledContext(t *testing.T) {
	op := New(strings.NewReader("ignored\n"), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := op.Ask(ctx, seeding.Prompt{Seeder: "s", Text: "t"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("ask = %v, want context.Canceled", err)
	}
}

func TestReportWritesEveryKind(t *testing.T) {
	var out bytes.Buffer
	op := New(strings.NewReader(""), &out)
	kinds := []seeding.NoticeKind{
		seeding.NoticeInfo, seeding.NoticeApplied, seeding.NoticeSkipped,
		seeding.NoticeBlocked, seeding.NoticeFailed,
	}
	for _, kind := range kinds {
		op.Report(context.Background(), seeding.Notice{Seeder: "arena", Kind: kind, Text: "message"})
	}
	if got := strings.Count(out.String(), "message"); got != len(kinds) {
		t.Fatalf("notices written = %d, want %d: %q", got, len(kinds), out.String())
	}
}
