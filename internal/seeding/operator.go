package seeding

import "context"

// Prompt is one request for operator input.
type Prompt struct {
	Seeder     string
	QuestionID string
	Text       string
	// Problem carries the previous answer's rejection, if any.
	Problem string
	// Attempt counts prompts for this question, starting at 1.
	Attempt int
}

// NoticeKind classifies operator notices.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeApplied
	NoticeSkipped
	NoticeBlocked
	NoticeFailed
)

// Notice is a message for the operator.
type Notice struct {
	Seeder string
	Kind   NoticeKind
	Text   string
}

// Operator is the human on the other side of the runner.
type Operator interface {
	// Ask blocks until the operator answers. An error ends the seeder's
	// question phase without any writes.
	Ask(ctx context.Context, prompt Prompt) (string, error)
	Report(ctx context.Context, notice Notice)
}
