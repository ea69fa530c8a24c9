package seeding

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
	"github.com/louisbranch/worldseed/internal/storage"
)

func TestCheckQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantErr   string
	}{
		{
			name: "valid forward-only graph",
			questions: []Question{
				{ID: "betting", Prompt: "Betting?", Validate: YesNo},
				{ID: "bookie", Prompt: "Bookie?", Requires: []string{"betting"}, Validate: AnyAnswer},
			},
		},
		{
			name: "forward reference",
			questions: []Question{
				{ID: "bookie", Prompt: "Bookie?", Requires: []string{"betting"}, Validate: AnyAnswer},
				{ID: "betting", Prompt: "Betting?", Validate: YesNo},
			},
			wantErr: `requires "betting", which is not an earlier question`,
		},
		{
			name: "self reference",
			questions: []Question{
				{ID: "loop", Prompt: "Loop?", Requires: []string{"loop"}, Validate: AnyAnswer},
			},
			wantErr: "requires itself",
		},
		{
			name: "duplicate id",
			questions: []Question{
				{ID: "zone", Prompt: "Zone?", Validate: AnyAnswer},
				{ID: "zone", Prompt: "Zone again?", Validate: AnyAnswer},
			},
			wantErr: "declared twice",
		},
		{
			name:      "missing validator",
			questions: []Question{{ID: "zone", Prompt: "Zone?"}},
			wantErr:   "has no validator",
		},
		{
			name:      "missing prompt",
			questions: []Question{{ID: "zone", Validate: AnyAnswer}},
			wantErr:   "has no prompt",
		},
		{
			name:      "blank id",
			questions: []Question{{ID: " ", Prompt: "Zone?", Validate: AnyAnswer}},
			wantErr:   "has no id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckQuestions("test", tt.questions)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
			if !apperrors.HasCode(err, apperrors.CodeInvalidQuestionGraph) {
				t.Fatalf("error code = %q, want INVALID_QUESTION_GRAPH", apperrors.CodeOf(err))
			}
		})
	}
}

func TestValidationErrorMatching(t *testing.T) {
	err := Invalid("zone %d does not exist", 9)
	if !IsValidation(err) {
		t.Fatal("expected IsValidation")
	}
	if !errors.Is(err, apperrors.New(apperrors.CodeValidationFailed, "")) {
		t.Fatal("expected validation error to match VALIDATION_FAILED code")
	}
	if err.Error() != "zone 9 does not exist" {
		t.Fatalf("message = %q", err.Error())
	}
	if IsValidation(errors.New("disk full")) {
		t.Fatal("plain errors are not validation errors")
	}
}

func TestNextQuestionSkipsFilteredAndReevaluates(t *testing.T) {
	ctx := context.Background()
	filterCalls := 0
	questions := []Question{
		{ID: "betting", Prompt: "Betting?", Validate: YesNo},
		{
			ID: "bookie", Prompt: "Bookie?", Requires: []string{"betting"}, Validate: AnyAnswer,
			Filter: func(_ context.Context, _ storage.Reader, v *View) (bool, error) {
				filterCalls++
				return v.Yes("betting"), nil
			},
		},
		{ID: "capacity", Prompt: "Capacity?", Validate: IntBetween(1, 10)},
	}

	q, ok, err := NextQuestion(ctx, nil, questions, NewAnswerSet())
	if err != nil || !ok || q.ID != "betting" {
		t.Fatalf("first question = (%q, %v, %v), want betting", q.ID, ok, err)
	}

	q, ok, err = NextQuestion(ctx, nil, questions, NewAnswerSet().With("betting", "no"))
	if err != nil || !ok || q.ID != "capacity" {
		t.Fatalf("after no = (%q, %v, %v), want capacity", q.ID, ok, err)
	}

	q, ok, err = NextQuestion(ctx, nil, questions, NewAnswerSet().With("betting", "yes"))
	if err != nil || !ok || q.ID != "bookie" {
		t.Fatalf("after yes = (%q, %v, %v), want bookie", q.ID, ok, err)
	}
	if filterCalls != 2 {
		t.Fatalf("filter calls = %d, want 2", filterCalls)
	}

	_, ok, err = NextQuestion(ctx, nil, questions, NewAnswerSet().With("betting", "no").With("capacity", "3"))
	if err != nil || ok {
		t.Fatalf("expected no more questions, got ok=%v err=%v", ok, err)
	}
}

func TestNextQuestionRejectsUndeclaredRead(t *testing.T) {
	questions := []Question{
		{ID: "zone", Prompt: "Zone?", Validate: AnyAnswer},
		{
			ID: "name", Prompt: "Name?", Validate: AnyAnswer,
			Filter: func(_ context.Context, _ storage.Reader, v *View) (bool, error) {
				_, ok := v.Get("zone")
				return ok, nil
			},
		},
	}

	_, _, err := NextQuestion(context.Background(), nil, questions, NewAnswerSet().With("zone", "1"))
	if !apperrors.HasCode(err, apperrors.CodeInvalidQuestionGraph) {
		t.Fatalf("error = %v, want INVALID_QUESTION_GRAPH", err)
	}
}

func TestNextQuestionWrapsFilterErrors(t *testing.T) {
	boom := errors.New("store offline")
	questions := []Question{{
		ID: "zone", Prompt: "Zone?", Validate: AnyAnswer,
		Filter: func(context.Context, storage.Reader, *View) (bool, error) { return false, boom },
	}}

	_, _, err := NextQuestion(context.Background(), nil, questions, NewAnswerSet())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped filter error", err)
	}
}
