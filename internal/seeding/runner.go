package seeding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
	"github.com/louisbranch/worldseed/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/worldseed/internal/seeding"

// errDryRun forces the apply transaction to roll back.
var errDryRun = errors.New("dry run")

// Config holds runner settings.
type Config struct {
	// DryRun applies inside a transaction that is always rolled back.
	DryRun bool
	// StopOnFailure halts the run after the first failed seeder.
	StopOnFailure bool
	Verbose       bool
	Logger        *log.Logger
	// Now stamps seed history; defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	seeder Seeder
	info   Info
	index  int
}

// Runner drives registered seeders one at a time.
type Runner struct {
	store    storage.Store
	operator Operator
	cfg      Config
	tracer   trace.Tracer
	entries  []entry
	names    map[string]struct{}
}

// NewRunner builds a runner over store and operator.
func NewRunner(store storage.Store, operator Operator, cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Runner{
		store:    store,
		operator: operator,
		cfg:      cfg,
		tracer:   otel.Tracer(tracerName),
		names:    map[string]struct{}{},
	}
}

// Register adds seeders after checking their question graphs. When any
// seeder is invalid none of them are registered.
func (r *Runner) Register(seeders ...Seeder) error {
	var errs []error
	pending := make(map[string]struct{}, len(seeders))
	for i, s := range seeders {
		if s == nil {
			errs = append(errs, fmt.Errorf("seeder %d is nil", i))
			continue
		}
		info := s.Info()
		name := strings.TrimSpace(info.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("seeder %d has no name", i))
			continue
		}
		_, registered := r.names[name]
		_, duplicate := pending[name]
		if registered || duplicate {
			errs = append(errs, fmt.Errorf("seeder %s is registered twice", name))
			continue
		}
		pending[name] = struct{}{}
		if err := CheckQuestions(name, s.Questions()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	for _, s := range seeders {
		info := s.Info()
		r.names[info.Name] = struct{}{}
		r.entries = append(r.entries, entry{seeder: s, info: info, index: len(r.entries)})
	}
	return nil
}

// Seeders returns enabled seeders by ascending sort key, ties in
// registration order.
func (r *Runner) Seeders() []Seeder {
	ordered := r.ordered()
	seeders := make([]Seeder, len(ordered))
	for i, e := range ordered {
		seeders[i] = e.seeder
	}
	return seeders
}

func (r *Runner) ordered() []entry {
	enabled := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.info.Enabled {
			enabled = append(enabled, e)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		if enabled[i].info.SortOrder != enabled[j].info.SortOrder {
			return enabled[i].info.SortOrder < enabled[j].info.SortOrder
		}
		return enabled[i].index < enabled[j].index
	})
	return enabled
}

// Run processes enabled seeders in order. Names restricts the run to the
// named seeders; order still follows sort keys. The returned error joins
// every failed seeder.
func (r *Runner) Run(ctx context.Context, names ...string) (Report, error) {
	selected, err := r.selected(names)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, e := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome := r.runSeeder(ctx, e)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Status == StatusFailed && r.cfg.StopOnFailure {
			r.logf("stopping after %s failed", e.info.Name)
			break
		}
	}
	return report, report.Err()
}

func (r *Runner) selected(names []string) ([]entry, error) {
	ordered := r.ordered()
	if len(names) == 0 {
		return ordered, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.TrimSpace(name)] = false
	}
	var selected []entry
	for _, e := range ordered {
		if _, ok := wanted[e.info.Name]; ok {
			wanted[e.info.Name] = true
			selected = append(selected, e)
		}
	}
	var missing []string
	for name, found := range wanted {
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperrors.New(apperrors.CodeSeederNotFound,
			fmt.Sprintf("unknown or disabled seeder: %s", strings.Join(missing, ", ")))
	}
	return selected, nil
}

func (r *Runner) runSeeder(ctx context.Context, e entry) Outcome {
	name := e.info.Name
	ctx, span := r.tracer.Start(ctx, "seeding.Runner/"+name)
	defer span.End()

	outcome := r.evaluate(ctx, e)
	span.SetAttributes(
		attribute.String("seeder.name", name),
		attribute.String("seeder.status", outcome.Status.String()),
		attribute.Int("seeder.questions_asked", outcome.Asked),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(otelcodes.Error, outcome.Err.Error())
	}
	r.report(ctx, outcome)
	return outcome
}

func (r *Runner) evaluate(ctx context.Context, e entry) Outcome {
	name := e.info.Name
	outcome := Outcome{Seeder: name}

	pre, err := r.precondition(ctx, e.seeder)
	if err != nil {
		return failed(outcome, err)
	}
	if pre.Result != ReadyToInstall {
		return skipped(outcome, pre)
	}

	questions := e.seeder.Questions()
	if len(questions) > 0 {
		r.operator.Report(ctx, Notice{Seeder: name, Kind: NoticeInfo, Text: introduction(e.info)})
	}
	answers, asked, err := r.ask(ctx, name, questions)
	outcome.Asked = asked
	outcome.Answers = answers
	if err != nil {
		return failed(outcome, err)
	}

	// The question phase waits on a human; look again before writing.
	pre, err = r.precondition(ctx, e.seeder)
	if err != nil {
		return failed(outcome, err)
	}
	if pre.Result != ReadyToInstall {
		r.logf("%s: precondition changed during questions: %s", name, pre.Result)
		return skipped(outcome, pre)
	}

	summary, err := r.apply(ctx, e.seeder, NewAnswers(name, questions, answers))
	if errors.Is(err, errDryRun) {
		outcome.Status = StatusDryRun
		outcome.Summary = summary
		return outcome
	}
	if err != nil {
		return failed(outcome, apperrors.WrapWithMetadata(apperrors.CodeApplyFailed,
			"apply "+name, map[string]string{"seeder": name}, err))
	}
	outcome.Status = StatusApplied
	outcome.Summary = summary
	return outcome
}

func (r *Runner) precondition(ctx context.Context, s Seeder) (Precondition, error) {
	pre, err := s.ShouldSeedData(ctx, r.store)
	if err != nil {
		return Precondition{}, fmt.Errorf("check preconditions: %w", err)
	}
	switch pre.Result {
	case ReadyToInstall, MayAlreadyBeInstalled, PrerequisitesNotMet:
		return pre, nil
	}
	return Precondition{}, fmt.Errorf("check preconditions: unknown result %d", pre.Result)
}

// ask runs the question phase. It only reads from the store.
func (r *Runner) ask(ctx context.Context, seeder string, questions []Question) (AnswerSet, int, error) {
	answers := NewAnswerSet()
	asked := 0
	for {
		q, ok, err := NextQuestion(ctx, r.store, questions, answers)
		if err != nil {
			return answers, asked, err
		}
		if !ok {
			return answers, asked, nil
		}
		asked++
		answer, err := r.askUntilValid(ctx, seeder, q)
		if err != nil {
			return answers, asked, err
		}
		answers = answers.With(q.ID, answer)
	}
}

func (r *Runner) askUntilValid(ctx context.Context, seeder string, q Question) (string, error) {
	prompt := Prompt{Seeder: seeder, QuestionID: q.ID, Text: q.Prompt}
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		prompt.Attempt = attempt
		raw, err := r.operator.Ask(ctx, prompt)
		if err != nil {
			return "", apperrors.WrapWithMetadata(apperrors.CodeNoAnswer,
				fmt.Sprintf("no answer for %q", q.ID), map[string]string{"seeder": seeder, "question": q.ID}, err)
		}
		answer := Normalize(raw)
		err = q.Validate(ctx, r.store, answer)
		if err == nil {
			return answer, nil
		}
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			return "", fmt.Errorf("validate %s: %w", q.ID, err)
		}
		r.logf("%s: rejected answer for %s: %s", seeder, q.ID, validationErr.Message)
		prompt.Problem = validationErr.Message
	}
}

func (r *Runner) apply(ctx context.Context, s Seeder, answers Answers) (string, error) {
	name := s.Info().Name
	var summary string
	err := r.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		summary, err = s.SeedData(ctx, NewScope(tx, answers))
		if err != nil {
			return err
		}
		if r.cfg.DryRun {
			return errDryRun
		}
		return recordHistory(ctx, tx, HistoryEntry{Seeder: name, Summary: summary, AppliedAt: r.cfg.Now()})
	})
	return summary, err
}

func (r *Runner) report(ctx context.Context, outcome Outcome) {
	notice := Notice{Seeder: outcome.Seeder}
	switch outcome.Status {
	case StatusApplied:
		notice.Kind = NoticeApplied
		notice.Text = outcome.Summary
	case StatusDryRun:
		notice.Kind = NoticeApplied
		notice.Text = "dry run, rolled back: " + outcome.Summary
	case StatusAlreadyInstalled:
		notice.Kind = NoticeSkipped
		notice.Text = "skipped, may already be installed: " + outcome.Reason
	case StatusBlocked:
		notice.Kind = NoticeBlocked
		notice.Text = "skipped, prerequisites not met: " + outcome.Reason
	case StatusFailed:
		notice.Kind = NoticeFailed
		notice.Text = fmt.Sprintf("failed: %v; no changes were written", outcome.Err)
	}
	r.operator.Report(ctx, notice)
}

func (r *Runner) logf(format string, args ...any) {
	if !r.cfg.Verbose {
		return
	}
	r.cfg.Logger.Printf(format, args...)
}

func introduction(info Info) string {
	if info.Tagline == "" {
		return info.Name
	}
	return info.Tagline
}

func failed(outcome Outcome, err error) Outcome {
	outcome.Status = StatusFailed
	outcome.Err = err
	return outcome
}

func skipped(outcome Outcome, pre Precondition) Outcome {
	outcome.Reason = pre.Reason
	if pre.Result == PrerequisitesNotMet {
		outcome.Status = StatusBlocked
	} else {
		outcome.Status = StatusAlreadyInstalled
	}
	return outcome
}
