// Package seed parses seed command configuration and runs the world seeders.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	entrypoint "github.com/louisbranch/worldseed/internal/platform/cmd"
	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
	"github.com/louisbranch/worldseed/internal/seeders"
	"github.com/louisbranch/worldseed/internal/seeding"
	"github.com/louisbranch/worldseed/internal/seeding/answerfile"
	"github.com/louisbranch/worldseed/internal/seeding/console"
	"github.com/louisbranch/worldseed/internal/storage/sqlite"
	"github.com/sahilm/fuzzy"
)

// Config holds seed command configuration.
type Config struct {
	DBPath        string   `env:"DB_PATH" envDefault:"data/world.db"`
	AnswersPath   string   `env:"ANSWERS_PATH"`
	Seeders       []string `env:"SEEDERS" envSeparator:","`
	NoInput       bool     `env:"NO_INPUT"`
	DryRun        bool     `env:"DRY_RUN"`
	StopOnFailure bool     `env:"STOP_ON_FAILURE"`
	Verbose       bool     `env:"VERBOSE"`
	List          bool
	Dump          bool
	History       bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the world database")
	fs.StringVar(&cfg.AnswersPath, "answers", cfg.AnswersPath, "TOML file with scripted answers")
	fs.Func("seeder", "comma-separated seeders to run (default: all)", func(value string) error {
		cfg.Seeders = splitNames(value)
		return nil
	})
	fs.BoolVar(&cfg.NoInput, "no-input", cfg.NoInput, "fail instead of prompting when a scripted answer is missing")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "run every seeder but roll back its writes")
	fs.BoolVar(&cfg.StopOnFailure, "stop-on-failure", cfg.StopOnFailure, "stop after the first failed seeder")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	fs.BoolVar(&cfg.List, "list", false, "list seeders and their current state")
	fs.BoolVar(&cfg.Dump, "dump", false, "print the world tables after the run")
	fs.BoolVar(&cfg.History, "history", false, "list committed seeder runs")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Seeders = splitNames(strings.Join(cfg.Seeders, ","))
	return cfg, nil
}

// Run executes the seed command reading answers from in.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return run(ctx, cfg, in, out, errOut)
	})
}

func run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if cfg.NoInput && cfg.AnswersPath == "" {
		return fmt.Errorf("-no-input requires an answers file")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(errOut, "close store: %v\n", err)
		}
	}()

	styles := console.NewStyles(out)
	if cfg.History {
		return printHistory(ctx, store, out, styles)
	}

	var operator seeding.Operator = console.New(in, out)
	var script *answerfile.Script
	if cfg.AnswersPath != "" {
		script, err = answerfile.Load(cfg.AnswersPath)
		if err != nil {
			return err
		}
		if cfg.NoInput {
			script.WithOutput(out)
		} else {
			script.WithFallback(operator)
		}
		operator = script
	}

	runner := seeding.NewRunner(store, operator, seeding.Config{
		DryRun:        cfg.DryRun,
		StopOnFailure: cfg.StopOnFailure,
		Verbose:       cfg.Verbose,
		Logger:        log.New(errOut, "[SEED] ", log.LstdFlags),
	})
	if err := runner.Register(seeders.All()...); err != nil {
		return err
	}
	if err := checkNames(runner, cfg.Seeders); err != nil {
		return err
	}

	if cfg.List {
		return printList(ctx, runner, store, out, styles)
	}

	report, runErr := runner.Run(ctx, cfg.Seeders...)
	if runErr == nil && len(cfg.Seeders) > 0 {
		runErr = blockedSelection(report)
	}
	printSummary(out, styles, report, cfg.DryRun)
	if script != nil {
		if unused := script.Unused(); len(unused) > 0 {
			fmt.Fprintf(errOut, "unused scripted answers: %s\n", strings.Join(unused, ", "))
		}
	}
	if cfg.Dump {
		if err := store.Dump(ctx, out); err != nil {
			return err
		}
	}
	return runErr
}

// checkNames rejects unknown seeder names with close matches.
func checkNames(runner *seeding.Runner, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var known []string
	for _, s := range runner.Seeders() {
		known = append(known, s.Info().Name)
	}
	for _, name := range names {
		if slices.Contains(known, name) {
			continue
		}
		msg := fmt.Sprintf("unknown seeder %q", name)
		if suggestions := suggest(name, known); len(suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
		}
		return apperrors.WithMetadata(apperrors.CodeSeederNotFound, msg, map[string]string{"seeder": name})
	}
	return nil
}

// blockedSelection fails a run whose explicitly selected seeders could not
// start.
func blockedSelection(report seeding.Report) error {
	var errs []error
	for _, o := range report.ByStatus(seeding.StatusBlocked) {
		errs = append(errs, apperrors.WithMetadata(apperrors.CodePreconditionUnmet,
			fmt.Sprintf("seeder %s: %s", o.Seeder, o.Reason), map[string]string{"seeder": o.Seeder}))
	}
	return errors.Join(errs...)
}

// suggest returns up to three known names that fuzzily match name. When the
// whole name does not match, its leading half is tried.
func suggest(name string, known []string) []string {
	matches := fuzzy.Find(name, known)
	if len(matches) == 0 && len(name) > 2 {
		matches = fuzzy.Find(name[:len(name)/2], known)
	}
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func printList(ctx context.Context, runner *seeding.Runner, store *sqlite.Store, out io.Writer, styles console.Styles) error {
	for _, s := range runner.Seeders() {
		info := s.Info()
		pre, err := s.ShouldSeedData(ctx, store)
		if err != nil {
			return fmt.Errorf("check %s: %w", info.Name, err)
		}
		state := stateStyle(styles, pre.Result).Render(pre.Result.String())
		if pre.Reason != "" {
			state += styles.Muted.Render(" (" + pre.Reason + ")")
		}
		fmt.Fprintf(out, "%s  %s\n    %s\n", styles.Seeder.Render(info.Name), info.Tagline, state)
	}
	return nil
}

func stateStyle(styles console.Styles, result seeding.SeedResult) lipgloss.Style {
	switch result {
	case seeding.ReadyToInstall:
		return styles.Applied
	case seeding.MayAlreadyBeInstalled:
		return styles.Skipped
	default:
		return styles.Blocked
	}
}

func printHistory(ctx context.Context, store *sqlite.Store, out io.Writer, styles console.Styles) error {
	entries, err := seeding.History(ctx, store)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No seeders have been applied.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s  %s\n", styles.Muted.Render(e.AppliedAt.Format("2006-01-02 15:04:05")), styles.Seeder.Render(e.Seeder), e.Summary)
	}
	return nil
}

func printSummary(out io.Writer, styles console.Styles, report seeding.Report, dryRun bool) {
	applied := len(report.ByStatus(seeding.StatusApplied))
	if dryRun {
		applied = len(report.ByStatus(seeding.StatusDryRun))
	}
	line := fmt.Sprintf("%d applied, %d already installed, %d blocked, %d failed",
		applied,
		len(report.ByStatus(seeding.StatusAlreadyInstalled)),
		len(report.ByStatus(seeding.StatusBlocked)),
		len(report.ByStatus(seeding.StatusFailed)),
	)
	if dryRun {
		line += " (dry run, nothing written)"
	}
	fmt.Fprintln(out, styles.Prompt.Render(line))
}

func splitNames(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
