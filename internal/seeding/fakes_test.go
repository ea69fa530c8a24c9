package seeding

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/louisbranch/worldseed/internal/storage"
	"github.com/louisbranch/worldseed/internal/storage/sqlite"
)

// scriptedOperator answers prompts from a queue and records everything.
type scriptedOperator struct {
	answers []string
	prompts []Prompt
	notices []Notice
}

func (o *scriptedOperator) Ask(_ context.Context, prompt Prompt) (string, error) {
	o.prompts = append(o.prompts, prompt)
	if len(o.answers) == 0 {
		return "", errors.New("operator has no more answers")
	}
	answer := o.answers[0]
	o.answers = o.answers[1:]
	return answer, nil
}

func (o *scriptedOperator) Report(_ context.Context, notice Notice) {
	o.notices = append(o.notices, notice)
}

// fakeSeeder is a Seeder assembled from funcs.
type fakeSeeder struct {
	info      Info
	questions []Question
	check     func(ctx context.Context, r storage.Reader) (Precondition, error)
	seed      func(ctx context.Context, scope *Scope) (string, error)

	checks  int
	applies int
	applied []AnswerSet
}

func (s *fakeSeeder) Info() Info { return s.info }

func (s *fakeSeeder) Questions() []Question { return s.questions }

func (s *fakeSeeder) ShouldSeedData(ctx context.Context, r storage.Reader) (Precondition, error) {
	s.checks++
	if s.check == nil {
		return Ready(), nil
	}
	return s.check(ctx, r)
}

func (s *fakeSeeder) SeedData(ctx context.Context, scope *Scope) (string, error) {
	s.applies++
	s.applied = append(s.applied, scope.Answers.Set())
	if s.seed == nil {
		return "nothing to do", nil
	}
	return s.seed(ctx, scope)
}

func newFakeSeeder(name string, order int) *fakeSeeder {
	return &fakeSeeder{info: Info{Name: name, Tagline: name + " tagline", SortOrder: order, Enabled: true}}
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func dumpStore(t *testing.T, store *sqlite.Store) string {
	t.Helper()
	var buf bytes.Buffer
	if err := store.Dump(context.Background(), &buf); err != nil {
		t.Fatalf("dump store: %v", err)
	}
	return buf.String()
}

func insertZone(t *testing.T, store storage.Store, name string) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	err := store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		id, err = tx.Insert(ctx, "economic_zones", storage.Row{
			"name": name, "currency": "Credits", "reference_date": "2300-01-01",
		})
		return err
	})
	if err != nil {
		t.Fatalf("insert zone: %v", err)
	}
	return id
}

func countRows(t *testing.T, store storage.Reader, table string) int64 {
	t.Helper()
	count, err := storage.Count(context.Background(), store, table)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
