package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/worldseed/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "world.db"))
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

func dump(t *testing.T, store *Store) string {
	t.Helper()
	var buf bytes.Buffer
	if err := store.Dump(context.Background(), &buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return buf.String()
}

func zoneRow(name string) storage.Row {
	return storage.Row{"name": name, "currency": "Credits", "reference_date": "2300-01-01"}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestWithTxCommitsParentAndChildren(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var arenaID int64
	err := store.WithTx(ctx, func(tx storage.Tx) error {
		zoneID, err := tx.Insert(ctx, "economic_zones", zoneRow("Core"))
		if err != nil {
			return err
		}
		arenaID, err = tx.Insert(ctx, "arenas", storage.Row{
			"zone_id": zoneID, "name": "Pit", "manager": "Ma", "capacity": 10,
		})
		if err != nil {
			return err
		}
		return tx.InsertBatch(ctx, "arena_rooms", []storage.Row{
			{"arena_id": arenaID, "name": "Lobby", "role": "entrance"},
			{"arena_id": arenaID, "name": "Floor", "role": "combat"},
		})
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}

	var count int64
	if err := store.QueryRowContext(ctx, "SELECT COUNT(*) FROM arena_rooms WHERE arena_id = ?", arenaID).Scan(&count); err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if count != 2 {
		t.Fatalf("rooms = %d, want 2", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	before := dump(t, store)

	injected := errors.New("injected failure")
	err := store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.Insert(ctx, "economic_zones", zoneRow("Core")); err != nil {
			return err
		}
		return injected
	})
	if !errors.Is(err, injected) {
		t.Fatalf("with tx error = %v, want injected", err)
	}
	if after := dump(t, store); after != before {
		t.Fatalf("store changed after rollback:\nbefore=%q\nafter=%q", before, after)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = store.WithTx(ctx, func(tx storage.Tx) error {
			if _, err := tx.Insert(ctx, "economic_zones", zoneRow("Core")); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	count, err := storage.Count(ctx, store, "economic_zones")
	if err != nil {
		t.Fatalf("count zones: %v", err)
	}
	if count != 0 {
		t.Fatalf("zones = %d after panic, want 0", count)
	}
}

func TestInsertClassifiesConflicts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.Insert(ctx, "economic_zones", zoneRow("Core")); err != nil {
			return err
		}
		_, err := tx.Insert(ctx, "economic_zones", zoneRow("Core"))
		return err
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate insert error = %v, want ErrConflict", err)
	}
}

func TestInsertRejectsForeignKeyViolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx storage.Tx) error {
		_, err := tx.Insert(ctx, "arenas", storage.Row{
			"zone_id": 999, "name": "Orphan", "manager": "Nobody", "capacity": 1,
		})
		return err
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("orphan insert error = %v, want ErrConflict", err)
	}
}

func TestInsertRejectsBadIdentifiers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx storage.Tx) error {
		_, err := tx.Insert(ctx, "zones; DROP TABLE arenas", zoneRow("Core"))
		return err
	})
	if !errors.Is(err, storage.ErrInvalidIdentifier) {
		t.Fatalf("error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestInsertBatchRejectsMixedColumns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.InsertBatch(ctx, "economic_zones", []storage.Row{
			zoneRow("A"),
			{"name": "B"},
		})
	})
	if err == nil || !strings.Contains(err.Error(), "columns differ") {
		t.Fatalf("error = %v, want column mismatch", err)
	}
}

func TestDumpIsStable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.InsertBatch(ctx, "economic_zones", []storage.Row{zoneRow("A"), zoneRow("B")})
	}); err != nil {
		t.Fatalf("seed zones: %v", err)
	}

	first := dump(t, store)
	if first != dump(t, store) {
		t.Fatal("expected identical dumps")
	}
	if !strings.Contains(first, `economic_zones: id="1" name="A"`) {
		t.Fatalf("unexpected dump: %s", first)
	}
	if strings.Contains(first, "schema_migrations") {
		t.Fatal("dump should skip migration bookkeeping")
	}
}
