package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/worldseed/internal/storage"
)

// HistoryTable records committed seeder applies.
const HistoryTable = "seed_history"

// HistoryEntry is one committed apply.
type HistoryEntry struct {
	Seeder    string
	Summary   string
	AppliedAt time.Time
}

func recordHistory(ctx context.Context, tx storage.Tx, entry HistoryEntry) error {
	_, err := tx.Insert(ctx, HistoryTable, storage.Row{
		"seeder":     entry.Seeder,
		"summary":    entry.Summary,
		"applied_at": entry.AppliedAt.UTC().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("record seed history: %w", err)
	}
	return nil
}

// History lists committed applies, oldest first.
func History(ctx context.Context, r storage.Reader) ([]HistoryEntry, error) {
	rows, err := r.QueryContext(ctx, "SELECT seeder, summary, applied_at FROM "+HistoryTable+" ORDER BY applied_at, id")
	if err != nil {
		return nil, fmt.Errorf("list seed history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var appliedAt int64
		if err := rows.Scan(&entry.Seeder, &entry.Summary, &appliedAt); err != nil {
			return nil, fmt.Errorf("list seed history: %w", err)
		}
		entry.AppliedAt = time.UnixMilli(appliedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list seed history: %w", err)
	}
	return entries, nil
}
