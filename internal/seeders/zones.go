package seeders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/worldseed/internal/platform/errors"
	"github.com/louisbranch/worldseed/internal/seeding"
	"github.com/louisbranch/worldseed/internal/storage"
)

const zonesTable = "economic_zones"

// zone is an economic zone row resolved from an id answer.
type zone struct {
	ID       int64
	Name     string
	Currency string
}

// requireZones blocks seeders that attach records to an economic zone.
func requireZones(ctx context.Context, r storage.Reader) (bool, error) {
	n, err := storage.Count(ctx, r, zonesTable)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// zoneQuestion asks for the id of an existing economic zone.
func zoneQuestion(id, prompt string) seeding.Question {
	return seeding.Question{
		ID:       id,
		Prompt:   prompt,
		Validate: seeding.ExistingID(zonesTable, "economic zone"),
	}
}

// resolveZone loads the zone named by the id answer. A zone removed after
// the question was answered fails the apply.
func resolveZone(ctx context.Context, scope *seeding.Scope, questionID string) (zone, error) {
	return seeding.Remember(scope, "zone:"+questionID, func() (zone, error) {
		id, err := scope.Answers.Int(questionID)
		if err != nil {
			return zone{}, err
		}
		z := zone{ID: id}
		err = scope.Tx.QueryRowContext(ctx,
			"SELECT name, currency FROM "+zonesTable+" WHERE id = ?", id,
		).Scan(&z.Name, &z.Currency)
		if errors.Is(err, sql.ErrNoRows) {
			return zone{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("economic zone %d", id), storage.ErrNotFound)
		}
		if err != nil {
			return zone{}, fmt.Errorf("load economic zone %d: %w", id, err)
		}
		return z, nil
	})
}
