package seeders

import (
	"context"
	"fmt"

	"github.com/louisbranch/worldseed/internal/seeding"
	"github.com/louisbranch/worldseed/internal/storage"
)

const (
	arenasTable     = "arenas"
	arenaRoomsTable = "arena_rooms"
	arenaName       = "Grand Coliseum"
	defaultManager  = "Marcus Vell"
	defaultBookie   = "The House"
	maxCapacity     = 100000
)

type room struct {
	name string
	role string
}

var arenaRooms = []room{
	{"Main Floor", "combat"},
	{"Staging Pens", "staging"},
	{"Infirmary", "medical"},
	{"Stands", "spectators"},
}

// Arena creates the Grand Coliseum with its rooms.
type Arena struct{}

func (Arena) Info() seeding.Info {
	return seeding.Info{
		Name:        "arena",
		Tagline:     "The Grand Coliseum",
		Description: "Creates the Grand Coliseum in an economic zone with its rooms and an optional betting office.",
		SortOrder:   30,
		Enabled:     true,
	}
}

func (Arena) Questions() []seeding.Question {
	return []seeding.Question{
		zoneQuestion("arena-zone", "Which economic zone hosts the arena? (zone id)"),
		{
			ID:       "arena-manager",
			Prompt:   "Who manages the arena? (blank for " + defaultManager + ")",
			Validate: seeding.AnyAnswer,
		},
		{
			ID:       "arena-capacity",
			Prompt:   fmt.Sprintf("Spectator capacity (1-%d)", maxCapacity),
			Validate: seeding.IntBetween(1, maxCapacity),
		},
		{
			ID:       "arena-betting",
			Prompt:   "Allow betting on fights? (yes/no)",
			Validate: seeding.YesNo,
		},
		{
			ID:       "arena-bookie",
			Prompt:   "Who runs the betting office? (blank for " + defaultBookie + ")",
			Requires: []string{"arena-betting"},
			Filter: func(_ context.Context, _ storage.Reader, answers *seeding.View) (bool, error) {
				return answers.Yes("arena-betting"), nil
			},
			Validate: seeding.AnyAnswer,
			Default:  seeding.DefaultTo(defaultBookie),
		},
	}
}

func (Arena) ShouldSeedData(ctx context.Context, r storage.Reader) (seeding.Precondition, error) {
	ok, err := requireZones(ctx, r)
	if err != nil {
		return seeding.Precondition{}, err
	}
	if !ok {
		return seeding.Blocked("no economic zones exist; run economic-zones first"), nil
	}
	exists, err := storage.Exists(ctx, r, "SELECT 1 FROM "+arenasTable+" WHERE name = ?", arenaName)
	if err != nil {
		return seeding.Precondition{}, err
	}
	if exists {
		return seeding.AlreadyInstalled(fmt.Sprintf("arena %q exists", arenaName)), nil
	}
	return seeding.Ready(), nil
}

func (Arena) SeedData(ctx context.Context, scope *seeding.Scope) (string, error) {
	answers := scope.Answers
	z, err := resolveZone(ctx, scope, "arena-zone")
	if err != nil {
		return "", err
	}
	manager, err := answers.TextOr("arena-manager", defaultManager)
	if err != nil {
		return "", err
	}
	capacity, err := answers.Int("arena-capacity")
	if err != nil {
		return "", err
	}
	betting, err := answers.Bool("arena-betting")
	if err != nil {
		return "", err
	}

	arenaID, err := scope.Tx.Insert(ctx, arenasTable, storage.Row{
		"zone_id": z.ID, "name": arenaName, "manager": manager,
		"capacity": capacity, "betting": betting,
	})
	if err != nil {
		return "", fmt.Errorf("insert arena: %w", err)
	}

	rows := make([]storage.Row, 0, len(arenaRooms)+1)
	for _, r := range arenaRooms {
		keeper := ""
		if r.role == "combat" {
			keeper = manager
		}
		rows = append(rows, storage.Row{"arena_id": arenaID, "name": r.name, "role": r.role, "keeper": keeper})
	}
	if betting {
		bookie, err := answers.TextOr("arena-bookie", defaultBookie)
		if err != nil {
			return "", err
		}
		rows = append(rows, storage.Row{"arena_id": arenaID, "name": "Betting Office", "role": "betting", "keeper": bookie})
	}
	if err := scope.Tx.InsertBatch(ctx, arenaRoomsTable, rows); err != nil {
		return "", fmt.Errorf("insert arena rooms: %w", err)
	}
	return fmt.Sprintf("created %s in %s with %d rooms, managed by %s", arenaName, z.Name, len(rows), manager), nil
}
