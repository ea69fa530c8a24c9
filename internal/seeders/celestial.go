package seeders

import (
	"context"
	"fmt"

	"github.com/louisbranch/worldseed/internal/seeding"
	"github.com/louisbranch/worldseed/internal/storage"
)

const (
	celestialsTable = "celestials"
	starName        = "Sol"
)

type body struct {
	name     string
	radiusAU float64
	period   float64
}

var planets = []body{
	{"Mercury", 0.387, 87.97},
	{"Venus", 0.723, 224.70},
	{"Earth", 1.000, 365.26},
	{"Mars", 1.524, 686.98},
	{"Jupiter", 5.203, 4332.59},
	{"Saturn", 9.537, 10759.22},
	{"Uranus", 19.191, 30688.50},
	{"Neptune", 30.069, 60182.00},
}

// moons by parent planet; radius is in AU from the planet.
var moons = map[string][]body{
	"Earth":   {{"Luna", 0.00257, 27.32}},
	"Mars":    {{"Phobos", 0.0000627, 0.32}, {"Deimos", 0.000157, 1.26}},
	"Jupiter": {{"Io", 0.00282, 1.77}, {"Europa", 0.00449, 3.55}, {"Ganymede", 0.00716, 7.15}, {"Callisto", 0.01259, 16.69}},
	"Saturn":  {{"Titan", 0.00817, 15.95}},
}

// StarSystem creates the home star with its planets and, optionally, their
// major moons.
type StarSystem struct{}

func (StarSystem) Info() seeding.Info {
	return seeding.Info{
		Name:        "star-system",
		Tagline:     "Home star system",
		Description: "Creates Sol, its eight planets, and optionally their major moons inside an economic zone.",
		SortOrder:   20,
		Enabled:     true,
	}
}

func (StarSystem) Questions() []seeding.Question {
	return []seeding.Question{
		zoneQuestion("celestial-zone", "Which economic zone contains the star system? (zone id)"),
		{
			ID:       "moons",
			Prompt:   "Create major moons? (yes/no)",
			Validate: seeding.YesNo,
		},
	}
}

func (StarSystem) ShouldSeedData(ctx context.Context, r storage.Reader) (seeding.Precondition, error) {
	ok, err := requireZones(ctx, r)
	if err != nil {
		return seeding.Precondition{}, err
	}
	if !ok {
		return seeding.Blocked("no economic zones exist; run economic-zones first"), nil
	}
	exists, err := storage.Exists(ctx, r, "SELECT 1 FROM "+celestialsTable+" WHERE name = ?", starName)
	if err != nil {
		return seeding.Precondition{}, err
	}
	if exists {
		return seeding.AlreadyInstalled(fmt.Sprintf("celestial %q exists", starName)), nil
	}
	return seeding.Ready(), nil
}

func (StarSystem) SeedData(ctx context.Context, scope *seeding.Scope) (string, error) {
	z, err := resolveZone(ctx, scope, "celestial-zone")
	if err != nil {
		return "", err
	}
	withMoons, err := scope.Answers.Bool("moons")
	if err != nil {
		return "", err
	}

	starID, err := scope.Tx.Insert(ctx, celestialsTable, storage.Row{
		"zone_id": z.ID, "parent_id": nil, "name": starName, "kind": "star",
		"orbital_radius_au": 0.0, "orbital_period_days": 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("insert star: %w", err)
	}

	// Moons reference planet ids, so planets are inserted one at a time.
	planetIDs := make(map[string]int64, len(planets))
	for _, p := range planets {
		id, err := scope.Tx.Insert(ctx, celestialsTable, bodyRow(z.ID, starID, "planet", p))
		if err != nil {
			return "", fmt.Errorf("insert planet %s: %w", p.name, err)
		}
		planetIDs[p.name] = id
	}

	var moonRows []storage.Row
	if withMoons {
		for _, p := range planets {
			for _, m := range moons[p.name] {
				moonRows = append(moonRows, bodyRow(z.ID, planetIDs[p.name], "moon", m))
			}
		}
		if err := scope.Tx.InsertBatch(ctx, celestialsTable, moonRows); err != nil {
			return "", fmt.Errorf("insert moons: %w", err)
		}
	}
	return fmt.Sprintf("created %s with %d planets and %d moons in %s", starName, len(planets), len(moonRows), z.Name), nil
}

func bodyRow(zoneID, parentID int64, kind string, b body) storage.Row {
	return storage.Row{
		"zone_id": zoneID, "parent_id": parentID, "name": b.name, "kind": kind,
		"orbital_radius_au": b.radiusAU, "orbital_period_days": b.period,
	}
}
