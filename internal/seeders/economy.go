package seeders

import (
	"context"
	"fmt"

	"github.com/louisbranch/worldseed/internal/seeding"
	"github.com/louisbranch/worldseed/internal/storage"
)

const (
	defaultZoneName     = "Core Worlds"
	defaultCurrency     = "Credits"
	defaultFrontierName = "Frontier"
)

// EconomicZones creates the starting economic zones every other seeder
// attaches to.
type EconomicZones struct{}

func (EconomicZones) Info() seeding.Info {
	return seeding.Info{
		Name:        "economic-zones",
		Tagline:     "Economic zones and their currencies",
		Description: "Creates the core economic zone and, optionally, a frontier zone sharing its currency.",
		SortOrder:   10,
		Enabled:     true,
	}
}

func (EconomicZones) Questions() []seeding.Question {
	return []seeding.Question{
		{
			ID:       "zone-name",
			Prompt:   "Name of the core economic zone (blank for " + defaultZoneName + ")",
			Validate: seeding.AnyAnswer,
		},
		{
			ID:       "currency",
			Prompt:   "Currency used across the zones (blank for " + defaultCurrency + ")",
			Validate: seeding.AnyAnswer,
		},
		{
			ID:       "reference-date",
			Prompt:   "Reference date for prices (YYYY-MM-DD)",
			Validate: seeding.Date,
		},
		{
			ID:       "frontier",
			Prompt:   "Also create a frontier zone? (yes/no)",
			Validate: seeding.YesNo,
		},
		{
			ID:       "frontier-name",
			Prompt:   "Name of the frontier zone (blank for " + defaultFrontierName + ")",
			Requires: []string{"frontier"},
			Filter: func(_ context.Context, _ storage.Reader, answers *seeding.View) (bool, error) {
				return answers.Yes("frontier"), nil
			},
			Validate: seeding.AnyAnswer,
			Default:  seeding.DefaultTo(defaultFrontierName),
		},
	}
}

func (EconomicZones) ShouldSeedData(ctx context.Context, r storage.Reader) (seeding.Precondition, error) {
	n, err := storage.Count(ctx, r, zonesTable)
	if err != nil {
		return seeding.Precondition{}, err
	}
	if n > 0 {
		return seeding.AlreadyInstalled(fmt.Sprintf("%d economic zones exist", n)), nil
	}
	return seeding.Ready(), nil
}

func (EconomicZones) SeedData(ctx context.Context, scope *seeding.Scope) (string, error) {
	answers := scope.Answers
	name, err := answers.TextOr("zone-name", defaultZoneName)
	if err != nil {
		return "", err
	}
	currency, err := answers.TextOr("currency", defaultCurrency)
	if err != nil {
		return "", err
	}
	rawDate, err := answers.Value("reference-date")
	if err != nil {
		return "", err
	}
	date, err := seeding.ParseDate(rawDate)
	if err != nil {
		return "", err
	}
	frontier, err := answers.Bool("frontier")
	if err != nil {
		return "", err
	}

	referenceDate := date.Format(seeding.DateLayout)
	rows := []storage.Row{{"name": name, "currency": currency, "reference_date": referenceDate}}
	if frontier {
		frontierName, err := answers.TextOr("frontier-name", defaultFrontierName)
		if err != nil {
			return "", err
		}
		rows = append(rows, storage.Row{"name": frontierName, "currency": currency, "reference_date": referenceDate})
	}
	if err := scope.Tx.InsertBatch(ctx, zonesTable, rows); err != nil {
		return "", fmt.Errorf("insert economic zones: %w", err)
	}
	return fmt.Sprintf("created %d economic zones trading in %s as of %s", len(rows), currency, referenceDate), nil
}
