package seeders

import (
	"context"
	"fmt"

	"github.com/louisbranch/worldseed/internal/seeding"
	"github.com/louisbranch/worldseed/internal/storage"
)

const (
	proceduresTable = "surgical_procedures"
	markerProcedure = "Appendectomy"
)

// TechLevel is the most advanced surgery a world supports.
type TechLevel int

const (
	TechPrimitive TechLevel = iota + 1
	TechStandard
	TechAdvanced
)

func (l TechLevel) String() string {
	switch l {
	case TechPrimitive:
		return "primitive"
	case TechStandard:
		return "standard"
	case TechAdvanced:
		return "advanced"
	}
	return fmt.Sprintf("TechLevel(%d)", int(l))
}

var techLevels = seeding.NewChoices(map[string]TechLevel{
	"primitive": TechPrimitive,
	"standard":  TechStandard,
	"advanced":  TechAdvanced,
})

type procedure struct {
	name       string
	level      TechLevel
	difficulty int
	bodyPart   string
	cybernetic bool
}

var procedures = []procedure{
	{name: "Wound Suturing", level: TechPrimitive, difficulty: 1, bodyPart: "skin"},
	{name: "Amputation", level: TechPrimitive, difficulty: 2, bodyPart: "limb"},
	{name: markerProcedure, level: TechPrimitive, difficulty: 3, bodyPart: "abdomen"},
	{name: "Bone Setting", level: TechStandard, difficulty: 2, bodyPart: "limb"},
	{name: "Organ Transplant", level: TechStandard, difficulty: 5, bodyPart: "torso"},
	{name: "Cataract Removal", level: TechStandard, difficulty: 3, bodyPart: "eye"},
	{name: "Nerve Regrowth", level: TechAdvanced, difficulty: 6, bodyPart: "spine"},
	{name: "Gene Repair", level: TechAdvanced, difficulty: 7, bodyPart: "blood"},
	{name: "Cybernetic Limb Graft", level: TechAdvanced, difficulty: 6, bodyPart: "limb", cybernetic: true},
	{name: "Neural Interface Implant", level: TechAdvanced, difficulty: 8, bodyPart: "brain", cybernetic: true},
}

// SurgicalProcedures creates the procedure catalog up to a tech level.
type SurgicalProcedures struct{}

func (SurgicalProcedures) Info() seeding.Info {
	return seeding.Info{
		Name:        "surgical-procedures",
		Tagline:     "Surgical procedure catalog",
		Description: "Creates surgical procedures available at or below the chosen tech level.",
		SortOrder:   40,
		Enabled:     true,
	}
}

func (SurgicalProcedures) Questions() []seeding.Question {
	return []seeding.Question{
		{
			ID:       "tech-level",
			Prompt:   "Highest surgical tech level (primitive, standard, advanced)",
			Validate: seeding.OneOf(techLevels),
		},
		{
			ID:       "cybernetics",
			Prompt:   "Include cybernetic procedures? (yes/no)",
			Requires: []string{"tech-level"},
			Filter: func(_ context.Context, _ storage.Reader, answers *seeding.View) (bool, error) {
				raw, ok := answers.Get("tech-level")
				if !ok {
					return false, nil
				}
				level, err := techLevels.Parse(raw)
				return err == nil && level == TechAdvanced, nil
			},
			Validate: seeding.YesNo,
			Default:  seeding.DefaultTo("no"),
		},
	}
}

func (SurgicalProcedures) ShouldSeedData(ctx context.Context, r storage.Reader) (seeding.Precondition, error) {
	exists, err := storage.Exists(ctx, r, "SELECT 1 FROM "+proceduresTable+" WHERE name = ?", markerProcedure)
	if err != nil {
		return seeding.Precondition{}, err
	}
	if exists {
		return seeding.AlreadyInstalled(fmt.Sprintf("procedure %q exists", markerProcedure)), nil
	}
	return seeding.Ready(), nil
}

func (SurgicalProcedures) SeedData(ctx context.Context, scope *seeding.Scope) (string, error) {
	raw, err := scope.Answers.Value("tech-level")
	if err != nil {
		return "", err
	}
	level, err := techLevels.Parse(raw)
	if err != nil {
		return "", err
	}
	cybernetics, err := scope.Answers.Bool("cybernetics")
	if err != nil {
		return "", err
	}

	var rows []storage.Row
	for _, p := range proceduresFor(level, cybernetics) {
		rows = append(rows, storage.Row{
			"name": p.name, "tech_level": p.level.String(),
			"difficulty": p.difficulty, "body_part": p.bodyPart,
		})
	}
	if err := scope.Tx.InsertBatch(ctx, proceduresTable, rows); err != nil {
		return "", fmt.Errorf("insert procedures: %w", err)
	}
	return fmt.Sprintf("created %d surgical procedures up to %s tech", len(rows), level), nil
}

func proceduresFor(level TechLevel, cybernetics bool) []procedure {
	var out []procedure
	for _, p := range procedures {
		if p.level > level {
			continue
		}
		if p.cybernetic && !cybernetics {
			continue
		}
		out = append(out, p)
	}
	return out
}
