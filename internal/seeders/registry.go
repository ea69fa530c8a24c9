// Package seeders holds the baseline world seeders.
package seeders

import "github.com/louisbranch/worldseed/internal/seeding"

// All returns every seeder in registration order.
func All() []seeding.Seeder {
	return []seeding.Seeder{
		EconomicZones{},
		StarSystem{},
		Arena{},
		SurgicalProcedures{},
	}
}
