// Package seeding runs interactive, idempotent data seeders.
//
// A Seeder declares ordered Questions, a read-only precondition
// (ShouldSeedData) and a transactional apply step (SeedData). The Runner
// orders seeders by sort key, asks each applicable question until its
// validator accepts an answer, and applies the seeder inside one store
// transaction only while the precondition reports ReadyToInstall.
//
// Questions may only read answers they declare in Requires, and a required
// question must appear earlier in the list. Register rejects seeders that
// break this rule; filters that read an undeclared answer fail the seeder at
// run time.
package seeding
