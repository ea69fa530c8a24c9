// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values prevents drift between the store and the
// entrypoint plumbing.
package timeouts

import "time"

// StoreBusy limits how long a SQLite connection waits on a locked database
// before failing the statement.
const StoreBusy = 5 * time.Second

// Shutdown limits how long a command waits for telemetry to flush on exit.
const Shutdown = 5 * time.Second
