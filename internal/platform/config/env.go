// Package config loads command configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by worldseed commands.
const EnvPrefix = "WORLDSEED_"

// ParseEnv loads configuration from environment variables.
//
// Struct tags name variables without the prefix; `env:"DB_PATH"` reads
// WORLDSEED_DB_PATH.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

