package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Path    string `env:"TEST_PATH" envDefault:"data/test.db"`
	Verbose bool   `env:"TEST_VERBOSE"`
	Retries int    `env:"TEST_RETRIES" envDefault:"3"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Path != "data/test.db" {
		t.Fatalf("expected default path, got %q", cfg.Path)
	}
	if cfg.Retries != 3 {
		t.Fatalf("expected default retries 3, got %d", cfg.Retries)
	}
}

func TestParseEnvReadsPrefixedValues(t *testing.T) {
	t.Setenv("WORLDSEED_TEST_PATH", "/tmp/world.db")
	t.Setenv("WORLDSEED_TEST_VERBOSE", "true")
	t.Setenv("TEST_PATH", "ignored.db")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Path != "/tmp/world.db" {
		t.Fatalf("path = %q, want prefixed value", cfg.Path)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose from env")
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("WORLDSEED_TEST_RETRIES", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
