// Copyright (C) 2025 GraphBench Authors
// Tests for config file creation and parsing.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".graphbench", "graphbench.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	var cfg GraphBenchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Influx.Enabled {
		t.Error("Influx.Enabled should default to false")
	}
	if cfg.Influx.TokenEnv != "GRAPHBENCH_INFLUX_TOKEN" {
		t.Errorf("Influx.TokenEnv = %q, want %q", cfg.Influx.TokenEnv, "GRAPHBENCH_INFLUX_TOKEN")
	}
}

// TestCreateDefault_DirectoryCreation verifies nested directories are created.
func TestCreateDefault_DirectoryCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "deep", "nested", "path", "graphbench.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed with nested path: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(configPath)); os.IsNotExist(err) {
		t.Fatal("nested directories were not created")
	}
}
