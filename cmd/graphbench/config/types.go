// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

type GraphBenchConfig struct {
	// Logging: level and optional log directory for the CLI
	Logging LoggingConfig `yaml:"logging"`

	// Report: structured result sinks beyond the stdout line
	Report ReportConfig `yaml:"report"`

	// Influx: time-series sink for charting runs over time
	Influx InfluxConfig `yaml:"influx"`

	// Daemon: defaults for connecting to a graphd instance
	Daemon DaemonConfig `yaml:"daemon"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Dir   string `yaml:"dir,omitempty"`  // e.g. ~/.graphbench/logs; empty disables file logging
	JSON  bool   `yaml:"json,omitempty"` // JSON instead of text on stderr
}

type ReportConfig struct {
	// JSONLPath appends one JSON line per result when set.
	JSONLPath string `yaml:"jsonl_path,omitempty"`
}

type InfluxConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url,omitempty" validate:"omitempty,url"`
	Org      string `yaml:"org,omitempty"`       // InfluxDB organization
	Bucket   string `yaml:"bucket,omitempty"`    // destination bucket
	TokenEnv string `yaml:"token_env,omitempty"` // env var holding the API token
}

// Token reads the API token from the configured environment variable.
// Tokens never live in the config file itself.
func (c InfluxConfig) Token() string {
	if c.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.TokenEnv)
}

type DaemonConfig struct {
	// Addr is the default graphd address for remote suites when no
	// --target flag is given. Empty means start an in-process server.
	Addr string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// Validate checks field constraints on a loaded config.
func (c GraphBenchConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func DefaultConfig() GraphBenchConfig {
	return GraphBenchConfig{
		Logging: LoggingConfig{
			Level: "info",
		},
		Report: ReportConfig{
			JSONLPath: "",
		},
		Influx: InfluxConfig{
			Enabled:  false,
			URL:      "http://localhost:8086",
			Org:      "graphbench",
			Bucket:   "benchmarks",
			TokenEnv: "GRAPHBENCH_INFLUX_TOKEN",
		},
		Daemon: DaemonConfig{
			Addr: "",
		},
	}
}
