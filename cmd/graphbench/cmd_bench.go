// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/spf13/cobra"

	"github.com/graphbench/graphbench/cmd/graphbench/config"
	"github.com/graphbench/graphbench/pkg/bench"
	"github.com/graphbench/graphbench/pkg/logging"
	"github.com/graphbench/graphbench/pkg/session"
)

// newLogger builds the CLI logger from config, honoring the --log-level
// override.
func newLogger() *logging.Logger {
	level := config.Global.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(logging.Config{
		Level:   parseLogLevel(level),
		LogDir:  config.Global.Logging.Dir,
		Service: "cli",
		JSON:    config.Global.Logging.JSON,
	})
}

func parseLogLevel(s string) logging.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// buildReporters assembles the structured result sinks from config and
// flags. The returned cleanup releases file handles and the InfluxDB client.
func buildReporters(cfg config.GraphBenchConfig) ([]bench.Reporter, func(), error) {
	var reporters []bench.Reporter
	var cleanups []func()
	cleanup := func() {
		for _, f := range cleanups {
			f()
		}
	}

	jsonlPath := cfg.Report.JSONLPath
	if reportPath != "" {
		jsonlPath = reportPath
	}
	if jsonlPath != "" {
		rep, err := bench.NewJSONLReporter(jsonlPath)
		if err != nil {
			return nil, cleanup, err
		}
		reporters = append(reporters, rep)
		cleanups = append(cleanups, func() { _ = rep.Close() })
	}

	if cfg.Influx.Enabled {
		token := cfg.Influx.Token()
		if token == "" {
			cleanup()
			return nil, func() {}, fmt.Errorf("influx reporting enabled but %s is not set", cfg.Influx.TokenEnv)
		}
		client := influxdb2.NewClient(cfg.Influx.URL, token)
		write := client.WriteAPIBlocking(cfg.Influx.Org, cfg.Influx.Bucket)
		reporters = append(reporters, bench.NewInfluxReporter(write))
		cleanups = append(cleanups, client.Close)
	}

	return reporters, cleanup, nil
}

// filterCases keeps only cases whose name contains the substring. An empty
// filter keeps everything.
func filterCases(cases []bench.Case, substr string) []bench.Case {
	if substr == "" {
		return cases
	}
	var out []bench.Case
	for _, c := range cases {
		if strings.Contains(c.Name, substr) {
			out = append(out, c)
		}
	}
	return out
}

func runBenchDirect(cmd *cobra.Command, args []string) {
	lg := newLogger()
	defer lg.Close()

	reporters, cleanup, err := buildReporters(config.Global)
	if err != nil {
		lg.Error("failed to build reporters", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	cases := filterCases(bench.DirectCases(), caseFilter)
	lg.Info("running direct suite", "cases", len(cases))

	runner := &bench.Runner{Reporters: reporters}
	if _, err := runner.RunSuite(cmd.Context(), cases, false); err != nil {
		lg.Error("suite failed", "error", err)
		os.Exit(1)
	}
	lg.Info("direct suite complete")
}

func runBenchRemote(cmd *cobra.Command, args []string) {
	lg := newLogger()
	defer lg.Close()

	reporters, cleanup, err := buildReporters(config.Global)
	if err != nil {
		lg.Error("failed to build reporters", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	addr := targetAddr
	if addr == "" {
		addr = config.Global.Daemon.Addr
	}

	target, err := session.ParseTarget(addr)
	if err != nil {
		lg.Error("invalid target", "target", addr, "error", err)
		os.Exit(1)
	}

	// With no target, start an in-process server so the HTTP transport is
	// still what gets measured.
	if target.IsLocal() {
		ls, err := session.StartLocalServer(lg.Slog())
		if err != nil {
			lg.Error("failed to start local server", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := ls.Shutdown(context.Background()); err != nil {
				lg.Warn("local server shutdown", "error", err)
			}
		}()
		target = ls.Target()
	}

	cases := filterCases(bench.RemoteCases(target), caseFilter)
	lg.Info("running remote suite", "target", target.String(), "cases", len(cases))

	runner := &bench.Runner{Reporters: reporters}
	if _, err := runner.RunSuite(cmd.Context(), cases, true); err != nil {
		lg.Error("suite failed", "error", err)
		os.Exit(1)
	}
	lg.Info("remote suite complete")
}

func runListCases(cmd *cobra.Command, args []string) {
	fmt.Println("direct suite:")
	for _, c := range bench.DirectCases() {
		fmt.Printf("  %s size=%d iters=%d\n", c.Name, c.Size, c.Iters)
	}
	fmt.Println("remote suite:")
	for _, c := range bench.RemoteCases(session.RemoteTarget("<target>")) {
		fmt.Printf("  %s size=%d iters=%d\n", c.Name, c.Size, c.Iters)
	}
}
