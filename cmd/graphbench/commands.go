// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	targetAddr string // graphd address for the remote suite (host:port)
	reportPath string // JSONL report file; overrides the config value
	logLevel   string // CLI log level override (debug/info/warn/error)
	caseFilter string // run only cases whose name contains this substring

	rootCmd = &cobra.Command{
		Use:   "graphbench",
		Short: "A cli to measure session feed and fetch latency",
		Long: `Graphbench times how long it takes to feed tensors into, and fetch
tensors out of, a computation-graph execution session, comparing the
in-process backend against a remote graphd instance.`,
	}

	// --- Benchmarks ---
	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Run benchmark suites",
	}
	benchDirectCmd = &cobra.Command{
		Use:   "direct",
		Short: "Run the feed/fetch suite against the in-process backend",
		Run:   runBenchDirect, // Defined in cmd_bench.go
	}
	benchRemoteCmd = &cobra.Command{
		Use:   "remote",
		Short: "Run the feed/fetch suite against a graphd instance",
		Long: `Runs the remote suite over JSON/HTTP. With no --target, an in-process
server is started on an ephemeral loopback port so the transport can be
measured without deploying a daemon.`,
		Run: runBenchRemote, // Defined in cmd_bench.go
	}

	// --- Utilities ---
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the cases of both canonical suites",
		Run:   runListCases, // Defined in cmd_bench.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug/info/warn/error)")

	benchCmd.PersistentFlags().StringVar(&reportPath, "report", "", "Append results to this JSONL file")
	benchCmd.PersistentFlags().StringVar(&caseFilter, "filter", "", "Only run cases whose name contains this substring")
	benchRemoteCmd.Flags().StringVar(&targetAddr, "target", "", "graphd address (host:port); empty starts an in-process server")

	benchCmd.AddCommand(benchDirectCmd)
	benchCmd.AddCommand(benchRemoteCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(listCmd)
}
