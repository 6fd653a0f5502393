// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// serverMetrics holds the Prometheus collectors for one Server instance.
//
// Each Server gets its own registry so tests (and session.StartLocalServer)
// can create servers freely without duplicate-registration panics on the
// global default registry.
type serverMetrics struct {
	registry *prometheus.Registry

	sessionsOpened prometheus.Counter
	resets         prometheus.Counter
	runTotal       *prometheus.CounterVec
	runDuration    prometheus.Histogram
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{registry: prometheus.NewRegistry()}

	m.sessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "graphd",
		Name:      "sessions_opened_total",
		Help:      "Number of sessions opened since startup.",
	})
	m.resets = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "graphd",
		Name:      "resets_total",
		Help:      "Number of service resets.",
	})
	m.runTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphd",
		Name:      "runs_total",
		Help:      "Number of node executions by outcome.",
	}, []string{"outcome"})
	m.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "graphd",
		Name:      "run_duration_seconds",
		Help:      "Server-side latency of node executions.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	})

	m.registry.MustRegister(m.sessionsOpened, m.resets, m.runTotal, m.runDuration)
	return m
}

type runTimer struct {
	m     *serverMetrics
	start time.Time
}

func (m *serverMetrics) startRun() runTimer {
	return runTimer{m: m, start: time.Now()}
}

func (t runTimer) done(err error) {
	t.m.runDuration.Observe(time.Since(t.start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	t.m.runTotal.WithLabelValues(outcome).Inc()
}
