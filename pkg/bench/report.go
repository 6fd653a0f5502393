// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Reporter is the structured reporting sink consumed by external
// aggregation tooling. The stdout line is not a Reporter; the runner always
// writes it.
type Reporter interface {
	Report(Result) error
}

// =============================================================================
// JSONL reporter
// =============================================================================

// Record is one JSONL report line.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Iters      int       `json:"iters"`
	WallTime   float64   `json:"wall_time_seconds"`
	RecordedAt time.Time `json:"recorded_at"`
}

// JSONLReporter appends one JSON object per result to a file. JSONL keeps
// the report human-readable and greppable without a query engine.
type JSONLReporter struct {
	mu  sync.Mutex
	f   *os.File
	now func() time.Time
}

// NewJSONLReporter opens (creating directories as needed) the report file
// for appending.
func NewJSONLReporter(path string) (*JSONLReporter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("bench: create report dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("bench: open report file: %w", err)
	}
	return &JSONLReporter{f: f, now: time.Now}, nil
}

// Report appends the result as one JSON line.
func (r *JSONLReporter) Report(res Result) error {
	rec := Record{
		ID:         uuid.NewString(),
		Name:       res.Name,
		Iters:      res.Iters,
		WallTime:   res.WallTime,
		RecordedAt: r.now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("bench: marshal record: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("bench: write record: %w", err)
	}
	return nil
}

// Close flushes and closes the report file.
func (r *JSONLReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}

// =============================================================================
// InfluxDB reporter
// =============================================================================

// InfluxReporter writes results as points to an InfluxDB bucket so runs can
// be charted over time. The write API is injected, which keeps the reporter
// testable without a live InfluxDB.
type InfluxReporter struct {
	write api.WriteAPIBlocking
	now   func() time.Time
}

// NewInfluxReporter wraps a blocking write API.
func NewInfluxReporter(write api.WriteAPIBlocking) *InfluxReporter {
	return &InfluxReporter{write: write, now: time.Now}
}

// Report writes one point per result to the "session_benchmark"
// measurement, tagged by case name.
func (r *InfluxReporter) Report(res Result) error {
	p := influxdb2.NewPoint(
		"session_benchmark",
		map[string]string{"name": res.Name},
		map[string]interface{}{
			"iters":             res.Iters,
			"wall_time_seconds": res.WallTime,
		},
		r.now(),
	)
	if err := r.write.WritePoint(context.Background(), p); err != nil {
		return fmt.Errorf("bench: influx write: %w", err)
	}
	return nil
}
