// Copyright (C) 2025 GraphBench Authors
// Tests for the structured reporting sinks.

package bench

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLReporterAppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "bench.jsonl")
	rep, err := NewJSONLReporter(path)
	require.NoError(t, err)

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rep.now = func() time.Time { return fixed }

	require.NoError(t, rep.Report(Result{Name: "feed_4b", Iters: 10000, WallTime: 0.000123}))
	require.NoError(t, rep.Report(Result{Name: "fetch_4mb", Iters: 100, WallTime: 0.042}))
	require.NoError(t, rep.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, records, 2)
	assert.Equal(t, "feed_4b", records[0].Name)
	assert.Equal(t, 10000, records[0].Iters)
	assert.Equal(t, 0.000123, records[0].WallTime)
	assert.Equal(t, fixed, records[0].RecordedAt)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

// --- Mock InfluxDB WriteAPI ---

type MockWriteAPI struct {
	WritePointFunc func(ctx context.Context, point ...*write.Point) error
	WrittenPoints  []*write.Point
}

func (m *MockWriteAPI) WritePoint(ctx context.Context, point ...*write.Point) error {
	m.WrittenPoints = append(m.WrittenPoints, point...)
	if m.WritePointFunc != nil {
		return m.WritePointFunc(ctx, point...)
	}
	return nil
}

func (m *MockWriteAPI) WriteRecord(ctx context.Context, line ...string) error {
	return nil
}

func (m *MockWriteAPI) EnableBatching()                 {}
func (m *MockWriteAPI) Flush(ctx context.Context) error { return nil }

func TestInfluxReporterWritesPoint(t *testing.T) {
	mock := &MockWriteAPI{}
	rep := NewInfluxReporter(mock)
	rep.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, rep.Report(Result{Name: "feed_4b", Iters: 10000, WallTime: 0.000123}))

	require.Len(t, mock.WrittenPoints, 1)
	p := mock.WrittenPoints[0]
	assert.Equal(t, "session_benchmark", p.Name())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "feed_4b", tags["name"])

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, 0.000123, fields["wall_time_seconds"])
}

func TestInfluxReporterPropagatesWriteError(t *testing.T) {
	sentinel := errors.New("influx down")
	mock := &MockWriteAPI{
		WritePointFunc: func(context.Context, ...*write.Point) error { return sentinel },
	}
	rep := NewInfluxReporter(mock)

	err := rep.Report(Result{Name: "feed_4b", Iters: 1, WallTime: 0.1})
	assert.ErrorIs(t, err, sentinel)
}

func TestRunnerHandsResultToReporters(t *testing.T) {
	log := &eventLog{}
	svc := &fakeService{log: log}

	var reported []Result
	r := newFakeRunner(svc, clockForDeltas(log, 300*time.Millisecond))
	r.Reporters = []Reporter{reporterFunc(func(res Result) error {
		reported = append(reported, res)
		return nil
	})}

	res, err := r.MeasureFeed(context.Background(), Case{Name: "t", Size: 1, Iters: 1})
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, res, reported[0])
}

type reporterFunc func(Result) error

func (f reporterFunc) Report(res Result) error { return f(res) }
