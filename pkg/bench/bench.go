// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package bench implements the session feed/fetch latency microbenchmark.
//
// A Runner times repeated executions of a trivial graph against an execution
// backend and reports the median wall time. The methodology is deliberate
// and should not be "improved":
//
//   - Exactly one untimed warm-up run absorbs connection setup and caching
//     effects before measurement begins.
//   - The feed case runs the identity *op* rather than fetching its value,
//     so the measurement isolates input-feed cost from output transfer.
//   - The fetch case reads a *variable* initialized from a random-normal
//     draw; a constant would let the engine fold the read away at graph
//     construction time and the measurement would be meaningless.
//
// Measurement is strictly sequential. Any backend failure aborts the case
// and propagates to the caller unmodified; there is no retry and no partial
// result.
package bench

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/graphbench/graphbench/pkg/graph"
	"github.com/graphbench/graphbench/pkg/session"
	"github.com/graphbench/graphbench/pkg/validation"
)

// Kind selects which latency a case measures.
type Kind int

const (
	// Feed measures the cost of feeding a tensor into a session.
	Feed Kind = iota
	// Fetch measures the cost of fetching a tensor out of a session.
	Fetch
)

// Case describes one measurement. Immutable once constructed; consumed
// within a single Measure call.
type Case struct {
	Name   string
	Kind   Kind
	Target session.Target
	Size   int // payload element count
	Iters  int // timed repetitions
}

func (c Case) validate() error {
	if err := validation.ValidateCaseName(c.Name); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if c.Size < 1 {
		return fmt.Errorf("bench: case %s: size must be >= 1, got %d", c.Name, c.Size)
	}
	if c.Iters < 1 {
		return fmt.Errorf("bench: case %s: iters must be >= 1, got %d", c.Name, c.Iters)
	}
	return nil
}

// Result is the outcome of one case: the median wall time over exactly
// Iters timed executions.
type Result struct {
	Name     string
	Iters    int
	WallTime float64 // median, seconds
}

// Clock provides timestamps for the measurement loop. Tests inject a fake
// to make timings deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ServiceFunc resolves a target into a session factory. The default is
// session.NewFactory; tests substitute fakes that record connection
// attempts.
type ServiceFunc func(session.Target) (session.Opener, error)

// Runner orchestrates timed measurements. The zero value is usable: it
// resolves backends with session.NewFactory, times with the wall clock,
// writes the human-readable line to stdout, and reports to no sinks.
type Runner struct {
	// NewService resolves a case's target into a session factory.
	NewService ServiceFunc

	// Clock supplies start/end timestamps for timed executions.
	Clock Clock

	// Out receives the one-line-per-measurement human-readable output.
	Out io.Writer

	// Reporters receive the structured result record after each case.
	Reporters []Reporter

	// Rand generates the feed payload. Nil means a time-seeded source.
	Rand *rand.Rand
}

func (r *Runner) service(t session.Target) (session.Opener, error) {
	if r.NewService != nil {
		return r.NewService(t)
	}
	return session.NewFactory(t)
}

func (r *Runner) clock() Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return systemClock{}
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) rng() *rand.Rand {
	if r.Rand == nil {
		r.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r.Rand
}

// MeasureFeed measures the cost of feeding a Size-element float32 vector
// into a session.
//
// The payload is generated once and reused unmodified across all
// iterations, so iteration-to-iteration variance reflects only the feed
// path. The graph is one placeholder and one identity op; the op itself is
// run (not fetched) to avoid paying for the result transfer.
func (r *Runner) MeasureFeed(ctx context.Context, c Case) (Result, error) {
	if err := c.validate(); err != nil {
		return Result{}, err
	}
	svc, err := r.service(c.Target)
	if err != nil {
		return Result{}, err
	}

	payload := randomUniform(r.rng(), c.Size)

	g := graph.New()
	p := g.Placeholder(c.Size)
	op := g.Identity(p)
	feeds := session.Feeds{p: payload}

	sess, err := svc.Open(ctx, g)
	if err != nil {
		return Result{}, err
	}
	defer sess.Close()

	// Warm-up run, untimed.
	if err := sess.RunOp(ctx, op, feeds); err != nil {
		return Result{}, err
	}

	clk := r.clock()
	times := make([]float64, 0, c.Iters)
	for i := 0; i < c.Iters; i++ {
		start := clk.Now()
		if err := sess.RunOp(ctx, op, feeds); err != nil {
			return Result{}, err
		}
		times = append(times, clk.Now().Sub(start).Seconds())
	}
	return r.finish(c, times)
}

// MeasureFetch measures the cost of fetching a Size-element float32 vector
// out of a session.
//
// The fetched node is a variable initialized from a random-normal draw. The
// initializer run and one warm-up fetch happen before any timed sample.
func (r *Runner) MeasureFetch(ctx context.Context, c Case) (Result, error) {
	if err := c.validate(); err != nil {
		return Result{}, err
	}
	svc, err := r.service(c.Target)
	if err != nil {
		return Result{}, err
	}

	g := graph.New()
	v := g.Variable(g.RandomNormal(c.Size))

	sess, err := svc.Open(ctx, g)
	if err != nil {
		return Result{}, err
	}
	defer sess.Close()

	// Initializer run and warm-up fetch, both untimed.
	if err := sess.RunOp(ctx, v.Initializer(), nil); err != nil {
		return Result{}, err
	}
	if _, err := sess.Fetch(ctx, v, nil); err != nil {
		return Result{}, err
	}

	clk := r.clock()
	times := make([]float64, 0, c.Iters)
	for i := 0; i < c.Iters; i++ {
		start := clk.Now()
		if _, err := sess.Fetch(ctx, v, nil); err != nil {
			return Result{}, err
		}
		times = append(times, clk.Now().Sub(start).Seconds())
	}
	return r.finish(c, times)
}

// Measure dispatches on the case's kind.
func (r *Runner) Measure(ctx context.Context, c Case) (Result, error) {
	if c.Kind == Fetch {
		return r.MeasureFetch(ctx, c)
	}
	return r.MeasureFeed(ctx, c)
}

func (r *Runner) finish(c Case, times []float64) (Result, error) {
	res := Result{Name: c.Name, Iters: c.Iters, WallTime: median(times)}
	if _, err := fmt.Fprintf(r.out(), "%s %d %f\n", c.Name, c.Size, res.WallTime); err != nil {
		return Result{}, err
	}
	for _, rep := range r.Reporters {
		if err := rep.Report(res); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// median returns the middle sample, averaging the two central samples for
// even-length inputs.
func median(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// randomUniform draws a uniform [0,1) float32 vector, matching the payload
// the original harness feeds.
func randomUniform(rng *rand.Rand, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = rng.Float32()
	}
	return out
}
