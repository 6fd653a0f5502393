// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine evaluates graphbench computation graphs in-process.
//
// An Engine is bound to one graph and owns the variable state created by
// running variable initializers. It is the execution core behind both the
// direct session backend and the graphd service.
package engine

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/graphbench/graphbench/pkg/graph"
)

// Feeds maps placeholder node IDs to the values fed for one run.
type Feeds map[int][]float32

// Engine evaluates nodes of a single graph.
//
// Safe for concurrent use; the variable store is mutex-guarded because the
// graphd service runs each HTTP request on its own goroutine.
type Engine struct {
	g   *graph.Graph
	rng *rand.Rand

	mu   sync.Mutex
	vars map[int][]float32
}

// New returns an engine for g seeded from the default source.
func New(g *graph.Graph) *Engine {
	return NewWithRand(g, rand.New(rand.NewSource(rand.Int63())))
}

// NewWithRand returns an engine for g using rng for random ops. Tests use a
// fixed seed to make random-normal draws reproducible.
func NewWithRand(g *graph.Graph, rng *rand.Rand) *Engine {
	return &Engine{
		g:    g,
		rng:  rng,
		vars: make(map[int][]float32),
	}
}

// Graph returns the graph this engine evaluates.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Run evaluates the node with the given ID. Ops that produce no value
// (var_init) return a nil slice. Feeds may be nil when the evaluated
// subgraph contains no placeholders.
func (e *Engine) Run(nodeID int, feeds Feeds) ([]float32, error) {
	n := e.g.Node(nodeID)
	if n == nil {
		return nil, fmt.Errorf("engine: no node with id %d", nodeID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eval(n, feeds)
}

// Reset drops all variable state, returning the engine to its
// pre-initialization condition.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars = make(map[int][]float32)
}

func (e *Engine) eval(n *graph.Node, feeds Feeds) ([]float32, error) {
	switch n.Op() {
	case graph.OpPlaceholder:
		val, ok := feeds[n.ID()]
		if !ok {
			return nil, fmt.Errorf("engine: placeholder %d was not fed", n.ID())
		}
		if len(val) != n.Shape() {
			return nil, fmt.Errorf("engine: placeholder %d fed %d elements, want %d", n.ID(), len(val), n.Shape())
		}
		return val, nil

	case graph.OpIdentity:
		return e.eval(n.Inputs()[0], feeds)

	case graph.OpRandomNormal:
		out := make([]float32, n.Shape())
		for i := range out {
			out[i] = float32(e.rng.NormFloat64())
		}
		return out, nil

	case graph.OpVariable:
		val, ok := e.vars[n.ID()]
		if !ok {
			return nil, fmt.Errorf("engine: variable %d read before initialization", n.ID())
		}
		return val, nil

	case graph.OpVarInit:
		val, err := e.eval(n.Inputs()[0], feeds)
		if err != nil {
			return nil, err
		}
		target := n.Inputs()[1]
		stored := make([]float32, len(val))
		copy(stored, val)
		e.vars[target.ID()] = stored
		return nil, nil

	default:
		return nil, fmt.Errorf("engine: unknown op %q", n.Op())
	}
}
