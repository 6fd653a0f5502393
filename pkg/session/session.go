// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session provides the execution-session abstraction the benchmark
// drives: open a session over a graph, run ops with fed inputs, fetch node
// values, close.
//
// Backend selection is a tagged target: LocalTarget() executes in-process,
// RemoteTarget(addr) talks JSON/HTTP to a graphd instance. The target is
// resolved exactly once, by NewFactory, into a concrete session factory;
// nothing downstream branches on address strings.
package session

import (
	"context"
	"fmt"

	"github.com/graphbench/graphbench/pkg/graph"
	"github.com/graphbench/graphbench/pkg/validation"
)

// Feeds maps placeholder nodes to the values fed for one run.
type Feeds map[*graph.Node][]float32

// Session executes nodes of one graph. Implementations are not safe for
// concurrent use; the benchmark is strictly sequential.
type Session interface {
	// RunOp executes the node for its effect and discards any value, so
	// no tensor is transferred back to the caller.
	RunOp(ctx context.Context, op *graph.Node, feeds Feeds) error

	// Fetch executes the node and returns its value.
	Fetch(ctx context.Context, node *graph.Node, feeds Feeds) ([]float32, error)

	// Close releases the session. Further calls fail.
	Close() error
}

// Opener creates sessions against one execution backend and can reset that
// backend's persistent state.
type Opener interface {
	Open(ctx context.Context, g *graph.Graph) (Session, error)
	Reset(ctx context.Context) error
}

// Target identifies an execution backend. The zero value is the in-process
// backend.
type Target struct {
	addr string
}

// LocalTarget selects the in-process backend.
func LocalTarget() Target { return Target{} }

// RemoteTarget selects a graphd instance at addr (host:port).
func RemoteTarget(addr string) Target { return Target{addr: addr} }

// IsLocal reports whether the target is the in-process backend.
func (t Target) IsLocal() bool { return t.addr == "" }

// Addr returns the remote address, or "" for the in-process backend.
func (t Target) Addr() string { return t.addr }

// String renders the target for logs and report records.
func (t Target) String() string {
	if t.IsLocal() {
		return "local"
	}
	return t.addr
}

// ParseTarget builds a Target from a CLI-style address string. The empty
// string denotes the in-process backend.
func ParseTarget(s string) (Target, error) {
	addr, err := validation.SanitizeTarget(s)
	if err != nil {
		return Target{}, err
	}
	if addr == "" {
		return LocalTarget(), nil
	}
	return RemoteTarget(addr), nil
}

// NewFactory resolves a target into its concrete session factory. This is
// the only place backend dispatch happens.
func NewFactory(t Target) (Opener, error) {
	if t.IsLocal() {
		return NewDirectService(), nil
	}
	if err := validation.ValidateTarget(t.Addr()); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return NewRemoteService(t.Addr()), nil
}
