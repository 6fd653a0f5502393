// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"fmt"

	"github.com/graphbench/graphbench/pkg/engine"
	"github.com/graphbench/graphbench/pkg/graph"
)

// directService opens sessions backed by in-process engines. It never
// touches the network.
type directService struct{}

// NewDirectService returns the in-process session factory.
func NewDirectService() Opener {
	return directService{}
}

func (directService) Open(_ context.Context, g *graph.Graph) (Session, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &directSession{eng: engine.New(g)}, nil
}

// Reset is a no-op: direct sessions own all their state, so there is no
// shared backend state to clear.
func (directService) Reset(context.Context) error { return nil }

type directSession struct {
	eng *engine.Engine
}

func (s *directSession) run(node *graph.Node, feeds Feeds) ([]float32, error) {
	if s.eng == nil {
		return nil, fmt.Errorf("session: use of closed session")
	}
	ef := make(engine.Feeds, len(feeds))
	for n, v := range feeds {
		ef[n.ID()] = v
	}
	return s.eng.Run(node.ID(), ef)
}

func (s *directSession) RunOp(_ context.Context, op *graph.Node, feeds Feeds) error {
	_, err := s.run(op, feeds)
	return err
}

func (s *directSession) Fetch(_ context.Context, node *graph.Node, feeds Feeds) ([]float32, error) {
	return s.run(node, feeds)
}

func (s *directSession) Close() error {
	if s.eng == nil {
		return fmt.Errorf("session: already closed")
	}
	s.eng = nil
	return nil
}
