// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"fmt"
)

// WireNode is the transport form of a Node, carried in the JSON body of the
// session-open request. Node identity is positional: a WireNode's ID must
// equal its index in the slice.
type WireNode struct {
	ID     int    `json:"id"`
	Op     OpType `json:"op"`
	Shape  int    `json:"shape"`
	Inputs []int  `json:"inputs,omitempty"`
}

// Marshal flattens the graph into its wire form.
func (g *Graph) Marshal() []WireNode {
	wire := make([]WireNode, len(g.nodes))
	for i, n := range g.nodes {
		w := WireNode{ID: n.id, Op: n.op, Shape: n.shape}
		for _, in := range n.inputs {
			w.Inputs = append(w.Inputs, in.id)
		}
		wire[i] = w
	}
	return wire
}

// Unmarshal rebuilds a graph from its wire form and validates it.
//
// Inputs may only reference earlier nodes; forward references are rejected
// so the result is evaluable in one pass.
func Unmarshal(wire []WireNode) (*Graph, error) {
	g := New()
	for i, w := range wire {
		if w.ID != i {
			return nil, fmt.Errorf("graph: wire node %d has id %d, want positional ids", i, w.ID)
		}
		inputs := make([]*Node, 0, len(w.Inputs))
		for _, ref := range w.Inputs {
			if ref < 0 || ref >= i {
				return nil, fmt.Errorf("graph: wire node %d references node %d (forward or out of range)", i, ref)
			}
			inputs = append(inputs, g.nodes[ref])
		}
		n := g.add(w.Op, w.Shape, inputs...)
		if n.op == OpVarInit && len(inputs) == 2 {
			// Restore the variable -> initializer back link.
			inputs[1].init = n
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
