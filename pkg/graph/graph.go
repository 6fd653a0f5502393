// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph provides explicit computation-graph objects for the
// GraphBench execution runtime.
//
// A Graph is an append-only list of nodes. There is no ambient "default
// graph"; every node belongs to exactly one Graph instance created with New,
// and callers pass the Graph (or nodes from it) explicitly to sessions.
//
// The op set is deliberately tiny: it is exactly what the session latency
// benchmark needs. Placeholders receive fed values at run time, Identity
// passes its input through, Variables hold per-session state assigned by
// their initializer, and RandomNormal draws a fresh normal vector each time
// it is evaluated.
package graph

import (
	"fmt"
)

// OpType identifies the operation a Node performs.
type OpType string

const (
	// OpPlaceholder is an input slot. Its value must be fed at run time.
	OpPlaceholder OpType = "placeholder"

	// OpIdentity passes its single input through unchanged.
	OpIdentity OpType = "identity"

	// OpRandomNormal draws a standard-normal vector of the node's shape
	// each time it is evaluated.
	OpRandomNormal OpType = "random_normal"

	// OpVariable reads per-session variable state. Reading before the
	// variable's initializer has run is an error.
	OpVariable OpType = "variable"

	// OpVarInit evaluates its first input and assigns the result to the
	// variable referenced by its second input. It produces no value.
	OpVarInit OpType = "var_init"
)

// Node is a single operation in a Graph.
//
// Nodes are created through Graph methods and are immutable afterwards.
// Shape is the element count of the node's (vector) value.
type Node struct {
	g      *Graph
	id     int
	op     OpType
	shape  int
	inputs []*Node

	// init is set only for OpVariable nodes.
	init *Node
}

// ID returns the node's position in its graph, stable for the graph's
// lifetime and used as the wire identifier.
func (n *Node) ID() int { return n.id }

// Op returns the node's operation type.
func (n *Node) Op() OpType { return n.op }

// Shape returns the element count of the node's value.
func (n *Node) Shape() int { return n.shape }

// Inputs returns the node's input nodes in positional order.
func (n *Node) Inputs() []*Node { return n.inputs }

// Initializer returns the assignment op that initializes a Variable node.
// It returns nil for non-variable nodes.
func (n *Node) Initializer() *Node { return n.init }

// Graph is an ordered collection of nodes.
//
// Graph is not safe for concurrent mutation; build it fully before handing
// it to a session.
type Graph struct {
	nodes []*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Nodes returns all nodes in creation order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node with the given ID, or nil if out of range.
func (g *Graph) Node(id int) *Node {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

func (g *Graph) add(op OpType, shape int, inputs ...*Node) *Node {
	n := &Node{
		g:      g,
		id:     len(g.nodes),
		op:     op,
		shape:  shape,
		inputs: inputs,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// Placeholder adds an input slot holding a vector of the given element count.
func (g *Graph) Placeholder(shape int) *Node {
	return g.add(OpPlaceholder, shape)
}

// Identity adds a pass-through op on in.
func (g *Graph) Identity(in *Node) *Node {
	return g.add(OpIdentity, in.shape, in)
}

// RandomNormal adds an op that draws a standard-normal vector of the given
// element count on every evaluation.
func (g *Graph) RandomNormal(shape int) *Node {
	return g.add(OpRandomNormal, shape)
}

// Variable adds a stateful variable whose initial value is the result of
// evaluating init. The returned node's Initializer must be run in a session
// before the variable can be read.
func (g *Graph) Variable(init *Node) *Node {
	v := g.add(OpVariable, init.shape)
	v.init = g.add(OpVarInit, 0, init, v)
	return v
}

// Validate checks structural invariants: input arity per op and matching
// shapes across identity and initializer edges.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		switch n.op {
		case OpPlaceholder, OpRandomNormal:
			if len(n.inputs) != 0 {
				return fmt.Errorf("graph: node %d: %s takes no inputs", n.id, n.op)
			}
			if n.shape < 1 {
				return fmt.Errorf("graph: node %d: %s shape must be >= 1, got %d", n.id, n.op, n.shape)
			}
		case OpIdentity:
			if len(n.inputs) != 1 {
				return fmt.Errorf("graph: node %d: identity takes exactly one input", n.id)
			}
			if n.inputs[0].shape != n.shape {
				return fmt.Errorf("graph: node %d: identity shape %d != input shape %d", n.id, n.shape, n.inputs[0].shape)
			}
		case OpVariable:
			if n.init == nil {
				return fmt.Errorf("graph: node %d: variable has no initializer", n.id)
			}
		case OpVarInit:
			if len(n.inputs) != 2 {
				return fmt.Errorf("graph: node %d: var_init takes exactly two inputs", n.id)
			}
			if n.inputs[1].op != OpVariable {
				return fmt.Errorf("graph: node %d: var_init target %d is not a variable", n.id, n.inputs[1].id)
			}
			if n.inputs[0].shape != n.inputs[1].shape {
				return fmt.Errorf("graph: node %d: initial value shape %d != variable shape %d",
					n.id, n.inputs[0].shape, n.inputs[1].shape)
			}
		default:
			return fmt.Errorf("graph: node %d: unknown op %q", n.id, n.op)
		}
	}
	return nil
}
