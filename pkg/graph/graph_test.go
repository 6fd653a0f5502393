// Copyright (C) 2025 GraphBench Authors
// Tests for computation-graph construction and wire transport.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderIdentity(t *testing.T) {
	g := New()
	p := g.Placeholder(4)
	op := g.Identity(p)

	assert.Equal(t, OpPlaceholder, p.Op())
	assert.Equal(t, 4, p.Shape())
	assert.Equal(t, OpIdentity, op.Op())
	assert.Equal(t, 4, op.Shape())
	require.Len(t, op.Inputs(), 1)
	assert.Same(t, p, op.Inputs()[0])
	require.NoError(t, g.Validate())
}

func TestVariableHasInitializer(t *testing.T) {
	g := New()
	v := g.Variable(g.RandomNormal(8))

	init := v.Initializer()
	require.NotNil(t, init)
	assert.Equal(t, OpVarInit, init.Op())
	require.Len(t, init.Inputs(), 2)
	assert.Equal(t, OpRandomNormal, init.Inputs()[0].Op())
	assert.Same(t, v, init.Inputs()[1])
	require.NoError(t, g.Validate())
}

func TestNonVariableHasNoInitializer(t *testing.T) {
	g := New()
	p := g.Placeholder(1)
	assert.Nil(t, p.Initializer())
}

func TestValidateRejectsBadShape(t *testing.T) {
	g := New()
	g.Placeholder(0)
	assert.Error(t, g.Validate())
}

func TestNodeLookup(t *testing.T) {
	g := New()
	p := g.Placeholder(2)

	assert.Same(t, p, g.Node(p.ID()))
	assert.Nil(t, g.Node(-1))
	assert.Nil(t, g.Node(99))
}

func TestWireRoundTrip(t *testing.T) {
	g := New()
	p := g.Placeholder(3)
	g.Identity(p)
	v := g.Variable(g.RandomNormal(3))

	wire := g.Marshal()
	require.Len(t, wire, 5)

	got, err := Unmarshal(wire)
	require.NoError(t, err)
	require.Len(t, got.Nodes(), 5)

	gotVar := got.Node(v.ID())
	require.Equal(t, OpVariable, gotVar.Op())
	require.NotNil(t, gotVar.Initializer(), "variable back link must survive the wire")
	assert.Equal(t, v.Initializer().ID(), gotVar.Initializer().ID())
}

func TestUnmarshalRejectsForwardReference(t *testing.T) {
	wire := []WireNode{
		{ID: 0, Op: OpIdentity, Shape: 1, Inputs: []int{1}},
		{ID: 1, Op: OpPlaceholder, Shape: 1},
	}
	_, err := Unmarshal(wire)
	assert.Error(t, err)
}

func TestUnmarshalRejectsNonPositionalIDs(t *testing.T) {
	wire := []WireNode{{ID: 7, Op: OpPlaceholder, Shape: 1}}
	_, err := Unmarshal(wire)
	assert.Error(t, err)
}
