// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"github.com/graphbench/graphbench/pkg/graph"
)

// --- API Request/Response Structs ---

// OpenSessionRequest carries the wire form of the graph a session executes.
type OpenSessionRequest struct {
	Graph []graph.WireNode `json:"graph" binding:"required"`
}

// OpenSessionResponse returns the identifier for subsequent run/close calls.
type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

// FeedEntry binds a fed value to a placeholder node.
type FeedEntry struct {
	Node  int       `json:"node"`
	Value []float32 `json:"value"`
}

// RunRequest executes one node of a session's graph.
//
// Fetch controls whether the node's value is serialized back to the caller.
// Feed-latency measurements run the op with Fetch false so the response
// carries no tensor payload.
type RunRequest struct {
	Node  int         `json:"node"`
	Fetch bool        `json:"fetch"`
	Feeds []FeedEntry `json:"feeds,omitempty"`
}

// RunResponse carries the fetched value, or nothing for op-only runs.
type RunResponse struct {
	Value []float32 `json:"value,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
