// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"sync"

	"github.com/graphbench/graphbench/pkg/engine"
)

// sessionRegistry maps session IDs to their engines. Guarded by a mutex
// because gin serves each request on its own goroutine.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*engine.Engine
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*engine.Engine)}
}

func (r *sessionRegistry) put(id string, e *engine.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = e
}

func (r *sessionRegistry) get(id string) (*engine.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	return e, ok
}

func (r *sessionRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// clear drops all sessions and returns how many were dropped.
func (r *sessionRegistry) clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.sessions)
	r.sessions = make(map[string]*engine.Engine)
	return n
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
