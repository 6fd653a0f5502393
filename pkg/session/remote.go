// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/graphbench/graphbench/pkg/graph"
	"github.com/graphbench/graphbench/pkg/server"
)

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// remoteService opens sessions against a graphd instance over JSON/HTTP.
type remoteService struct {
	baseURL string
	client  HTTPClient
}

// NewRemoteService returns a session factory bound to a graphd instance at
// addr (host:port).
func NewRemoteService(addr string) Opener {
	return &remoteService{
		baseURL: "http://" + addr,
		client:  http.DefaultClient,
	}
}

// NewRemoteServiceWithClient is NewRemoteService with an injected HTTP
// client, used by tests.
func NewRemoteServiceWithClient(addr string, client HTTPClient) Opener {
	return &remoteService{baseURL: "http://" + addr, client: client}
}

func (r *remoteService) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("session: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("session: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("session: %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("session: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr server.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("session: %s: %s (%s)", path, apiErr.Error, apiErr.Details)
		}
		return fmt.Errorf("session: %s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("session: decode response: %w", err)
		}
	}
	return nil
}

func (r *remoteService) Open(ctx context.Context, g *graph.Graph) (Session, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	var resp server.OpenSessionResponse
	req := server.OpenSessionRequest{Graph: g.Marshal()}
	if err := r.post(ctx, "/v1/session/open", req, &resp); err != nil {
		return nil, err
	}
	return &remoteSession{svc: r, id: resp.SessionID}, nil
}

func (r *remoteService) Reset(ctx context.Context) error {
	return r.post(ctx, "/v1/reset", nil, nil)
}

type remoteSession struct {
	svc    *remoteService
	id     string
	closed bool
}

func (s *remoteSession) run(ctx context.Context, node *graph.Node, feeds Feeds, fetch bool) ([]float32, error) {
	if s.closed {
		return nil, fmt.Errorf("session: use of closed session")
	}
	req := server.RunRequest{Node: node.ID(), Fetch: fetch}
	for n, v := range feeds {
		req.Feeds = append(req.Feeds, server.FeedEntry{Node: n.ID(), Value: v})
	}
	var resp server.RunResponse
	if err := s.svc.post(ctx, fmt.Sprintf("/v1/session/%s/run", s.id), req, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (s *remoteSession) RunOp(ctx context.Context, op *graph.Node, feeds Feeds) error {
	_, err := s.run(ctx, op, feeds, false)
	return err
}

func (s *remoteSession) Fetch(ctx context.Context, node *graph.Node, feeds Feeds) ([]float32, error) {
	return s.run(ctx, node, feeds, true)
}

func (s *remoteSession) Close() error {
	if s.closed {
		return fmt.Errorf("session: already closed")
	}
	s.closed = true
	return s.svc.post(context.Background(), fmt.Sprintf("/v1/session/%s/close", s.id), nil, nil)
}
