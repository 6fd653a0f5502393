// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server implements the HTTP surface of the graphbench execution
// service.
//
// A Server owns a registry of open sessions, each backed by its own
// in-process engine. The benchmark's remote backend talks to this surface,
// either through a standalone graphd process or through the in-process
// loopback instance started by session.StartLocalServer.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graphbench/graphbench/pkg/engine"
	"github.com/graphbench/graphbench/pkg/graph"
)

// Server holds the session registry and its metrics.
type Server struct {
	log      *slog.Logger
	sessions *sessionRegistry
	metrics  *serverMetrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New returns a server with an empty session registry.
func New(opts ...Option) *Server {
	s := &Server{
		log:      slog.Default(),
		sessions: newSessionRegistry(),
		metrics:  newServerMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered. Extra gin
// middleware (e.g. otelgin in graphd) can be passed in.
func (s *Server) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	{
		v1.POST("/session/open", s.handleOpenSession)
		v1.POST("/session/:sessionId/run", s.handleRun)
		v1.POST("/session/:sessionId/close", s.handleCloseSession)
		v1.POST("/reset", s.handleReset)
	}
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.count()})
}

// handleOpenSession validates the wire graph and registers a session with a
// fresh engine bound to it.
func (s *Server) handleOpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	g, err := graph.Unmarshal(req.Graph)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid graph", Details: err.Error()})
		return
	}

	id := uuid.NewString()
	s.sessions.put(id, engine.New(g))
	s.metrics.sessionsOpened.Inc()

	s.log.Info("session opened", "session_id", id, "nodes", len(req.Graph))
	c.JSON(http.StatusOK, OpenSessionResponse{SessionID: id})
}

// handleRun executes one node in the named session. The response carries the
// node's value only when the caller asked to fetch it.
func (s *Server) handleRun(c *gin.Context) {
	id := c.Param("sessionId")
	eng, ok := s.sessions.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown session", Details: id})
		return
	}

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	feeds := make(engine.Feeds, len(req.Feeds))
	for _, f := range req.Feeds {
		feeds[f.Node] = f.Value
	}

	timer := s.metrics.startRun()
	value, err := eng.Run(req.Node, feeds)
	timer.done(err)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "run failed", Details: err.Error()})
		return
	}

	resp := RunResponse{}
	if req.Fetch {
		resp.Value = value
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCloseSession(c *gin.Context) {
	id := c.Param("sessionId")
	if !s.sessions.remove(id) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown session", Details: id})
		return
	}
	s.log.Info("session closed", "session_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// handleReset drops every open session and its variable state. The remote
// benchmark suite calls this between cases so no case observes state left
// behind by the previous one.
func (s *Server) handleReset(c *gin.Context) {
	dropped := s.sessions.clear()
	s.metrics.resets.Inc()
	s.log.Info("service reset", "sessions_dropped", dropped)
	c.JSON(http.StatusOK, gin.H{"status": "reset", "sessions_dropped": dropped})
}
