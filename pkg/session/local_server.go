// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/graphbench/graphbench/pkg/server"
)

// LocalServer is an in-process graphd instance on an ephemeral loopback
// port. The remote benchmark suite starts one when no --target is given, so
// the remote transport can be measured without deploying a daemon.
type LocalServer struct {
	addr string
	srv  *http.Server
	done chan error
}

// StartLocalServer binds a loopback listener, serves the execution service
// on it, and returns once the listener is accepting connections.
func StartLocalServer(log *slog.Logger) (*LocalServer, error) {
	if log == nil {
		log = slog.Default()
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("session: listen: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.New(server.WithLogger(log)).Router()

	ls := &LocalServer{
		addr: ln.Addr().String(),
		srv:  &http.Server{Handler: router},
		done: make(chan error, 1),
	}
	go func() {
		err := ls.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		ls.done <- err
	}()

	log.Info("local execution server started", "target", ls.addr)
	return ls, nil
}

// Target returns the server's remote target.
func (ls *LocalServer) Target() Target {
	return RemoteTarget(ls.addr)
}

// Shutdown stops the server and waits for the serve loop to exit.
func (ls *LocalServer) Shutdown(ctx context.Context) error {
	if err := ls.srv.Shutdown(ctx); err != nil {
		return err
	}
	select {
	case err := <-ls.done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("session: serve loop did not exit")
	}
}
