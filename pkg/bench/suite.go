// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"context"

	"github.com/graphbench/graphbench/pkg/session"
)

// RemoteCases returns the canonical remote-backend suite: feed and fetch at
// 4 bytes and 4 MiB of float32 payload.
func RemoteCases(target session.Target) []Case {
	return []Case{
		{Name: "session_feed_remote_4b", Kind: Feed, Target: target, Size: 1, Iters: 10000},
		{Name: "session_feed_remote_4mb", Kind: Feed, Target: target, Size: 1 << 20, Iters: 100},
		{Name: "session_fetch_remote_4b", Kind: Fetch, Target: target, Size: 1, Iters: 20000},
		{Name: "session_fetch_remote_4mb", Kind: Fetch, Target: target, Size: 1 << 20, Iters: 100},
	}
}

// DirectCases returns the canonical in-process suite: the same four
// measurements against the direct backend.
func DirectCases() []Case {
	local := session.LocalTarget()
	return []Case{
		{Name: "session_feed_direct_4b", Kind: Feed, Target: local, Size: 1, Iters: 5000},
		{Name: "session_feed_direct_4mb", Kind: Feed, Target: local, Size: 1 << 20, Iters: 200},
		{Name: "session_fetch_direct_4b", Kind: Fetch, Target: local, Size: 1, Iters: 5000},
		{Name: "session_fetch_direct_4mb", Kind: Fetch, Target: local, Size: 1 << 20, Iters: 100},
	}
}

// RunSuite measures the cases in order. With resetBetween set, the backend
// is reset after every case, before the next case opens its session, so no
// case observes session or variable state left behind by the previous one.
// The direct suite has no persistent backend state and runs without resets.
//
// The first failing case aborts the suite; its error is returned unmodified
// and no further cases run.
func (r *Runner) RunSuite(ctx context.Context, cases []Case, resetBetween bool) ([]Result, error) {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		res, err := r.Measure(ctx, c)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		if resetBetween {
			svc, err := r.service(c.Target)
			if err != nil {
				return nil, err
			}
			if err := svc.Reset(ctx); err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}
