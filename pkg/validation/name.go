// Copyright (C) 2025 GraphBench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for user-provided benchmark
// parameters.
//
// Case names end up in stdout lines, report files, and metric tags, and
// targets are dialed over the network, so both are validated before use.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// casePattern matches valid benchmark case names.
// Allows: lowercase letters, digits, underscores; must start alphanumeric.
// Max length: 64 characters.
var casePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]{0,63}$`)

// ValidateCaseName validates a benchmark case name.
//
// Valid names:
//   - 1-64 characters
//   - Lowercase letters a-z and digits 0-9
//   - Underscores as separators
//
// Returns an error if the name is invalid.
func ValidateCaseName(name string) error {
	if name == "" {
		return fmt.Errorf("case name cannot be empty")
	}
	if !casePattern.MatchString(name) {
		return fmt.Errorf("invalid case name: %q (must be 1-64 lowercase alphanumeric chars or underscores)", name)
	}
	return nil
}

// ValidateTarget validates a remote execution-service address.
//
// The empty string is valid and denotes the in-process backend. Anything
// else must be a host:port pair with a non-empty host.
func ValidateTarget(target string) error {
	if target == "" {
		return nil
	}
	host, port, err := net.SplitHostPort(target)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", target, err)
	}
	if host == "" {
		return fmt.Errorf("invalid target %q: empty host", target)
	}
	if port == "" {
		return fmt.Errorf("invalid target %q: empty port", target)
	}
	return nil
}

// SanitizeTarget trims whitespace and validates a target address.
// Returns the trimmed target if valid, or an error if invalid.
func SanitizeTarget(target string) (string, error) {
	trimmed := strings.TrimSpace(target)
	if err := ValidateTarget(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
