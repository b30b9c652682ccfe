// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package obs wires structured logging through the dispatch, registry, and
// CLI layers. Verifier packages (internal/groth16, internal/plonk,
// internal/stark) stay logger-free: they are pure functions over a
// descriptor and a backend, and are exercised directly by tests without
// constructing a logger.
package obs

import "go.uber.org/zap"

// New builds the production logger: JSON to stderr at info level.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopment builds a human-readable logger for local runs and tests.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// Noop returns a logger that discards everything, for call sites (tests,
// library embedders) that don't want a logging dependency.
func Noop() *zap.Logger {
	return zap.NewNop()
}
