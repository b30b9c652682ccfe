// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package uzkv is the top-level Universal Zero-Knowledge Proof Verifier
// API: register_vk, is_vk_registered, estimate_cost, and verify (spec §6),
// wired onto internal/dispatch's Engine. Everything downstream of this
// package is an internal implementation detail; this is the one surface an
// external caller — cmd/uzkvctl, or a host embedding this module — needs.
package uzkv

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/luxfi/uzkv/internal/cost"
	"github.com/luxfi/uzkv/internal/dispatch"
	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/metrics"
	"github.com/luxfi/uzkv/internal/policy"
	"github.com/luxfi/uzkv/internal/registry"
	"github.com/luxfi/uzkv/internal/upd"
)

// Outcome is re-exported from internal/dispatch so callers of this package
// never need to import an internal path themselves.
type Outcome = dispatch.Outcome

// Verifier is the public entry point: a registry of verification keys
// bound to a bound-check policy and a curve backend.
type Verifier struct {
	engine *dispatch.Engine
}

// Option configures a Verifier at construction time.
type Option func(*config)

type config struct {
	policy    policy.Policy
	backend   field.Backend
	logger    *zap.Logger
	cacheSize int
	store     registry.Store
	maxBudget uint64
}

// WithPolicy overrides the default bound-check policy (policy.Default()).
func WithPolicy(p policy.Policy) Option { return func(c *config) { c.policy = p } }

// WithBackend overrides the default native (library-backed) curve backend
// with, e.g., a field.Precompile wired to a PrecompileHost.
func WithBackend(b field.Backend) Option { return func(c *config) { c.backend = b } }

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option { return func(c *config) { c.logger = l } }

// WithCacheSize overrides the registry's in-memory LRU capacity (default
// 1024 entries).
func WithCacheSize(n int) Option { return func(c *config) { c.cacheSize = n } }

// WithStore backs the registry with a durable Store (e.g.
// registry.PebbleStore) so registered VKs survive a process restart.
func WithStore(s registry.Store) Option { return func(c *config) { c.store = s } }

// WithMaxBudget sets a per-call cost ceiling; a descriptor whose estimated
// cost exceeds it is rejected with verr.KindOverBudget before any verifier
// runs (spec §4.4 step 4).
func WithMaxBudget(n uint64) Option { return func(c *config) { c.maxBudget = n } }

// New constructs a Verifier. By default it uses policy.Default(), a
// field.Native backend, an in-memory-only registry with a 1024-entry LRU,
// and a no-op logger.
func New(opts ...Option) (*Verifier, error) {
	c := config{
		policy:    policy.Default(),
		backend:   field.Native{},
		logger:    zap.NewNop(),
		cacheSize: 1024,
	}
	for _, opt := range opts {
		opt(&c)
	}

	var reg *registry.Registry
	var err error
	if c.store != nil {
		reg, err = registry.NewWithStore(c.cacheSize, c.store)
	} else {
		reg, err = registry.New(c.cacheSize)
	}
	if err != nil {
		return nil, err
	}

	engine := dispatch.New(reg, c.policy, c.backend, c.logger)
	engine.MaxBudget = c.maxBudget
	return &Verifier{engine: engine}, nil
}

// RegisterVK binds blob to (proofSystem, programID), returning its
// commitment keccak256(blob) (spec §6 register_vk). Registering the same
// blob under the same triple twice is a no-op; registering a different
// blob under an already-bound triple returns verr.KindVkConflict.
func (v *Verifier) RegisterVK(proofSystem upd.ProofSystem, programID [32]byte, blob []byte) ([32]byte, error) {
	h := sha3.NewLegacyKeccak256()
	h.Write(blob)
	var want [32]byte
	copy(want[:], h.Sum(nil))
	isNew := !v.engine.Registry.IsRegistered(uint8(proofSystem), programID, want)

	commitment, err := v.engine.Registry.Register(uint8(proofSystem), programID, blob)
	if err == nil && isNew {
		metrics.RegisteredVKs.Inc()
	}
	return commitment, err
}

// IsVKRegistered reports whether a triple has a bound VK (spec §6
// is_vk_registered).
func (v *Verifier) IsVKRegistered(proofSystem upd.ProofSystem, programID, vkCommitment [32]byte) bool {
	return v.engine.Registry.IsRegistered(uint8(proofSystem), programID, vkCommitment)
}

// EstimateCost returns the { base, per_input, per_byte, estimated_total }
// record for a descriptor's system, public-input count, and proof length
// (spec §6 estimate_cost) without parsing or verifying anything.
func (v *Verifier) EstimateCost(proofSystem upd.ProofSystem, publicInputsCount uint16, proofLength uint32) cost.Record {
	return cost.Estimate(toCostSystem(proofSystem), publicInputsCount, proofLength)
}

// Verify runs the full dispatch algorithm against a UniversalProof byte
// blob (spec §6 verify): parse, bound-check, look up the VK, estimate
// cost, and route to the matching verifier.
func (v *Verifier) Verify(raw []byte) (Outcome, error) {
	return v.engine.Verify(raw)
}

// VerifyBatch runs Verify across a batch of UniversalProof blobs, applying
// the batch cost discount when the batch is homogeneous (spec §8
// Supplemented Features).
func (v *Verifier) VerifyBatch(proofs [][]byte) ([]Outcome, cost.Record) {
	return v.engine.VerifyBatch(proofs)
}

func toCostSystem(s upd.ProofSystem) cost.ProofSystem {
	switch s {
	case upd.ProofSystemGroth16:
		return cost.SystemGroth16
	case upd.ProofSystemPlonk:
		return cost.SystemPLONK
	default:
		return cost.SystemSTARK
	}
}
