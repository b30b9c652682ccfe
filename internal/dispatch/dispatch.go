// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dispatch implements the verification boundary (spec §4.4): it
// parses a UniversalProof, enforces every bound the policy declares, looks
// up the registered verification key, estimates cost, and routes to the
// matching backend verifier. Everything upstream of the chosen verifier is
// pure and side-effect free; the only stateful read is the registry lookup.
package dispatch

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/uzkv/internal/cost"
	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/groth16"
	"github.com/luxfi/uzkv/internal/metrics"
	"github.com/luxfi/uzkv/internal/plonk"
	"github.com/luxfi/uzkv/internal/policy"
	"github.com/luxfi/uzkv/internal/registry"
	"github.com/luxfi/uzkv/internal/stark"
	"github.com/luxfi/uzkv/internal/upd"
	"github.com/luxfi/uzkv/internal/verr"
)

// Outcome is the result of one Engine.Verify call (spec §4.4 step 6): a
// dispatcher never retries or fails over, so a rejected proof and an
// accepted proof are both ordinary, non-error outcomes — only an ill-formed
// input (malformed descriptor, invalid point or scalar, VK shape mismatch,
// unsupported hash, domain singularity), an unregistered/mismatched VK, an
// over-budget estimate, a backend failure, or an internal panic produce an
// error instead.
type Outcome struct {
	Accepted bool
	Cost     cost.Record
}

// Engine binds a VK registry, a bound-check policy, and a curve backend
// into one verification boundary. The same Engine is safe for concurrent
// Verify calls; Register (on the underlying registry) must be serialized
// by the caller, matching registry.Registry's own discipline.
type Engine struct {
	Registry *registry.Registry
	Policy   policy.Policy
	Backend  field.Backend
	Logger   *zap.Logger

	// MaxBudget, when non-zero, is the per-call ceiling Verify enforces
	// against the pre-flight cost estimate before any verifier runs (spec
	// §4.4 step 4's optional budget check). Zero means no ceiling.
	MaxBudget uint64
}

// New constructs an Engine. A nil logger is replaced with a no-op one so
// callers never need a nil check before logging.
func New(reg *registry.Registry, pol policy.Policy, backend field.Backend, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Registry: reg, Policy: pol, Backend: backend, Logger: logger}
}

// Verify runs the full dispatch algorithm against one UniversalProof blob
// (spec §4.4): parse, bound-check, look up the VK, estimate cost, and route
// to the matching verifier. A verifier panic — which should never happen
// for a backend honoring field.Backend's contract, but which an engine
// embedded in a larger host must never let escape — is recovered and
// surfaced as verr.KindVerifierPanic.
func (e *Engine) Verify(raw []byte) (outcome Outcome, err error) {
	start := time.Now()
	systemLabel := "unknown"
	defer func() {
		metrics.VerifyDuration.WithLabelValues(systemLabel).Observe(time.Since(start).Seconds())
		result := "rejected"
		if err != nil {
			result = "error"
		} else if outcome.Accepted {
			result = "accepted"
		}
		metrics.VerificationsTotal.WithLabelValues(systemLabel, result).Inc()
	}()

	desc, perr := upd.Parse(raw)
	if perr != nil {
		return Outcome{}, perr
	}
	systemLabel = proofSystemLabel(desc.ProofSystem)

	if err := e.checkBounds(desc); err != nil {
		return Outcome{}, err
	}

	vkBlob, err := e.Registry.Lookup(uint8(desc.ProofSystem), desc.ProgramID, desc.VKCommitment)
	if err != nil {
		return Outcome{}, err
	}

	record := cost.Estimate(toCostSystem(desc.ProofSystem), desc.PublicInputsCount, desc.ProofLength)
	if e.MaxBudget != 0 && record.EstimatedTotal > e.MaxBudget {
		return Outcome{Cost: record}, verr.New(verr.KindOverBudget, "estimated_total", nil)
	}

	accepted, verifyErr := e.runVerifier(desc, vkBlob)
	if verifyErr != nil {
		// Decode and backend failures arrive as the field package's
		// sentinel errors; map them onto their verr Kinds.
		var ve *verr.Error
		if !errors.As(verifyErr, &ve) {
			kind := verr.KindBackendUnavailable
			switch {
			case errors.Is(verifyErr, field.ErrCurvePointInvalid):
				kind = verr.KindCurvePointInvalid
			case errors.Is(verifyErr, field.ErrScalarOutOfField):
				kind = verr.KindScalarOutOfField
			case errors.Is(verifyErr, field.ErrPairingPrecompileFailure):
				kind = verr.KindPairingPrecompileFailure
			}
			verifyErr = verr.New(kind, "verify", verifyErr)
		}
		return Outcome{Cost: record}, verifyErr
	}
	return Outcome{Accepted: accepted, Cost: record}, nil
}

// VerifyBatch runs Verify across a batch of UniversalProof blobs and
// reports their combined cost (spec §8 "Supplemented Features" / §4.5
// batch scenario). When every blob shares the same proof system,
// public-input count, and proof length, the combined cost applies
// cost.BatchDiscount the way a single homogeneous batch submission would;
// a mixed batch instead reports the plain per-proof sum, since the
// discount is defined only over identical descriptors (spec §4.5). Proofs
// that fail to parse are reflected as a zero-value, unaccepted Outcome at
// that index — VerifyBatch itself never errors.
func (e *Engine) VerifyBatch(proofs [][]byte) ([]Outcome, cost.Record) {
	outcomes := make([]Outcome, len(proofs))
	shapes := make([]upd.Descriptor, len(proofs))
	homogeneous := len(proofs) > 0

	for i, raw := range proofs {
		desc, perr := upd.Parse(raw)
		if perr != nil {
			homogeneous = false
			outcome, _ := e.Verify(raw)
			outcomes[i] = outcome
			continue
		}
		shapes[i] = *desc
		if i > 0 && (shapes[i].ProofSystem != shapes[0].ProofSystem ||
			shapes[i].PublicInputsCount != shapes[0].PublicInputsCount ||
			shapes[i].ProofLength != shapes[0].ProofLength) {
			homogeneous = false
		}
		outcome, _ := e.Verify(raw)
		outcomes[i] = outcome
	}

	if !homogeneous {
		var total uint64
		for _, o := range outcomes {
			total += o.Cost.EstimatedTotal
		}
		return outcomes, cost.Record{EstimatedTotal: total}
	}

	total := cost.EstimateBatch(toCostSystem(shapes[0].ProofSystem), shapes[0].PublicInputsCount, shapes[0].ProofLength, len(proofs))
	return outcomes, cost.Record{EstimatedTotal: total}
}

func (e *Engine) checkBounds(desc *upd.Descriptor) error {
	if desc.RecursionDepth > e.Policy.MaxRecursionDepth {
		return verr.New(verr.KindMalformedDescriptor, "recursion_depth", nil)
	}
	if desc.ProofLength > e.Policy.MaxProofLength {
		return verr.New(verr.KindMalformedDescriptor, "proof_length", nil)
	}
	if desc.PublicInputsCount > e.Policy.MaxPublicInputs {
		return verr.New(verr.KindMalformedDescriptor, "public_inputs_count", nil)
	}
	return nil
}

func (e *Engine) runVerifier(desc *upd.Descriptor, vkBlob []byte) (accepted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			accepted = false
			err = verr.New(verr.KindVerifierPanic, "verify", nil)
		}
	}()

	publicInputs, err := decodePublicInputs(desc.PublicInputs)
	if err != nil {
		return false, err
	}

	// The PLONK and STARK verifiers build Keccak256 transcripts only.
	if desc.ProofSystem != upd.ProofSystemGroth16 && desc.HashFunction != upd.HashKeccak256 {
		return false, verr.New(verr.KindUnsupportedHash, "hash_function_id", nil)
	}

	switch desc.ProofSystem {
	case upd.ProofSystemGroth16:
		vk, err := groth16.ParseVerifyingKey(e.Backend, vkBlob)
		if err != nil {
			return false, err
		}
		proof, err := groth16.ParseProof(e.Backend, desc.ProofPayload)
		if err != nil {
			return false, err
		}
		return groth16.Verify(e.Backend, vk, proof, publicInputs)

	case upd.ProofSystemPlonk:
		vk, err := plonk.ParseVerifyingKey(e.Backend, vkBlob)
		if err != nil {
			return false, err
		}
		proof, err := plonk.ParseProof(e.Backend, desc.ProofPayload)
		if err != nil {
			return false, err
		}
		return plonk.Verify(e.Backend, vk, proof, publicInputs)

	case upd.ProofSystemStark:
		vk, err := stark.ParseVerifyingKey(vkBlob)
		if err != nil {
			return false, err
		}
		proof, err := stark.ParseProof(desc.ProofPayload)
		if err != nil {
			return false, err
		}
		return stark.Verify(vk, proof, publicInputs, e.Policy.LastLayerDegreeBound, e.Policy.StarkNumQueries)

	default:
		return false, verr.New(verr.KindUnsupportedSystem, "proof_system_id", nil)
	}
}

func decodePublicInputs(raw [][32]byte) ([]field.Fr, error) {
	out := make([]field.Fr, len(raw))
	for i, b := range raw {
		f, err := field.FrFromBytes(b[:])
		if err != nil {
			return nil, verr.New(verr.KindScalarOutOfField, "public_inputs", nil)
		}
		out[i] = f
	}
	return out, nil
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

func proofSystemLabel(s upd.ProofSystem) string {
	switch s {
	case upd.ProofSystemGroth16:
		return "groth16"
	case upd.ProofSystemPlonk:
		return "plonk"
	case upd.ProofSystemStark:
		return "stark"
	default:
		return "unknown"
	}
}
