// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cost implements the deterministic cost model (spec §4.5): a
// pure function of a descriptor's system, public-input count, and proof
// length, plus batch discounting for homogeneous batches.
package cost

import "github.com/holiman/uint256"

// Params are the published per-system cost parameters (spec §4.5 table).
type Params struct {
	Base     uint64
	PerInput uint64
	PerByte  uint64
}

// ProofSystem mirrors upd.ProofSystem without importing it, keeping this
// package free of a dependency on the codec it is independent from (spec
// §8 property 4: cost depends only on a fixed set of UPD fields).
type ProofSystem uint8

const (
	SystemGroth16 ProofSystem = 0
	SystemPLONK   ProofSystem = 1
	SystemSTARK   ProofSystem = 2
)

var table = map[ProofSystem]Params{
	SystemGroth16: {Base: 250_000, PerInput: 40_000, PerByte: 0},
	SystemPLONK:   {Base: 350_000, PerInput: 10_000, PerByte: 0},
	SystemSTARK:   {Base: 200_000, PerInput: 5_000, PerByte: 10},
}

// Record is the { base, per_input, per_byte, estimated_total } tuple
// returned by estimate_cost (spec §6).
type Record struct {
	Base            uint64
	PerInput        uint64
	PerByte         uint64
	EstimatedTotal  uint64
}

// Estimate computes the single-proof cost record for a descriptor's
// system, public-input count, and proof length (spec §4.5). It never
// inspects proof or public-input contents.
func Estimate(system ProofSystem, publicInputsCount uint16, proofLength uint32) Record {
	p := table[system]

	total := uint256.NewInt(p.Base)
	inputs := uint256.NewInt(p.PerInput)
	inputs.Mul(inputs, uint256.NewInt(uint64(publicInputsCount)))
	total.Add(total, inputs)

	bytesCost := uint256.NewInt(p.PerByte)
	bytesCost.Mul(bytesCost, uint256.NewInt(uint64(proofLength)))
	total.Add(total, bytesCost)

	return Record{
		Base:           p.Base,
		PerInput:       p.PerInput,
		PerByte:        p.PerByte,
		EstimatedTotal: total.Uint64(),
	}
}

// BatchDiscount returns the multiplier applied to N homogeneous proofs'
// summed cost: 1 - 0.05*(N-1), floored at 0.30 (spec §4.5's "5% discount
// per additional proof, clamped at 30%" — the floor is the multiplier's
// minimum, not its discount; see DESIGN.md for the worked N=10 check).
func BatchDiscount(n int) float64 {
	if n <= 0 {
		return 1
	}
	d := 1 - 0.05*float64(n-1)
	if d < 0.30 {
		return 0.30
	}
	return d
}

// EstimateBatch sums Estimate across identical descriptors and applies
// BatchDiscount to the total (spec §8 scenario: "Batch discount").
func EstimateBatch(system ProofSystem, publicInputsCount uint16, proofLength uint32, n int) uint64 {
	single := Estimate(system, publicInputsCount, proofLength).EstimatedTotal
	total := uint256.NewInt(single)
	total.Mul(total, uint256.NewInt(uint64(n)))
	discounted := float64(total.Uint64()) * BatchDiscount(n)
	return uint64(discounted)
}

// RequiredGas is EstimatedTotal under a gas-charging name: a host embedding
// the engine behind a precompile-style boundary calls this before running
// Verify, the same way the on-chain zkVerifyPrecompile.RequiredGas checks
// suppliedGas against a per-operation base-plus-per-input cost ahead of
// Run. Unlike that precompile's per-system constant tables, the base and
// per-input terms here are the published cost table's, so a host never has
// to keep a second copy of the per-system costs in sync with Estimate.
func RequiredGas(system ProofSystem, publicInputsCount uint16, proofLength uint32) uint64 {
	return Estimate(system, publicInputsCount, proofLength).EstimatedTotal
}
