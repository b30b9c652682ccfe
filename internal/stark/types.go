// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stark implements the generic AIR + FRI verifier (spec §4.8): a
// data-driven constraint evaluator that accepts any AIR schema carried in
// the VK, a DEEP out-of-domain consistency check, and a Merkle-authenticated
// FRI query phase. Unlike internal/groth16 and internal/plonk, it is not
// polymorphic over field.Backend: STARK verification never touches an
// elliptic curve, only scalar field arithmetic and Merkle trees. Its
// transcript and Merkle hash are fixed to Keccak256.
package stark

import (
	"encoding/binary"

	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/verr"
)

// DomainSelector names which rows of the trace domain a constraint must
// vanish on (spec §4.8).
type DomainSelector uint8

const (
	SelectorFull DomainSelector = iota
	SelectorBoundaryFirst
	SelectorBoundaryLast
	SelectorTransition
)

// TraceOffset identifies one (column, row offset) trace cell referenced by
// a constraint, e.g. (col=2, row_offset=1) for "the next row of column 2".
type TraceOffset struct {
	Col       uint16
	RowOffset int32
}

// AirConstraint is one data-driven constraint row: it evaluates to
// Σⱼ coefficients[j] · trace[offsets[j]]^powers[j] and must vanish on every
// row selected by Selector (spec §4.8). All three slices share length K.
type AirConstraint struct {
	Coefficients []field.Fr
	Offsets      []TraceOffset
	Powers       []uint8
	Selector     DomainSelector
}

// VerifyingKey is the AIR schema (spec §4.8): trace shape, the constraint
// list, FRI parameters, and the LDE domain's generator/offset (needed by
// the verifier to recover the field element at any domain position without
// re-deriving an order-N root of unity itself).
type VerifyingKey struct {
	TraceColumns  uint16
	TraceLength   uint32
	Constraints   []AirConstraint
	FoldingFactor uint8
	NumQueries    uint16
	BlowupFactor  uint32
	DomainOffset  field.Fr
	DomainGen     field.Fr
}

// Proof is the STARK proof (spec §4.8): two Merkle roots, OOD evaluations,
// one Merkle root per FRI folding round, the final low-degree polynomial,
// and one Query per sampled position.
type Proof struct {
	TraceCommitment      [32]byte
	ConstraintCommitment [32]byte
	OodTraceEvals        []OodTraceEval
	OodConstraintEval    field.Fr
	FriLayerRoots        [][32]byte
	FinalPolynomial      []field.Fr
	Queries              []Query
}

// OodTraceEval is one trace cell's value at the out-of-domain point z,
// keyed the same way AirConstraint.Offsets references trace cells so the
// same lookup serves both the OOD check and the query-phase check.
type OodTraceEval struct {
	Offset TraceOffset
	Value  field.Fr
}

// MerkleProof authenticates one leaf against a committed root via a
// sibling path, hashed with Keccak256 and a fixed (left||right) ordering
// (spec §4.8 step 3).
type MerkleProof struct {
	Siblings [][32]byte
}

// TraceRowSample is one authenticated trace row at a given offset relative
// to a query position, carrying every column's value at that row.
type TraceRowSample struct {
	RowOffset int32
	Values    []field.Fr
	Proof     MerkleProof
}

// FriPair is one FRI folding round's authenticated (f(x), f(-x)) leaf pair
// for a query (spec §4.8 step 3's "paired values f(x), f(−x)").
type FriPair struct {
	Low, High field.Fr
	Proof     MerkleProof
}

// Query is everything the verifier needs to check one sampled position:
// the trace rows it authenticates against TraceCommitment, the composition
// value at this position (authenticated implicitly by FriPairs[0], whose
// parity-selected element must equal it), and the FRI fold chain down to
// the final polynomial.
type Query struct {
	Position        uint64
	TraceRows       []TraceRowSample
	ConstraintValue field.Fr
	FriPairs        []FriPair
}

// ParseVerifyingKey decodes the AIR schema: trace_columns(2) ||
// trace_length(4) || folding_factor(1) || num_queries(2) ||
// blowup_factor(4) || domain_offset(32) || domain_gen(32) ||
// constraint_count(4) || constraints...
//
// Each constraint is encoded as k(2) || selector(1) ||
// [coefficient(32) || col(2) || row_offset(4) || power(1)] × k.
func ParseVerifyingKey(blob []byte) (*VerifyingKey, error) {
	const fixed = 2 + 4 + 1 + 2 + 4 + 32 + 32 + 4
	if len(blob) < fixed {
		return nil, verr.New(verr.KindVkShapeMismatch, "vk_blob", nil)
	}

	vk := &VerifyingKey{}
	off := 0
	vk.TraceColumns = binary.BigEndian.Uint16(blob[off:])
	off += 2
	vk.TraceLength = binary.BigEndian.Uint32(blob[off:])
	off += 4
	vk.FoldingFactor = blob[off]
	off++
	vk.NumQueries = binary.BigEndian.Uint16(blob[off:])
	off += 2
	vk.BlowupFactor = binary.BigEndian.Uint32(blob[off:])
	off += 4

	var err error
	vk.DomainOffset, err = field.FrFromBytes(blob[off : off+32])
	if err != nil {
		return nil, verr.New(verr.KindVkShapeMismatch, "domain_offset", err)
	}
	off += 32
	vk.DomainGen, err = field.FrFromBytes(blob[off : off+32])
	if err != nil {
		return nil, verr.New(verr.KindVkShapeMismatch, "domain_gen", err)
	}
	off += 32

	constraintCount := binary.BigEndian.Uint32(blob[off:])
	off += 4

	vk.Constraints = make([]AirConstraint, constraintCount)
	for ci := range vk.Constraints {
		if off+3 > len(blob) {
			return nil, verr.New(verr.KindVkShapeMismatch, "constraints", nil)
		}
		k := int(binary.BigEndian.Uint16(blob[off:]))
		off += 2
		selector := DomainSelector(blob[off])
		off++
		if selector > SelectorTransition {
			return nil, verr.New(verr.KindVkShapeMismatch, "selector", nil)
		}

		c := AirConstraint{
			Coefficients: make([]field.Fr, k),
			Offsets:      make([]TraceOffset, k),
			Powers:       make([]uint8, k),
			Selector:     selector,
		}
		for j := 0; j < k; j++ {
			const termSize = 32 + 2 + 4 + 1
			if off+termSize > len(blob) {
				return nil, verr.New(verr.KindVkShapeMismatch, "constraint_term", nil)
			}
			coeff, err := field.FrFromBytes(blob[off : off+32])
			if err != nil {
				return nil, verr.New(verr.KindVkShapeMismatch, "coefficient", err)
			}
			off += 32
			col := binary.BigEndian.Uint16(blob[off:])
			off += 2
			rowOffset := int32(binary.BigEndian.Uint32(blob[off:]))
			off += 4
			power := blob[off]
			off++

			c.Coefficients[j] = coeff
			c.Offsets[j] = TraceOffset{Col: col, RowOffset: rowOffset}
			c.Powers[j] = power
		}
		vk.Constraints[ci] = c
	}

	if off != len(blob) {
		return nil, verr.New(verr.KindTrailingGarbage, "vk_blob", nil)
	}
	return vk, nil
}

// ParseProof decodes a STARK proof laid out as:
// trace_commitment(32) || constraint_commitment(32) ||
// ood_trace_count(4) || [col(2)||row_offset(4)||value(32)]×count ||
// ood_constraint_eval(32) || fri_layer_count(4) || [root(32)]×count ||
// final_poly_len(4) || [coeff(32)]×len || query_count(4) || queries...
func ParseProof(blob []byte) (*Proof, error) {
	const headFixed = 32 + 32 + 4
	if len(blob) < headFixed {
		return nil, verr.New(verr.KindMalformedDescriptor, "proof_payload", nil)
	}

	p := &Proof{}
	off := 0
	copy(p.TraceCommitment[:], blob[off:off+32])
	off += 32
	copy(p.ConstraintCommitment[:], blob[off:off+32])
	off += 32

	oodCount := binary.BigEndian.Uint32(blob[off:])
	off += 4
	p.OodTraceEvals = make([]OodTraceEval, oodCount)
	for i := range p.OodTraceEvals {
		const size = 2 + 4 + 32
		if off+size > len(blob) {
			return nil, verr.New(verr.KindMalformedDescriptor, "ood_trace_evals", nil)
		}
		col := binary.BigEndian.Uint16(blob[off:])
		off += 2
		rowOffset := int32(binary.BigEndian.Uint32(blob[off:]))
		off += 4
		val, err := field.FrFromBytes(blob[off : off+32])
		if err != nil {
			return nil, verr.New(verr.KindMalformedDescriptor, "ood_trace_evals", err)
		}
		off += 32
		p.OodTraceEvals[i] = OodTraceEval{Offset: TraceOffset{Col: col, RowOffset: rowOffset}, Value: val}
	}

	if off+32 > len(blob) {
		return nil, verr.New(verr.KindMalformedDescriptor, "ood_constraint_eval", nil)
	}
	var err error
	p.OodConstraintEval, err = field.FrFromBytes(blob[off : off+32])
	if err != nil {
		return nil, verr.New(verr.KindMalformedDescriptor, "ood_constraint_eval", err)
	}
	off += 32

	if off+4 > len(blob) {
		return nil, verr.New(verr.KindMalformedDescriptor, "fri_layer_roots", nil)
	}
	layerCount := binary.BigEndian.Uint32(blob[off:])
	off += 4
	p.FriLayerRoots = make([][32]byte, layerCount)
	for i := range p.FriLayerRoots {
		if off+32 > len(blob) {
			return nil, verr.New(verr.KindMalformedDescriptor, "fri_layer_roots", nil)
		}
		copy(p.FriLayerRoots[i][:], blob[off:off+32])
		off += 32
	}

	if off+4 > len(blob) {
		return nil, verr.New(verr.KindMalformedDescriptor, "final_polynomial", nil)
	}
	finalLen := binary.BigEndian.Uint32(blob[off:])
	off += 4
	p.FinalPolynomial = make([]field.Fr, finalLen)
	for i := range p.FinalPolynomial {
		if off+32 > len(blob) {
			return nil, verr.New(verr.KindMalformedDescriptor, "final_polynomial", nil)
		}
		v, err := field.FrFromBytes(blob[off : off+32])
		if err != nil {
			return nil, verr.New(verr.KindMalformedDescriptor, "final_polynomial", err)
		}
		off += 32
		p.FinalPolynomial[i] = v
	}

	if off+4 > len(blob) {
		return nil, verr.New(verr.KindMalformedDescriptor, "queries", nil)
	}
	queryCount := binary.BigEndian.Uint32(blob[off:])
	off += 4
	p.Queries = make([]Query, queryCount)
	for qi := range p.Queries {
		q, newOff, err := parseQuery(blob, off, int(layerCount)+1)
		if err != nil {
			return nil, err
		}
		p.Queries[qi] = q
		off = newOff
	}

	if off != len(blob) {
		return nil, verr.New(verr.KindTrailingGarbage, "proof_payload", nil)
	}
	return p, nil
}

func parseQuery(blob []byte, off, friLayers int) (Query, int, error) {
	q := Query{}
	if off+8+4 > len(blob) {
		return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "query", nil)
	}
	q.Position = binary.BigEndian.Uint64(blob[off:])
	off += 8

	rowCount := binary.BigEndian.Uint32(blob[off:])
	off += 4
	q.TraceRows = make([]TraceRowSample, rowCount)
	for i := range q.TraceRows {
		if off+4+4 > len(blob) {
			return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "trace_row", nil)
		}
		rowOffset := int32(binary.BigEndian.Uint32(blob[off:]))
		off += 4
		colCount := binary.BigEndian.Uint32(blob[off:])
		off += 4
		values := make([]field.Fr, colCount)
		for c := range values {
			if off+32 > len(blob) {
				return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "trace_row_value", nil)
			}
			v, err := field.FrFromBytes(blob[off : off+32])
			if err != nil {
				return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "trace_row_value", err)
			}
			off += 32
			values[c] = v
		}
		proof, newOff, err := parseMerkleProof(blob, off)
		if err != nil {
			return Query{}, 0, err
		}
		off = newOff
		q.TraceRows[i] = TraceRowSample{RowOffset: rowOffset, Values: values, Proof: proof}
	}

	if off+32 > len(blob) {
		return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "constraint_value", nil)
	}
	cv, err := field.FrFromBytes(blob[off : off+32])
	if err != nil {
		return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "constraint_value", err)
	}
	off += 32
	q.ConstraintValue = cv

	q.FriPairs = make([]FriPair, friLayers)
	for i := 0; i < friLayers; i++ {
		if off+64 > len(blob) {
			return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "fri_pair", nil)
		}
		low, err := field.FrFromBytes(blob[off : off+32])
		if err != nil {
			return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "fri_pair", err)
		}
		off += 32
		high, err := field.FrFromBytes(blob[off : off+32])
		if err != nil {
			return Query{}, 0, verr.New(verr.KindMalformedDescriptor, "fri_pair", err)
		}
		off += 32
		proof, newOff, err := parseMerkleProof(blob, off)
		if err != nil {
			return Query{}, 0, err
		}
		off = newOff
		q.FriPairs[i] = FriPair{Low: low, High: high, Proof: proof}
	}

	return q, off, nil
}

func parseMerkleProof(blob []byte, off int) (MerkleProof, int, error) {
	if off+4 > len(blob) {
		return MerkleProof{}, 0, verr.New(verr.KindMalformedDescriptor, "merkle_proof", nil)
	}
	depth := binary.BigEndian.Uint32(blob[off:])
	off += 4
	siblings := make([][32]byte, depth)
	for i := range siblings {
		if off+32 > len(blob) {
			return MerkleProof{}, 0, verr.New(verr.KindMalformedDescriptor, "merkle_proof", nil)
		}
		copy(siblings[i][:], blob[off:off+32])
		off += 32
	}
	return MerkleProof{Siblings: siblings}, off, nil
}
