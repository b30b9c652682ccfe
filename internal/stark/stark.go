// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stark

import (
	"math/big"

	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/transcript"
	"github.com/luxfi/uzkv/internal/verr"
)

// Verify checks a generic AIR + FRI proof against vk (spec §4.8): it
// reseeds the transcript in the prover's commit order, recomputes the
// composition challenges and out-of-domain point, checks DEEP consistency
// between ood_trace_evals and ood_constraint_eval, then authenticates and
// folds every query down to the final low-degree polynomial.
//
// lastLayerDegreeBound and numQueriesFloor carry the two STARK-only config
// values spec §6 names (last_layer_degree_bound, stark_num_queries): the
// former caps the final polynomial's degree, the latter is the minimum
// query count the security policy requires a VK to declare. Both are plain
// bounds with no disable sentinel — a caller exercising the verifier
// without a policy in scope (this package's own algebra tests) passes the
// loosest value that still holds for its fixture.
func Verify(vk *VerifyingKey, proof *Proof, publicInputs []field.Fr, lastLayerDegreeBound uint32, numQueriesFloor uint16) (bool, error) {
	if vk.FoldingFactor != 2 {
		return false, verr.New(verr.KindUnsupportedSystem, "folding_factor", nil)
	}
	if vk.TraceColumns == 0 || vk.TraceLength == 0 || vk.BlowupFactor == 0 {
		return false, verr.New(verr.KindVkShapeMismatch, "trace_shape", nil)
	}
	if vk.NumQueries < numQueriesFloor {
		return false, verr.New(verr.KindVkShapeMismatch, "num_queries", nil)
	}

	ch, err := transcript.New(transcript.HashKeccak256, "UZKV-STARK-v2")
	if err != nil {
		return false, err
	}

	for _, pi := range publicInputs {
		b := pi.Bytes32()
		ch.Absorb("public_input", b[:])
	}

	ch.Absorb("trace_commitment", proof.TraceCommitment[:])
	gamma := ch.Challenge("composition")
	weights := make([]field.Fr, len(vk.Constraints))
	power := gamma
	for i := range weights {
		weights[i] = power
		power = power.Mul(gamma)
	}

	ch.Absorb("constraint_commitment", proof.ConstraintCommitment[:])
	// z itself is never used arithmetically below: the prover's
	// ood_trace_evals/ood_constraint_eval already are the evaluations at z,
	// and DEEP consistency only needs to recompute the AIR combination from
	// them, not re-derive z's point value. Squeezing it still binds every
	// later challenge to the commitments seen so far.
	_ = ch.Challenge("z")

	for _, e := range proof.OodTraceEvals {
		b := e.Value.Bytes32()
		ch.Absorb("ood_trace_eval", b[:])
	}
	ocb := proof.OodConstraintEval.Bytes32()
	ch.Absorb("ood_constraint_eval", ocb[:])

	if !verifyDeepConsistency(vk, proof, weights) {
		return false, nil
	}

	numRounds := len(proof.FriLayerRoots) + 1
	for _, root := range proof.FriLayerRoots {
		ch.Absorb("fri_layer", root[:])
	}
	betas := make([]field.Fr, numRounds)
	for i := range betas {
		betas[i] = ch.Challenge("fri_fold")
	}

	for _, coeff := range proof.FinalPolynomial {
		b := coeff.Bytes32()
		ch.Absorb("final_poly_coeff", b[:])
	}

	domainSize := uint64(vk.TraceLength) * uint64(vk.BlowupFactor)
	finalDomainSize := domainSize >> uint(numRounds)
	if finalDomainSize == 0 || uint64(len(proof.FinalPolynomial)) > finalDomainSize {
		return false, verr.New(verr.KindVkShapeMismatch, "final_polynomial", nil)
	}
	degree := uint32(0)
	if len(proof.FinalPolynomial) > 0 {
		degree = uint32(len(proof.FinalPolynomial) - 1)
	}
	if degree > lastLayerDegreeBound {
		return false, verr.New(verr.KindVkShapeMismatch, "final_polynomial_degree", nil)
	}

	if uint64(vk.NumQueries) != uint64(len(proof.Queries)) {
		return false, verr.New(verr.KindMalformedDescriptor, "query_count", nil)
	}

	for _, q := range proof.Queries {
		expected := ch.Challenge("query_position")
		expectedPos := new(big.Int).Mod(expected.Big(), new(big.Int).SetUint64(domainSize)).Uint64()
		if expectedPos != q.Position {
			return false, nil
		}

		ok, err := verifyQuery(vk, proof, q, weights, betas, domainSize)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

// verifyDeepConsistency recomputes the weighted composition value from the
// out-of-domain trace evaluations and checks it equals the proof's single
// ood_constraint_eval (spec §4.8 step 2's DEEP check). Both a missing trace
// cell and a mismatched composition value are ordinary rejections, not
// boundary errors (spec §4.8: these failure kinds all yield rejected
// proofs) — the caller turns a false return into (false, nil).
func verifyDeepConsistency(vk *VerifyingKey, proof *Proof, weights []field.Fr) bool {
	lookup := oodLookup(proof.OodTraceEvals)
	acc, ok := composeConstraints(vk.Constraints, weights, lookup, alwaysActive)
	if !ok {
		return false
	}
	return acc.Equal(proof.OodConstraintEval)
}

func oodLookup(evals []OodTraceEval) traceLookup {
	index := make(map[TraceOffset]field.Fr, len(evals))
	for _, e := range evals {
		index[e.Offset] = e.Value
	}
	return func(offset TraceOffset) (field.Fr, bool) {
		v, ok := index[offset]
		return v, ok
	}
}

// verifyQuery authenticates one query's trace rows and composition value
// against the committed roots, checks the AIR recomputed from those rows
// matches the authenticated composition value, then verifies the FRI
// folding chain down to the final polynomial.
func verifyQuery(vk *VerifyingKey, proof *Proof, q Query, weights, betas []field.Fr, domainSize uint64) (bool, error) {
	rowLookup := make(map[TraceOffset]field.Fr, len(q.TraceRows)*int(vk.TraceColumns))
	for _, row := range q.TraceRows {
		pos := (q.Position + uint64(int64(row.RowOffset)*int64(vk.BlowupFactor))) % domainSize
		if !verifyMerklePath(proof.TraceCommitment, pos, traceRowLeaf(row.Values), row.Proof) {
			return false, nil
		}
		for col, v := range row.Values {
			rowLookup[TraceOffset{Col: uint16(col), RowOffset: row.RowOffset}] = v
		}
	}

	lookup := func(offset TraceOffset) (field.Fr, bool) {
		v, ok := rowLookup[offset]
		return v, ok
	}
	acc, ok := composeConstraints(vk.Constraints, weights, lookup, alwaysActive)
	if !ok {
		return false, nil
	}
	if !acc.Equal(q.ConstraintValue) {
		return false, nil
	}

	return verifyFriQuery(vk, proof, q, betas)
}

func traceRowLeaf(values []field.Fr) []byte {
	out := make([]byte, 0, 32*len(values))
	for _, v := range values {
		b := v.Bytes32()
		out = append(out, b[:]...)
	}
	return out
}
