// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stark

import (
	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/verr"
)

func two() field.Fr { return field.FrOne().Add(field.FrOne()) }

// domainPoint returns offset·generator^position, the field element at a
// given index of an evaluation domain described by (offset, generator).
func domainPoint(offset, generator field.Fr, position uint64) field.Fr {
	return offset.Mul(generator.Pow(position))
}

// friFold applies spec §4.8's folding formula (f(x)+f(−x))/2 + αℓ·(f(x)−f(−x))/(2x)
// where low = f(x), high = f(−x) and alpha is the round's challenge αℓ.
func friFold(low, high, alpha, x field.Fr) (field.Fr, error) {
	twoInv, err := two().Inverse()
	if err != nil {
		return field.Fr{}, err
	}
	xInv, err := x.Inverse()
	if err != nil {
		return field.Fr{}, verr.New(verr.KindDomainSingularity, "fri_fold_x", nil)
	}
	sumHalf := low.Add(high).Mul(twoInv)
	diffHalf := low.Sub(high).Mul(twoInv).Mul(xInv)
	return sumHalf.Add(alpha.Mul(diffHalf)), nil
}

// evalPoly evaluates coefficients (constant term first) at x via Horner's
// method, used for the final FRI layer's direct low-degree polynomial.
func evalPoly(coeffs []field.Fr, x field.Fr) field.Fr {
	acc := field.FrZero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(coeffs[i])
	}
	return acc
}

// verifyFriQuery walks one query's folding chain from the committed
// composition polynomial down to the final low-degree polynomial,
// checking every intermediate Merkle authentication and every fold
// arithmetic step (spec §4.8 step 3).
func verifyFriQuery(vk *VerifyingKey, proof *Proof, q Query, betas []field.Fr) (bool, error) {
	domainSize := uint64(vk.TraceLength) * uint64(vk.BlowupFactor)
	generator := vk.DomainGen
	offset := vk.DomainOffset

	// Round 0's pair is authenticated directly against ConstraintCommitment
	// (the un-folded composition polynomial); FriLayerRoots[i] then commits
	// the pair that round i+1 consumes, so there is always one more round
	// than there are intermediate layer roots — the final round's folded
	// output is checked against FinalPolynomial instead of a Merkle root.
	if len(q.FriPairs) != len(proof.FriLayerRoots)+1 {
		return false, verr.New(verr.KindMalformedDescriptor, "fri_pairs", nil)
	}

	half := domainSize / 2
	pos := q.Position
	isHigh := pos >= half
	pairIdx := pos
	if isHigh {
		pairIdx -= half
	}

	pair := q.FriPairs[0]
	if !verifyMerklePath(proof.ConstraintCommitment, pairIdx, pairLeaf(pair.Low, pair.High), pair.Proof) {
		return false, nil
	}
	var current field.Fr
	if isHigh {
		current = pair.High
	} else {
		current = pair.Low
	}
	if !current.Equal(q.ConstraintValue) {
		return false, nil
	}

	for round := 0; round < len(q.FriPairs); round++ {
		x := domainPoint(offset, generator, pairIdx)
		folded, err := friFold(q.FriPairs[round].Low, q.FriPairs[round].High, betas[round], x)
		if err != nil {
			return false, err
		}

		domainSize = half
		generator = generator.Mul(generator)
		offset = offset.Mul(offset)
		half = domainSize / 2
		if half == 0 {
			return false, verr.New(verr.KindDomainSingularity, "fri_domain", nil)
		}
		newPos := pairIdx
		newIsHigh := newPos >= half
		newPairIdx := newPos
		if newIsHigh {
			newPairIdx -= half
		}

		if round == len(q.FriPairs)-1 {
			finalX := domainPoint(offset, generator, newPairIdx)
			expected := evalPoly(proof.FinalPolynomial, finalX)
			if !folded.Equal(expected) {
				return false, nil
			}
			break
		}

		next := q.FriPairs[round+1]
		if !verifyMerklePath(proof.FriLayerRoots[round], newPairIdx, pairLeaf(next.Low, next.High), next.Proof) {
			return false, nil
		}
		var nextVal field.Fr
		if newIsHigh {
			nextVal = next.High
		} else {
			nextVal = next.Low
		}
		if !folded.Equal(nextVal) {
			return false, nil
		}
		pairIdx = newPairIdx
	}

	return true, nil
}

func pairLeaf(low, high field.Fr) []byte {
	lb := low.Bytes32()
	hb := high.Bytes32()
	out := make([]byte, 0, 64)
	out = append(out, lb[:]...)
	out = append(out, hb[:]...)
	return out
}
