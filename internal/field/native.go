// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// Native is the library-backed Backend used by the native host runtime: it
// performs BN254 arithmetic in-process via gnark-crypto instead of
// delegating to host precompiles. Semantics must be bit-identical to
// Precompile (spec §4.1, §8 property 3).
type Native struct{}

var _ Backend = Native{}

func (Native) DecodeG1(b []byte) (G1, error) {
	if len(b) != 64 {
		return G1{}, ErrCurvePointInvalid
	}
	var p bn254.G1Affine
	if err := p.Unmarshal(b); err != nil {
		return G1{}, ErrCurvePointInvalid
	}
	if !p.IsOnCurve() {
		return G1{}, ErrCurvePointInvalid
	}
	// G1's cofactor is 1 for BN254, so curve membership already implies
	// subgroup membership; IsInSubGroup is kept for defense in depth.
	if !p.IsInSubGroup() {
		return G1{}, ErrCurvePointInvalid
	}
	var out G1
	copy(out.Bytes[:], b)
	return out, nil
}

func (Native) DecodeG2(b []byte) (G2, error) {
	if len(b) != 128 {
		return G2{}, ErrCurvePointInvalid
	}
	var p bn254.G2Affine
	if err := p.Unmarshal(b); err != nil {
		return G2{}, ErrCurvePointInvalid
	}
	if !p.IsOnCurve() {
		return G2{}, ErrCurvePointInvalid
	}
	if !p.IsInSubGroup() {
		return G2{}, ErrCurvePointInvalid
	}
	var out G2
	copy(out.Bytes[:], b)
	return out, nil
}

func (Native) AddG1(a, b G1) (G1, error) {
	pa, err := toG1Affine(a)
	if err != nil {
		return G1{}, err
	}
	pb, err := toG1Affine(b)
	if err != nil {
		return G1{}, err
	}
	var ja, jb bn254.G1Jac
	ja.FromAffine(&pa)
	jb.FromAffine(&pb)
	ja.AddAssign(&jb)
	var res bn254.G1Affine
	res.FromJacobian(&ja)
	return fromG1Affine(res), nil
}

func (Native) NegG1(a G1) (G1, error) {
	pa, err := toG1Affine(a)
	if err != nil {
		return G1{}, err
	}
	var neg bn254.G1Affine
	neg.Neg(&pa)
	return fromG1Affine(neg), nil
}

func (Native) ScalarMulG1(a G1, s Fr) (G1, error) {
	pa, err := toG1Affine(a)
	if err != nil {
		return G1{}, err
	}
	var res bn254.G1Affine
	res.ScalarMultiplication(&pa, s.Big())
	return fromG1Affine(res), nil
}

func (Native) PairingCheck(g1 []G1, g2 []G2) (bool, error) {
	if len(g1) != len(g2) || len(g1) == 0 {
		return false, ErrPairingPrecompileFailure
	}
	as := make([]bn254.G1Affine, len(g1))
	bs := make([]bn254.G2Affine, len(g2))
	for i := range g1 {
		pa, err := toG1Affine(g1[i])
		if err != nil {
			return false, err
		}
		pb, err := toG2Affine(g2[i])
		if err != nil {
			return false, err
		}
		as[i] = pa
		bs[i] = pb
	}
	ok, err := bn254.PairingCheck(as, bs)
	if err != nil {
		return false, ErrPairingPrecompileFailure
	}
	return ok, nil
}

func toG1Affine(g G1) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if err := p.Unmarshal(g.Bytes[:]); err != nil {
		return bn254.G1Affine{}, ErrCurvePointInvalid
	}
	return p, nil
}

func toG2Affine(g G2) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if err := p.Unmarshal(g.Bytes[:]); err != nil {
		return bn254.G2Affine{}, ErrCurvePointInvalid
	}
	return p, nil
}

func fromG1Affine(p bn254.G1Affine) G1 {
	var out G1
	b := p.RawBytes()
	copy(out.Bytes[:], b[:])
	return out
}

// g1Generator returns BN254's canonical G1 generator (1, 2), used by the
// precompile provider's residual G2 validation probe.
func g1Generator() bn254.G1Affine {
	_, _, g1, _ := bn254.Generators()
	return g1
}
