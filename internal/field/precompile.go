// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// PrecompileHost abstracts the single host call every on-chain runtime must
// provide: a static call to a fixed address with ABI-free byte input,
// returning raw byte output (spec §4.1, §6).
type PrecompileHost interface {
	StaticCall(address [20]byte, input []byte) ([]byte, error)
}

// Well-known BN254 precompile addresses (spec §6).
var (
	AddressG1Add         = addr(0x06)
	AddressG1Mul         = addr(0x07)
	AddressPairingProduct = addr(0x08)
)

func addr(last byte) [20]byte {
	var a [20]byte
	a[19] = last
	return a
}

// Precompile is the Backend used by the constrained on-chain WASM runtime:
// every operation is delegated to a host-provided precompile rather than
// performed in-process.
type Precompile struct {
	Host PrecompileHost
}

var _ Backend = Precompile{}

func (p Precompile) DecodeG1(b []byte) (G1, error) {
	if len(b) != 64 {
		return G1{}, ErrCurvePointInvalid
	}
	// The precompile surface has no dedicated "is on curve" call, so
	// decoding verifies the curve equation locally using the point's raw
	// field coordinates, without a host call. No separate subgroup check
	// is made: BN254's G1 cofactor is 1, so any point on the curve is
	// already in the r-order subgroup.
	var g bn254.G1Affine
	if err := g.Unmarshal(b); err != nil {
		return G1{}, ErrCurvePointInvalid
	}
	if !g.IsOnCurve() {
		return G1{}, ErrCurvePointInvalid
	}
	var out G1
	copy(out.Bytes[:], b)
	return out, nil
}

func (p Precompile) DecodeG2(b []byte) (G2, error) {
	if len(b) != 128 {
		return G2{}, ErrCurvePointInvalid
	}
	var g bn254.G2Affine
	if err := g.Unmarshal(b); err != nil {
		return G2{}, ErrCurvePointInvalid
	}
	if !g.IsOnCurve() {
		return G2{}, ErrCurvePointInvalid
	}
	// Unlike G1, BN254's G2 cofactor is not 1 and the precompile surface
	// (spec §6) exposes no G2 scalar multiplication, so a true subgroup
	// check cannot be built from host calls alone. Per spec §4.1 we fall
	// back to the pairing-based probe below: e(G1, Q) is only structurally
	// meaningful (lands in the pairing's target subgroup) when Q is itself
	// r-torsion, so a failed pairing call here is treated as a decode
	// failure rather than silently accepted.
	if ok, err := p.pairingProbe(g); err != nil || !ok {
		return G2{}, ErrCurvePointInvalid
	}
	var out G2
	copy(out.Bytes[:], b)
	return out, nil
}

// pairingProbe issues one extra PAIRING_PRODUCT call pairing the decoded
// point against the canonical G1 generator so at least one host pairing
// evaluation is forced to succeed structurally before the point is trusted
// downstream.
func (p Precompile) pairingProbe(q bn254.G2Affine) (bool, error) {
	gen := g1Generator()
	genBytes := fromG1Affine(gen)
	var qBytes G2
	b := q.RawBytes()
	copy(qBytes.Bytes[:], b[:])
	negGen, err := Native{}.NegG1(genBytes)
	if err != nil {
		return false, err
	}
	return p.PairingCheck([]G1{genBytes, negGen}, []G2{qBytes, qBytes})
}

func (p Precompile) AddG1(a, b G1) (G1, error) {
	input := make([]byte, 0, 128)
	input = append(input, a.Bytes[:]...)
	input = append(input, b.Bytes[:]...)
	out, err := p.Host.StaticCall(AddressG1Add, input)
	if err != nil {
		return G1{}, ErrPairingPrecompileFailure
	}
	if len(out) != 64 {
		return G1{}, ErrPairingPrecompileFailure
	}
	var res G1
	copy(res.Bytes[:], out)
	return res, nil
}

func (p Precompile) NegG1(a G1) (G1, error) {
	// No dedicated negation precompile exists; negation is a cheap local
	// field-coordinate flip (y -> p-y), computed without a host round trip.
	var pt bn254.G1Affine
	if err := pt.Unmarshal(a.Bytes[:]); err != nil {
		return G1{}, ErrCurvePointInvalid
	}
	var neg bn254.G1Affine
	neg.Neg(&pt)
	return fromG1Affine(neg), nil
}

func (p Precompile) ScalarMulG1(a G1, s Fr) (G1, error) {
	input := make([]byte, 0, 96)
	input = append(input, a.Bytes[:]...)
	sb := s.Bytes32()
	input = append(input, sb[:]...)
	out, err := p.Host.StaticCall(AddressG1Mul, input)
	if err != nil {
		return G1{}, ErrPairingPrecompileFailure
	}
	if len(out) != 64 {
		return G1{}, ErrPairingPrecompileFailure
	}
	var res G1
	copy(res.Bytes[:], out)
	return res, nil
}

func (p Precompile) PairingCheck(g1 []G1, g2 []G2) (bool, error) {
	if len(g1) != len(g2) || len(g1) == 0 {
		return false, ErrPairingPrecompileFailure
	}
	input := make([]byte, 0, len(g1)*192)
	for i := range g1 {
		input = append(input, g1[i].Bytes[:]...)
		input = append(input, g2[i].Bytes[:]...)
	}
	out, err := p.Host.StaticCall(AddressPairingProduct, input)
	if err != nil {
		return false, ErrPairingPrecompileFailure
	}
	if len(out) != 32 {
		return false, ErrPairingPrecompileFailure
	}
	return binary.BigEndian.Uint64(out[24:32]) == 1 && allZero(out[:24]), nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// MockHost is a PrecompileHost that performs the identical math as Native,
// letting tests exercise Precompile's wire encoding without a real chain
// and letting callers run both backends in-process to assert spec §8
// property 3 (backend equivalence).
type MockHost struct{}

var _ PrecompileHost = MockHost{}

func (MockHost) StaticCall(address [20]byte, input []byte) ([]byte, error) {
	switch address {
	case AddressG1Add:
		if len(input) != 128 {
			return nil, ErrCurvePointInvalid
		}
		var a, b G1
		copy(a.Bytes[:], input[:64])
		copy(b.Bytes[:], input[64:])
		res, err := Native{}.AddG1(a, b)
		if err != nil {
			return nil, err
		}
		return res.Bytes[:], nil
	case AddressG1Mul:
		if len(input) != 96 {
			return nil, ErrCurvePointInvalid
		}
		var a G1
		copy(a.Bytes[:], input[:64])
		s, err := FrFromBytes(input[64:96])
		if err != nil {
			return nil, err
		}
		res, err := Native{}.ScalarMulG1(a, s)
		if err != nil {
			return nil, err
		}
		return res.Bytes[:], nil
	case AddressPairingProduct:
		if len(input)%192 != 0 || len(input) == 0 {
			return nil, ErrCurvePointInvalid
		}
		n := len(input) / 192
		g1s := make([]G1, n)
		g2s := make([]G2, n)
		for i := 0; i < n; i++ {
			off := i * 192
			copy(g1s[i].Bytes[:], input[off:off+64])
			copy(g2s[i].Bytes[:], input[off+64:off+192])
		}
		ok, err := Native{}.PairingCheck(g1s, g2s)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 32)
		if ok {
			out[31] = 1
		}
		return out, nil
	default:
		return nil, ErrBackendUnavailable
	}
}
