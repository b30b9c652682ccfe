// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package field exposes a uniform capability set over BN254 scalar and
// group arithmetic so that every verifier in this repository is polymorphic
// over which runtime performs the actual curve math: a precompile-backed
// provider for the constrained on-chain runtime, and a library-backed
// provider for the native host runtime. Both must be bit-identical.
package field

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	gnarkfr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Sentinel failure modes from spec §4.1.
var (
	ErrCurvePointInvalid        = errors.New("field: curve point invalid")
	ErrScalarOutOfField         = errors.New("field: scalar out of field")
	ErrPairingPrecompileFailure = errors.New("field: pairing precompile failure")
	ErrBackendUnavailable       = errors.New("field: backend unavailable")
)

// G1 is an opaque BN254 G1 affine point. Its internal representation is
// provider-specific; callers obtain and consume it only through a Backend.
type G1 struct {
	// Bytes holds the canonical 64-byte (x,y) big-endian uncompressed
	// encoding, which both providers can marshal to and parse from — this
	// is what lets a Native-backed value cross into a Precompile call and
	// vice versa without an extra conversion layer.
	Bytes [64]byte
}

// G2 is an opaque BN254 G2 affine point, canonical 128-byte encoding.
type G2 struct {
	Bytes [128]byte
}

// Fr is a scalar reduced modulo the BN254 scalar field order r.
type Fr struct {
	v big.Int
}

// FrModulus is the BN254 scalar field order r.
var FrModulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// NewFr reduces b modulo r and rejects inputs that were not already
// canonically reduced, matching spec §3 invariant 2 and §4.6's requirement
// that non-reduced scalars are rejected rather than silently wrapped.
func NewFr(b *big.Int) (Fr, error) {
	if b.Sign() < 0 || b.Cmp(FrModulus) >= 0 {
		return Fr{}, ErrScalarOutOfField
	}
	var out Fr
	out.v.Set(b)
	return out, nil
}

// FrFromBytes decodes a 32-byte big-endian scalar, rejecting values >= r.
func FrFromBytes(b []byte) (Fr, error) {
	if len(b) != 32 {
		return Fr{}, ErrScalarOutOfField
	}
	return NewFr(new(big.Int).SetBytes(b))
}

// FrReduce reduces an unbounded big.Int modulo r without rejecting, used
// only for deriving Fiat-Shamir challenges (spec §4.2), which are defined
// as values reduced mod r rather than values that must already be reduced.
func FrReduce(b *big.Int) Fr {
	var out Fr
	out.v.Mod(b, FrModulus)
	return out
}

// Big returns the scalar's big.Int representation.
func (f Fr) Big() *big.Int { return new(big.Int).Set(&f.v) }

// Bytes32 returns the 32-byte big-endian encoding of the scalar.
func (f Fr) Bytes32() [32]byte {
	var out [32]byte
	f.v.FillBytes(out[:])
	return out
}

// FrZero and FrOne are the additive and multiplicative identities, used by
// the PLONK and STARK verifiers' polynomial arithmetic (spec §4.7, §4.8).
func FrZero() Fr { return Fr{} }

func FrOne() Fr {
	var out Fr
	out.v.SetInt64(1)
	return out
}

func (f Fr) element() gnarkfr.Element {
	var e gnarkfr.Element
	e.SetBigInt(&f.v)
	return e
}

func fromElement(e gnarkfr.Element) Fr {
	var out Fr
	e.BigInt(&out.v)
	return out
}

// Add returns f+g mod r.
func (f Fr) Add(g Fr) Fr {
	a, b := f.element(), g.element()
	var sum gnarkfr.Element
	sum.Add(&a, &b)
	return fromElement(sum)
}

// Sub returns f-g mod r.
func (f Fr) Sub(g Fr) Fr {
	a, b := f.element(), g.element()
	var diff gnarkfr.Element
	diff.Sub(&a, &b)
	return fromElement(diff)
}

// Mul returns f*g mod r.
func (f Fr) Mul(g Fr) Fr {
	a, b := f.element(), g.element()
	var prod gnarkfr.Element
	prod.Mul(&a, &b)
	return fromElement(prod)
}

// Neg returns -f mod r.
func (f Fr) Neg() Fr {
	a := f.element()
	var out gnarkfr.Element
	out.Neg(&a)
	return fromElement(out)
}

// Inverse returns f⁻¹ mod r, or ErrScalarOutOfField if f is zero (spec §4.7
// step 7's "division by ζ−1 must detect the exceptional point" applies
// identically to every scalar inversion in the PLONK and STARK verifiers).
func (f Fr) Inverse() (Fr, error) {
	if f.IsZero() {
		return Fr{}, ErrScalarOutOfField
	}
	a := f.element()
	var out gnarkfr.Element
	out.Inverse(&a)
	return fromElement(out), nil
}

// Pow returns f^exp mod r.
func (f Fr) Pow(exp uint64) Fr {
	a := f.element()
	var out gnarkfr.Element
	out.Exp(a, new(big.Int).SetUint64(exp))
	return fromElement(out)
}

// IsZero reports whether f is the additive identity.
func (f Fr) IsZero() bool { return f.v.Sign() == 0 }

// Equal reports whether f and g represent the same residue mod r.
func (f Fr) Equal(g Fr) bool { return f.v.Cmp(&g.v) == 0 }

// G1Generator and G2Generator return BN254's canonical generators [1]₁ and
// [1]₂, used by the PLONK verifier's batched KZG opening check (spec
// §4.7 step 6) to form E·[1]₁ and to pair against [1]₂.
func G1Generator() G1 {
	_, _, g1, _ := bn254.Generators()
	var out G1
	b := g1.RawBytes()
	copy(out.Bytes[:], b[:])
	return out
}

func G2Generator() G2 {
	_, _, _, g2 := bn254.Generators()
	var out G2
	b := g2.RawBytes()
	copy(out.Bytes[:], b[:])
	return out
}

// Backend is the capability set every verifier depends on. Implementations
// must reject points that fail curve-equation or subgroup membership checks
// (spec §4.1) rather than silently proceeding.
type Backend interface {
	// DecodeG1 parses a 64-byte uncompressed point, checking it lies on
	// the curve and in the correct prime-order subgroup.
	DecodeG1(b []byte) (G1, error)
	// DecodeG2 parses a 128-byte uncompressed point. BN254 G2's cofactor
	// means an explicit subgroup test is not always available cheaply;
	// implementations that cannot guarantee it perform the extra pairing
	// check described in spec §4.1 instead.
	DecodeG2(b []byte) (G2, error)

	AddG1(a, b G1) (G1, error)
	NegG1(a G1) (G1, error)
	ScalarMulG1(a G1, s Fr) (G1, error)

	// PairingCheck returns true iff ∏ᵢ e(g1[i], g2[i]) equals the GT
	// identity. len(g1) must equal len(g2); implementations return
	// ErrPairingPrecompileFailure on malformed input rather than panic.
	PairingCheck(g1 []G1, g2 []G2) (bool, error)
}

// Name identifies a Backend implementation for logging/metrics only; it has
// no effect on verification semantics (spec §8 property 3 requires the two
// backends to agree on every outcome).
type Name string

const (
	NameNative     Name = "native"
	NamePrecompile Name = "precompile"
)
