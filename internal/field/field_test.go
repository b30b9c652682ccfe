// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"
)

func genG1() (G1, bn254.G1Affine) {
	_, _, g1, _ := bn254.Generators()
	return fromG1Affine(g1), g1
}

func TestNativeAndPrecompileAgreeOnAdd(t *testing.T) {
	g1, _ := genG1()
	native := Native{}
	precompile := Precompile{Host: MockHost{}}

	wantNative, err := native.AddG1(g1, g1)
	require.NoError(t, err)
	wantPrecompile, err := precompile.AddG1(g1, g1)
	require.NoError(t, err)
	require.Equal(t, wantNative, wantPrecompile)
}

func TestNativeAndPrecompileAgreeOnScalarMul(t *testing.T) {
	g1, _ := genG1()
	s, err := NewFr(big.NewInt(12345))
	require.NoError(t, err)

	native := Native{}
	precompile := Precompile{Host: MockHost{}}

	wantNative, err := native.ScalarMulG1(g1, s)
	require.NoError(t, err)
	wantPrecompile, err := precompile.ScalarMulG1(g1, s)
	require.NoError(t, err)
	require.Equal(t, wantNative, wantPrecompile)
}

func TestPairingCheckIdentity(t *testing.T) {
	// e(G1, G2) * e(-G1, G2) == 1 for any G2 point.
	g1, g1Affine := genG1()
	_, _, _, g2Affine := bn254.Generators()
	var g2 G2
	b := g2Affine.RawBytes()
	copy(g2.Bytes[:], b[:])

	native := Native{}
	neg, err := native.NegG1(g1)
	require.NoError(t, err)

	ok, err := native.PairingCheck([]G1{g1, neg}, []G2{g2, g2})
	require.NoError(t, err)
	require.True(t, ok)

	precompile := Precompile{Host: MockHost{}}
	ok, err = precompile.PairingCheck([]G1{g1, neg}, []G2{g2, g2})
	require.NoError(t, err)
	require.True(t, ok)

	_ = g1Affine
}

func TestFrRejectsOutOfRangeScalar(t *testing.T) {
	_, err := NewFr(new(big.Int).Add(FrModulus, big.NewInt(1)))
	require.ErrorIs(t, err, ErrScalarOutOfField)

	_, err = NewFr(big.NewInt(-1))
	require.ErrorIs(t, err, ErrScalarOutOfField)
}

func TestDecodeG1RejectsWrongLength(t *testing.T) {
	_, err := Native{}.DecodeG1(make([]byte, 63))
	require.ErrorIs(t, err, ErrCurvePointInvalid)
}

func TestDecodeG1RejectsOffCurvePoint(t *testing.T) {
	bad := make([]byte, 64)
	bad[63] = 1 // (0, 1) is not on y^2 = x^3 + 3
	_, err := Native{}.DecodeG1(bad)
	require.Error(t, err)
}

func TestFrArithmetic(t *testing.T) {
	two, err := NewFr(big.NewInt(2))
	require.NoError(t, err)
	three, err := NewFr(big.NewInt(3))
	require.NoError(t, err)

	require.True(t, two.Add(three).Equal(mustFr(t, 5)))
	require.True(t, three.Sub(two).Equal(mustFr(t, 1)))
	require.True(t, two.Mul(three).Equal(mustFr(t, 6)))
	require.True(t, two.Neg().Add(two).IsZero())
	require.True(t, two.Pow(10).Equal(mustFr(t, 1024)))

	inv, err := two.Inverse()
	require.NoError(t, err)
	require.True(t, two.Mul(inv).Equal(FrOne()))

	_, err = FrZero().Inverse()
	require.ErrorIs(t, err, ErrScalarOutOfField)
}

func mustFr(t *testing.T, v int64) Fr {
	t.Helper()
	f, err := NewFr(big.NewInt(v))
	require.NoError(t, err)
	return f
}
