// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/uzkv/internal/field"
)

func toFieldG1(p bn254.G1Affine) field.G1 {
	var out field.G1
	b := p.RawBytes()
	copy(out.Bytes[:], b[:])
	return out
}

func toFieldG2(p bn254.G2Affine) field.G2 {
	var out field.G2
	b := p.RawBytes()
	copy(out.Bytes[:], b[:])
	return out
}

// buildToyCircuit builds a Groth16-shaped instance satisfying the
// verifier's pairing equation without running a real trusted setup or
// prover. It fixes gamma == delta and sets A = alpha, B = beta, which
// collapses e(A,B)·e(-alpha,beta) to the identity and leaves
// e(-vk_x,gamma)·e(-C,gamma) = e(-(vk_x+C),gamma); choosing C = -ic[0]
// with public_input = 0 (so vk_x = ic[0]) makes that term the identity
// too. It exercises the verifier's algebraic wiring, not soundness of a
// real circuit.
func buildToyCircuit(t *testing.T) (*VerifyingKey, *Proof, []field.Fr) {
	t.Helper()
	_, _, g1Gen, g2Gen := bn254.Generators()

	var alphaS, betaS, gammaS, icS0, icS1 fr.Element
	alphaS.SetInt64(2)
	betaS.SetInt64(3)
	gammaS.SetInt64(5)
	icS0.SetInt64(11)
	icS1.SetInt64(13)

	var alpha, ic0, ic1 bn254.G1Affine
	alpha.ScalarMultiplication(&g1Gen, alphaS.BigInt(new(big.Int)))
	ic0.ScalarMultiplication(&g1Gen, icS0.BigInt(new(big.Int)))
	ic1.ScalarMultiplication(&g1Gen, icS1.BigInt(new(big.Int)))

	var beta, gamma bn254.G2Affine
	beta.ScalarMultiplication(&g2Gen, betaS.BigInt(new(big.Int)))
	gamma.ScalarMultiplication(&g2Gen, gammaS.BigInt(new(big.Int)))

	var negIc0 bn254.G1Affine
	negIc0.Neg(&ic0)

	vk := &VerifyingKey{
		Alpha: toFieldG1(alpha),
		Beta:  toFieldG2(beta),
		Gamma: toFieldG2(gamma),
		Delta: toFieldG2(gamma),
		IC:    []field.G1{toFieldG1(ic0), toFieldG1(ic1)},
	}
	proof := &Proof{A: toFieldG1(alpha), B: toFieldG2(beta), C: toFieldG1(negIc0)}

	zero, err := field.NewFr(big.NewInt(0))
	require.NoError(t, err)
	return vk, proof, []field.Fr{zero}
}

func TestVerifyAcceptsConstructedInstance(t *testing.T) {
	vk, proof, publicInputs := buildToyCircuit(t)
	ok, err := Verify(field.Native{}, vk, proof, publicInputs)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsModifiedPublicInput(t *testing.T) {
	vk, proof, _ := buildToyCircuit(t)
	one, err := field.NewFr(big.NewInt(1))
	require.NoError(t, err)
	ok, err := Verify(field.Native{}, vk, proof, []field.Fr{one})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsShapeMismatch(t *testing.T) {
	vk, proof, _ := buildToyCircuit(t)
	one, err := field.NewFr(big.NewInt(1))
	require.NoError(t, err)
	_, err = Verify(field.Native{}, vk, proof, []field.Fr{one, one})
	require.Error(t, err)
}

func TestNativeAndPrecompileAgree(t *testing.T) {
	vk, proof, publicInputs := buildToyCircuit(t)
	okNative, err := Verify(field.Native{}, vk, proof, publicInputs)
	require.NoError(t, err)

	precompile := field.Precompile{Host: field.MockHost{}}
	okPrecompile, err := Verify(precompile, vk, proof, publicInputs)
	require.NoError(t, err)

	require.Equal(t, okNative, okPrecompile)
}

func TestParseProofRejectsWrongLength(t *testing.T) {
	_, err := ParseProof(field.Native{}, make([]byte, ProofByteLength-1))
	require.Error(t, err)
}
