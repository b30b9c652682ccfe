// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package groth16 implements the Groth16 verifier (spec §4.6): parse
// proof and VK, form the IC linear combination, and check the pairing
// product equation. It is polymorphic over field.Backend so the same
// logic runs against either the precompile-backed or native provider
// (spec §8 property 3).
package groth16

import (
	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/verr"
)

// Proof is the three-point Groth16 proof (spec §4.6): A,C in G1, B in G2.
type Proof struct {
	A field.G1
	B field.G2
	C field.G1
}

// ProofByteLength is the fixed wire size of a Groth16 proof: A (64) + B
// (128) + C (64).
const ProofByteLength = 64 + 128 + 64

// ParseProof decodes the fixed-layout Groth16 proof payload.
func ParseProof(backend field.Backend, payload []byte) (*Proof, error) {
	if len(payload) != ProofByteLength {
		return nil, verr.New(verr.KindMalformedDescriptor, "proof_payload", nil)
	}
	a, err := backend.DecodeG1(payload[0:64])
	if err != nil {
		return nil, err
	}
	b, err := backend.DecodeG2(payload[64:192])
	if err != nil {
		return nil, err
	}
	c, err := backend.DecodeG1(payload[192:256])
	if err != nil {
		return nil, err
	}
	return &Proof{A: a, B: b, C: c}, nil
}

// VerifyingKey is the Groth16 VK (spec §4.6): alpha in G1, beta/gamma/delta
// in G2, and an IC vector of G1 points with len(IC) == public_inputs_count+1.
type VerifyingKey struct {
	Alpha field.G1
	Beta  field.G2
	Gamma field.G2
	Delta field.G2
	IC    []field.G1
}

// ParseVerifyingKey decodes a VK blob laid out as
// alpha(64) || beta(128) || gamma(128) || delta(128) || ic_count(2) || ic(64 each).
func ParseVerifyingKey(backend field.Backend, blob []byte) (*VerifyingKey, error) {
	const fixed = 64 + 128 + 128 + 128 + 2
	if len(blob) < fixed {
		return nil, verr.New(verr.KindVkShapeMismatch, "vk_blob", nil)
	}

	alpha, err := backend.DecodeG1(blob[0:64])
	if err != nil {
		return nil, err
	}
	beta, err := backend.DecodeG2(blob[64:192])
	if err != nil {
		return nil, err
	}
	gamma, err := backend.DecodeG2(blob[192:320])
	if err != nil {
		return nil, err
	}
	delta, err := backend.DecodeG2(blob[320:448])
	if err != nil {
		return nil, err
	}
	icCount := int(blob[448])<<8 | int(blob[449])

	rest := blob[fixed:]
	if len(rest) != icCount*64 {
		return nil, verr.New(verr.KindVkShapeMismatch, "ic", nil)
	}
	ic := make([]field.G1, icCount)
	for i := 0; i < icCount; i++ {
		p, err := backend.DecodeG1(rest[i*64 : (i+1)*64])
		if err != nil {
			return nil, err
		}
		ic[i] = p
	}

	return &VerifyingKey{Alpha: alpha, Beta: beta, Gamma: gamma, Delta: delta, IC: ic}, nil
}

// Verify checks the Groth16 pairing equation
// e(A,B) · e(-vk_x,γ) · e(-C,δ) · e(-α,β) == 1
// where vk_x = ic[0] + Σ publicInputs[i]·ic[i+1] (spec §4.6 steps 1-5).
func Verify(backend field.Backend, vk *VerifyingKey, proof *Proof, publicInputs []field.Fr) (bool, error) {
	if len(vk.IC) != len(publicInputs)+1 {
		return false, verr.New(verr.KindVkShapeMismatch, "ic", nil)
	}

	vkX := vk.IC[0]
	for i, in := range publicInputs {
		term, err := backend.ScalarMulG1(vk.IC[i+1], in)
		if err != nil {
			return false, err
		}
		vkX, err = backend.AddG1(vkX, term)
		if err != nil {
			return false, err
		}
	}

	negVkX, err := backend.NegG1(vkX)
	if err != nil {
		return false, err
	}
	negC, err := backend.NegG1(proof.C)
	if err != nil {
		return false, err
	}
	negAlpha, err := backend.NegG1(vk.Alpha)
	if err != nil {
		return false, err
	}

	ok, err := backend.PairingCheck(
		[]field.G1{proof.A, negVkX, negC, negAlpha},
		[]field.G2{proof.B, vk.Gamma, vk.Delta, vk.Beta},
	)
	if err != nil {
		return false, nil // backend failure records as rejection, not raised (spec §4.6 step 5)
	}
	return ok, nil
}
