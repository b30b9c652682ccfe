// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatch

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/uzkv/internal/field"
	"github.com/luxfi/uzkv/internal/policy"
	"github.com/luxfi/uzkv/internal/registry"
	"github.com/luxfi/uzkv/internal/upd"
	"github.com/luxfi/uzkv/internal/verr"
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

// buildToyGroth16Blobs constructs the same forged instance as
// internal/groth16's own fixture (gamma==delta, A=alpha, B=beta, C=-ic0,
// public_input=0), but serialized to the wire-layout blobs a registry
// entry and a UPD proof payload actually carry, rather than the parsed
// structs groth16's own tests exercise directly.
func buildToyGroth16Blobs(t *testing.T) (vkBlob, payload []byte, publicInputs [][32]byte) {
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

	alphaF, betaF, gammaF := toFieldG1(alpha), toFieldG2(beta), toFieldG2(gamma)
	ic0F, ic1F, cF := toFieldG1(ic0), toFieldG1(ic1), toFieldG1(negIc0)

	vkBlob = append(vkBlob, alphaF.Bytes[:]...)
	vkBlob = append(vkBlob, betaF.Bytes[:]...)
	vkBlob = append(vkBlob, gammaF.Bytes[:]...)
	vkBlob = append(vkBlob, gammaF.Bytes[:]...) // delta == gamma
	vkBlob = append(vkBlob, 0x00, 0x02)         // ic_count = 2
	vkBlob = append(vkBlob, ic0F.Bytes[:]...)
	vkBlob = append(vkBlob, ic1F.Bytes[:]...)

	payload = append(payload, alphaF.Bytes[:]...) // A = alpha
	payload = append(payload, betaF.Bytes[:]...)  // B = beta
	payload = append(payload, cF.Bytes[:]...)     // C = -ic0

	publicInputs = [][32]byte{{}} // a single zero public input
	return vkBlob, payload, publicInputs
}

func buildEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := registry.New(16)
	require.NoError(t, err)
	return New(reg, policy.Default(), field.Native{}, nil)
}

func buildRaw(t *testing.T, vkBlob, payload []byte, publicInputs [][32]byte, vkCommitment [32]byte, recursionDepth uint8) []byte {
	t.Helper()
	desc := &upd.Descriptor{
		Version:           2,
		ProofSystem:       upd.ProofSystemGroth16,
		Curve:             upd.CurveBN254,
		HashFunction:      upd.HashKeccak256,
		RecursionDepth:    recursionDepth,
		PublicInputsCount: uint16(len(publicInputs)),
		ProofLength:       uint32(len(payload)),
		VKCommitment:      vkCommitment,
		PublicInputs:      publicInputs,
		ProofPayload:      payload,
	}
	return desc.Serialize()
}

func TestEngineVerifyAcceptsRegisteredGroth16(t *testing.T) {
	e := buildEngine(t)
	vkBlob, payload, publicInputs := buildToyGroth16Blobs(t)

	vkCommitment, err := e.Registry.Register(uint8(upd.ProofSystemGroth16), [32]byte{}, vkBlob)
	require.NoError(t, err)

	raw := buildRaw(t, vkBlob, payload, publicInputs, vkCommitment, 0)
	outcome, err := e.Verify(raw)
	require.NoError(t, err)
	require.True(t, outcome.Accepted)
	require.Equal(t, uint64(250_000+40_000), outcome.Cost.EstimatedTotal)
}

func TestEngineVerifyRejectsUnregisteredVK(t *testing.T) {
	e := buildEngine(t)
	vkBlob, payload, publicInputs := buildToyGroth16Blobs(t)
	// Never registered: Verify must fail lookup rather than run the
	// verifier against an unbound key.
	raw := buildRaw(t, vkBlob, payload, publicInputs, [32]byte{0xAA}, 0)

	_, err := e.Verify(raw)
	require.Error(t, err)
	var target *verr.Error
	require.ErrorAs(t, err, &target)
	require.Equal(t, verr.KindVkNotRegistered, target.Kind)
}

func TestEngineVerifyEnforcesRecursionDepthBound(t *testing.T) {
	e := buildEngine(t)
	e.Policy.MaxRecursionDepth = 2
	vkBlob, payload, publicInputs := buildToyGroth16Blobs(t)

	vkCommitment, err := e.Registry.Register(uint8(upd.ProofSystemGroth16), [32]byte{}, vkBlob)
	require.NoError(t, err)

	raw := buildRaw(t, vkBlob, payload, publicInputs, vkCommitment, 3)
	_, err = e.Verify(raw)
	require.Error(t, err)
}

func TestEngineVerifyRejectsTamperedPublicInput(t *testing.T) {
	e := buildEngine(t)
	vkBlob, payload, _ := buildToyGroth16Blobs(t)
	vkCommitment, err := e.Registry.Register(uint8(upd.ProofSystemGroth16), [32]byte{}, vkBlob)
	require.NoError(t, err)

	tampered := [][32]byte{{31: 0x01}} // public_input = 1, not 0
	raw := buildRaw(t, vkBlob, payload, tampered, vkCommitment, 0)
	outcome, err := e.Verify(raw)
	require.NoError(t, err)
	require.False(t, outcome.Accepted)
}

func TestEngineVerifyBatchAppliesDiscountToHomogeneousBatch(t *testing.T) {
	e := buildEngine(t)
	vkBlob, payload, publicInputs := buildToyGroth16Blobs(t)
	vkCommitment, err := e.Registry.Register(uint8(upd.ProofSystemGroth16), [32]byte{}, vkBlob)
	require.NoError(t, err)

	raw := buildRaw(t, vkBlob, payload, publicInputs, vkCommitment, 0)
	proofs := [][]byte{raw, raw, raw}

	outcomes, record := e.VerifyBatch(proofs)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		require.True(t, o.Accepted)
	}

	single := uint64(250_000 + 40_000)
	require.Less(t, record.EstimatedTotal, single*3)
}

func TestEngineVerifyMalformedDescriptorIsError(t *testing.T) {
	e := buildEngine(t)
	_, err := e.Verify(make([]byte, 10))
	require.Error(t, err)
	var target *verr.Error
	require.ErrorAs(t, err, &target)
	require.Equal(t, verr.KindMalformedDescriptor, target.Kind)
}
