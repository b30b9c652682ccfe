// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package upd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/uzkv/internal/verr"
)

func sampleBytes(proofLen uint32, inputsCount uint16) []byte {
	header := make([]byte, HeaderSize)
	header[0] = currentVersion
	header[1] = byte(ProofSystemGroth16)
	header[2] = byte(CurveBN254)
	header[3] = byte(HashKeccak256)
	header[4] = 0
	header[5] = byte(inputsCount >> 8)
	header[6] = byte(inputsCount)
	header[7] = byte(proofLen >> 24)
	header[8] = byte(proofLen >> 16)
	header[9] = byte(proofLen >> 8)
	header[10] = byte(proofLen)
	// vk_commitment[11:43], program_id[43:75] left zero

	out := append([]byte(nil), header...)
	for i := uint16(0); i < inputsCount; i++ {
		out = append(out, make([]byte, 32)...)
	}
	out = append(out, make([]byte, proofLen)...)
	return out
}

func TestRoundTrip(t *testing.T) {
	raw := sampleBytes(16, 2)
	d, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, raw, d.Serialize())
}

func TestParseRejectsShortInput(t *testing.T) {
	_, err := Parse(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, verr.New(verr.KindMalformedDescriptor, "", nil))
}

func TestParseRejectsUnknownVersion(t *testing.T) {
	raw := sampleBytes(0, 0)
	raw[0] = 99
	_, err := Parse(raw)
	var e *verr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, verr.KindMalformedDescriptor, e.Kind)
}

func TestParseRejectsUnsupportedSystem(t *testing.T) {
	raw := sampleBytes(0, 0)
	raw[1] = 7
	_, err := Parse(raw)
	var e *verr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, verr.KindUnsupportedSystem, e.Kind)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	raw := sampleBytes(4, 0)
	raw = append(raw, 0xFF)
	_, err := Parse(raw)
	var e *verr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, verr.KindTrailingGarbage, e.Kind)
}

func TestParseRejectsProofLengthOverrun(t *testing.T) {
	raw := sampleBytes(4, 0)
	raw = raw[:len(raw)-1] // proof_length claims 4 bytes, only 3 remain
	_, err := Parse(raw)
	var e *verr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, verr.KindMalformedDescriptor, e.Kind)
}

func TestParseRejectsPublicInputsCountOverrun(t *testing.T) {
	raw := sampleBytes(0, 3)
	raw = raw[:len(raw)-32] // claims 3 inputs, only 2 present
	_, err := Parse(raw)
	var e *verr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, verr.KindMalformedDescriptor, e.Kind)
}
