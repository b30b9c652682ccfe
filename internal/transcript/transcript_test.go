// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelDeterministic(t *testing.T) {
	for _, fn := range []HashFunction{HashKeccak256, HashPoseidon, HashBlake3} {
		a, err := New(fn, "UZKV-TEST-v2")
		require.NoError(t, err)
		b, err := New(fn, "UZKV-TEST-v2")
		require.NoError(t, err)

		a.Absorb("x", []byte{1, 2, 3})
		b.Absorb("x", []byte{1, 2, 3})

		ca := a.Challenge("alpha")
		cb := b.Challenge("alpha")
		require.Equal(t, ca.Bytes32(), cb.Bytes32(), "hash function %d", fn)
	}
}

func TestChannelOrderingSensitive(t *testing.T) {
	a, err := New(HashKeccak256, "UZKV-TEST-v2")
	require.NoError(t, err)
	b, err := New(HashKeccak256, "UZKV-TEST-v2")
	require.NoError(t, err)

	a.Absorb("first", []byte{1})
	a.Absorb("second", []byte{2})
	b.Absorb("second", []byte{2})
	b.Absorb("first", []byte{1})

	require.NotEqual(t, a.Challenge("out").Bytes32(), b.Challenge("out").Bytes32())
}

func TestChallengeAdvancesState(t *testing.T) {
	ch, err := New(HashKeccak256, "UZKV-TEST-v2")
	require.NoError(t, err)
	ch.Absorb("x", []byte{9})

	first := ch.Challenge("same-label")
	second := ch.Challenge("same-label")
	require.NotEqual(t, first.Bytes32(), second.Bytes32())
}

func TestNewRejectsUnknownHashFunction(t *testing.T) {
	_, err := New(HashFunction(99), "tag")
	require.ErrorIs(t, err, ErrUnsupportedHash)
}
