// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transcript

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"

	"github.com/luxfi/uzkv/internal/field"
)

// poseidonChannel mirrors keccakChannel's absorb/challenge shape but rolls
// its state through gnark-crypto's Poseidon2 sponge instead of Keccak256,
// for descriptors declaring hash_function_id=1.
type poseidonChannel struct {
	state []byte
	ctr   uint64
}

var _ Channel = (*poseidonChannel)(nil)

func newPoseidonChannel() *poseidonChannel {
	return &poseidonChannel{}
}

func (c *poseidonChannel) Absorb(label string, data []byte) {
	c.state = append(c.state, lengthPrefixed(label, data)...)
}

func (c *poseidonChannel) Challenge(label string) field.Fr {
	h := poseidon2.NewMerkleDamgardHasher()
	h.Write(c.state)
	h.Write(lengthPrefixed(label, nil))
	first := h.Sum(nil)

	h2 := poseidon2.NewMerkleDamgardHasher()
	h2.Write(first)
	h2.Write([]byte{byte(c.ctr)})
	second := h2.Sum(nil)
	c.ctr++

	wide := make([]byte, 0, 64)
	wide = append(wide, first...)
	wide = append(wide, second...)

	c.state = append(c.state, first...)
	c.state = append(c.state, second...)

	return reduceWide(wide)
}
