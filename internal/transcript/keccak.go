// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transcript

import (
	"golang.org/x/crypto/sha3"

	"github.com/luxfi/uzkv/internal/field"
)

// keccakChannel is the default transcript: a rolling Keccak256 state
// absorbing length-prefixed label/data pairs (spec §4.2).
type keccakChannel struct {
	state []byte // concatenation of every absorbed frame, hashed fresh per challenge
	ctr   uint64 // disambiguates successive challenges sharing the same label
}

var _ Channel = (*keccakChannel)(nil)

func newKeccakChannel() *keccakChannel {
	return &keccakChannel{}
}

func (c *keccakChannel) Absorb(label string, data []byte) {
	c.state = append(c.state, lengthPrefixed(label, data)...)
}

func (c *keccakChannel) Challenge(label string) field.Fr {
	h := sha3.NewLegacyKeccak256()
	h.Write(c.state)
	h.Write(lengthPrefixed(label, nil))
	first := h.Sum(nil)

	h2 := sha3.NewLegacyKeccak256()
	h2.Write(first)
	h2.Write([]byte{byte(c.ctr)})
	second := h2.Sum(nil)
	c.ctr++

	wide := make([]byte, 0, 64)
	wide = append(wide, first...)
	wide = append(wide, second...)

	// The challenge itself re-enters the transcript so that the next
	// absorb/challenge is bound to everything squeezed so far.
	c.state = append(c.state, first...)
	c.state = append(c.state, second...)

	return reduceWide(wide)
}
