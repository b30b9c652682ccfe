// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transcript

import (
	"github.com/zeebo/blake3"

	"github.com/luxfi/uzkv/internal/field"
)

// blake3Channel rolls its state through Blake3 instead of Keccak256, for
// descriptors declaring hash_function_id=2.
type blake3Channel struct {
	state []byte
	ctr   uint64
}

var _ Channel = (*blake3Channel)(nil)

func newBlake3Channel() *blake3Channel {
	return &blake3Channel{}
}

func (c *blake3Channel) Absorb(label string, data []byte) {
	c.state = append(c.state, lengthPrefixed(label, data)...)
}

func (c *blake3Channel) Challenge(label string) field.Fr {
	h := blake3.New()
	h.Write(c.state)
	h.Write(lengthPrefixed(label, nil))
	first := h.Sum(nil)

	h2 := blake3.New()
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
