// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plonk

import "math/big"

func bigInt(v int64) *big.Int { return big.NewInt(v) }

func beUint64(b []byte) uint64 {
	var out uint64
	for _, c := range b {
		out = out<<8 | uint64(c)
	}
	return out
}
