// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stark

import "golang.org/x/crypto/sha3"

// hashLeaf and hashNode use domain-separated prefixes so a leaf digest can
// never be replayed as an internal node (and vice versa) — the usual
// second-preimage gap in a naive Merkle tree.
func hashLeaf(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{0x00})
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func hashNode(left, right [32]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{0x01})
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// verifyMerklePath recomputes the root from leafData at position, walking
// proof.Siblings bottom-up. At each level the sibling is placed left or
// right according to the current index's parity, then the index halves —
// the standard binary Merkle authentication used throughout spec §4.8's
// query phase for both trace-row and FRI-layer commitments.
func verifyMerklePath(root [32]byte, position uint64, leafData []byte, proof MerkleProof) bool {
	cur := hashLeaf(leafData)
	idx := position
	for _, sibling := range proof.Siblings {
		if idx%2 == 0 {
			cur = hashNode(cur, sibling)
		} else {
			cur = hashNode(sibling, cur)
		}
		idx /= 2
	}
	return cur == root
}
