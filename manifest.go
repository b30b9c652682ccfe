// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package uzkv

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/uzkv/internal/upd"
)

// VKManifest is the canonical on-disk encoding for a verification key
// awaiting registration: the raw VK blob each verifier's own
// ParseVerifyingKey expects, wrapped with the triple-binding metadata
// (proof system, program ID) RegisterVK needs and a human-readable label.
// cmd/uzkvctl's register-vk command reads one of these from a file rather
// than requiring three separate flags plus a base64-encoded blob.
type VKManifest struct {
	ProofSystem upd.ProofSystem `cbor:"proof_system"`
	ProgramID   [32]byte        `cbor:"program_id"`
	Blob        []byte          `cbor:"blob"`
	Label       string          `cbor:"label,omitempty"`
}

// EncodeVKManifest produces the canonical CBOR encoding of a manifest.
func EncodeVKManifest(m VKManifest) ([]byte, error) {
	return cbor.Marshal(m)
}

// DecodeVKManifest parses a manifest previously produced by
// EncodeVKManifest.
func DecodeVKManifest(b []byte) (VKManifest, error) {
	var m VKManifest
	if err := cbor.Unmarshal(b, &m); err != nil {
		return VKManifest{}, err
	}
	return m, nil
}
