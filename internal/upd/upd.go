// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package upd implements the Universal Proof Descriptor codec: the fixed
// 75-byte binary header every UniversalProof begins with, followed by its
// variable-length public inputs and proof payload (spec §3, §4.3).
package upd

import (
	"encoding/binary"

	"github.com/luxfi/uzkv/internal/verr"
)

// HeaderSize is the fixed byte length of the UPD header (spec §3).
const HeaderSize = 75

// ProofSystem identifies which verifier a descriptor routes to (spec §3
// field 1).
type ProofSystem uint8

const (
	ProofSystemGroth16 ProofSystem = 0
	ProofSystemPlonk   ProofSystem = 1
	ProofSystemStark   ProofSystem = 2
)

// CurveID identifies the elliptic curve a descriptor is defined over (spec
// §3 field 2). Only BN254 is accepted in this version.
type CurveID uint8

const CurveBN254 CurveID = 0

// HashFunctionID identifies the Fiat-Shamir/Merkle hash a descriptor
// declares (spec §3 field 3).
type HashFunctionID uint8

const (
	HashKeccak256 HashFunctionID = 0
	HashPoseidon  HashFunctionID = 1
	HashBlake3    HashFunctionID = 2
)

const currentVersion = 2

// Descriptor is the parsed, typed form of a UniversalProof's header plus
// its variable-length sections. It is read-only for the lifetime of one
// verification (spec §3 "Entity lifecycles").
type Descriptor struct {
	Version            uint8
	ProofSystem        ProofSystem
	Curve              CurveID
	HashFunction       HashFunctionID
	RecursionDepth     uint8
	PublicInputsCount  uint16
	ProofLength        uint32
	VKCommitment       [32]byte
	ProgramID          [32]byte
	PublicInputs       [][32]byte
	ProofPayload       []byte
}

// Parse validates and decodes a UniversalProof byte blob (spec §4.3): the
// 75-byte header, then `public_inputs_count * 32` bytes of public inputs,
// then exactly `proof_length` bytes of proof payload — and nothing more.
func Parse(b []byte) (*Descriptor, error) {
	if len(b) < HeaderSize {
		return nil, verr.New(verr.KindMalformedDescriptor, "header", nil)
	}

	d := &Descriptor{
		Version:           b[0],
		ProofSystem:       ProofSystem(b[1]),
		Curve:             CurveID(b[2]),
		HashFunction:      HashFunctionID(b[3]),
		RecursionDepth:    b[4],
		PublicInputsCount: binary.BigEndian.Uint16(b[5:7]),
		ProofLength:       binary.BigEndian.Uint32(b[7:11]),
	}
	copy(d.VKCommitment[:], b[11:43])
	copy(d.ProgramID[:], b[43:75])

	if d.Version != currentVersion {
		return nil, verr.New(verr.KindMalformedDescriptor, "upd_version", nil)
	}
	if d.ProofSystem != ProofSystemGroth16 && d.ProofSystem != ProofSystemPlonk && d.ProofSystem != ProofSystemStark {
		return nil, verr.New(verr.KindUnsupportedSystem, "proof_system_id", nil)
	}
	if d.Curve != CurveBN254 {
		return nil, verr.New(verr.KindUnsupportedCurve, "curve_id", nil)
	}
	if d.HashFunction != HashKeccak256 && d.HashFunction != HashPoseidon && d.HashFunction != HashBlake3 {
		return nil, verr.New(verr.KindUnsupportedHash, "hash_function_id", nil)
	}

	rest := b[HeaderSize:]
	inputsLen := int(d.PublicInputsCount) * 32
	if inputsLen > len(rest) {
		return nil, verr.New(verr.KindMalformedDescriptor, "public_inputs_count", nil)
	}
	inputsBytes := rest[:inputsLen]
	rest = rest[inputsLen:]

	if int(d.ProofLength) > len(rest) {
		return nil, verr.New(verr.KindMalformedDescriptor, "proof_length", nil)
	}
	d.ProofPayload = append([]byte(nil), rest[:d.ProofLength]...)
	rest = rest[d.ProofLength:]

	if len(rest) != 0 {
		return nil, verr.New(verr.KindTrailingGarbage, "", nil)
	}

	d.PublicInputs = make([][32]byte, d.PublicInputsCount)
	for i := 0; i < int(d.PublicInputsCount); i++ {
		copy(d.PublicInputs[i][:], inputsBytes[i*32:(i+1)*32])
	}

	return d, nil
}

// Serialize is Parse's inverse: re-encoding a parsed Descriptor always
// reproduces the original bytes (spec §8 property 1).
func (d *Descriptor) Serialize() []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(d.PublicInputs)*32+len(d.ProofPayload))
	out[0] = d.Version
	out[1] = byte(d.ProofSystem)
	out[2] = byte(d.Curve)
	out[3] = byte(d.HashFunction)
	out[4] = d.RecursionDepth
	binary.BigEndian.PutUint16(out[5:7], d.PublicInputsCount)
	binary.BigEndian.PutUint32(out[7:11], d.ProofLength)
	copy(out[11:43], d.VKCommitment[:])
	copy(out[43:75], d.ProgramID[:])

	for _, in := range d.PublicInputs {
		out = append(out, in[:]...)
	}
	out = append(out, d.ProofPayload...)
	return out
}
