// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the VK Registry: the mapping
// (ProofSystem, ProgramID, VKCommitment) -> registered verification key
// blob, enforcing the Triple Binding Invariant (spec §3, §4.4).
//
// The registry is append-only and conflict-free within a process
// (spec §3 invariant 6): registering a new blob under a triple that
// already maps to a different blob returns VkConflict rather than
// overwriting. It follows single-writer/many-reader discipline (spec
// §5): Register must be serialized by the caller; Lookup is safe to call
// concurrently.
package registry

import (
	"sync"

	"golang.org/x/crypto/sha3"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/luxfi/uzkv/internal/verr"
)

// Triple keys one registered VK blob (spec §3 "Triple Binding Invariant").
type Triple struct {
	ProofSystem  uint8
	ProgramID    [32]byte
	VKCommitment [32]byte
}

// Entry is a registered VK blob plus non-normative provenance metadata
// (spec §8 supplemented feature — not part of the TBI itself).
type Entry struct {
	Blob         []byte
	RegisteredAt int64 // unix seconds; Register leaves it zero; not used in any check
}

// Store is the durable backing a Registry may delegate to. A Registry
// with a nil Store is purely in-memory.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// Registry is the mapping from Triple to Entry, cached in an LRU of
// bounded size with an optional durable Store behind it.
type Registry struct {
	mu    sync.RWMutex
	cache *lru.Cache[Triple, Entry]
	store Store
}

// New constructs an in-memory Registry with the given LRU capacity.
func New(cacheSize int) (*Registry, error) {
	c, err := lru.New[Triple, Entry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Registry{cache: c}, nil
}

// NewWithStore constructs a Registry backed by a durable Store: lookups
// fall through to the store on a cache miss and populate the cache.
func NewWithStore(cacheSize int, store Store) (*Registry, error) {
	r, err := New(cacheSize)
	if err != nil {
		return nil, err
	}
	r.store = store
	return r, nil
}

func commitment(blob []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(blob)
	copy(out[:], h.Sum(nil))
	return out
}

// Register binds blob to (proofSystem, programID), returning
// keccak256(blob). Idempotent when the same blob is re-registered under
// the same triple; a conflicting blob under an already-registered triple
// returns VkConflict without overwriting (spec §6, §8 property 7).
func (r *Registry) Register(proofSystem uint8, programID [32]byte, blob []byte) ([32]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vk := commitment(blob)
	key := Triple{ProofSystem: proofSystem, ProgramID: programID, VKCommitment: vk}

	if existing, ok := r.lookupLocked(key); ok {
		if string(existing.Blob) != string(blob) {
			return [32]byte{}, verr.New(verr.KindVkConflict, "vk_commitment", nil)
		}
		return vk, nil
	}

	entry := Entry{Blob: append([]byte(nil), blob...)}
	r.cache.Add(key, entry)
	if r.store != nil {
		if err := r.storePut(key, entry); err != nil {
			return [32]byte{}, err
		}
	}
	return vk, nil
}

// Lookup resolves a triple to its registered blob. Absence is
// VkNotRegistered; a present entry whose stored blob does not hash to the
// requested commitment is VkBindingFailure (spec §4.4 step 3 — should be
// unreachable outside registry corruption).
func (r *Registry) Lookup(proofSystem uint8, programID, vkCommitment [32]byte) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := Triple{ProofSystem: proofSystem, ProgramID: programID, VKCommitment: vkCommitment}
	entry, ok := r.lookupLocked(key)
	if !ok {
		return nil, verr.New(verr.KindVkNotRegistered, "vk_commitment", nil)
	}
	if commitment(entry.Blob) != vkCommitment {
		return nil, verr.New(verr.KindVkBindingFailure, "vk_commitment", nil)
	}
	return entry.Blob, nil
}

// IsRegistered reports whether a triple has a registered blob (spec §6
// is_vk_registered).
func (r *Registry) IsRegistered(proofSystem uint8, programID, vkCommitment [32]byte) bool {
	_, err := r.Lookup(proofSystem, programID, vkCommitment)
	return err == nil
}

func (r *Registry) lookupLocked(key Triple) (Entry, bool) {
	if e, ok := r.cache.Get(key); ok {
		return e, true
	}
	if r.store == nil {
		return Entry{}, false
	}
	raw, err := r.store.Get(storeKey(key))
	if err != nil {
		return Entry{}, false
	}
	e := Entry{Blob: raw}
	r.cache.Add(key, e)
	return e, true
}

func (r *Registry) storePut(key Triple, e Entry) error {
	return r.store.Set(storeKey(key), e.Blob)
}

func storeKey(t Triple) []byte {
	out := make([]byte, 0, 1+32+32)
	out = append(out, t.ProofSystem)
	out = append(out, t.ProgramID[:]...)
	out = append(out, t.VKCommitment[:]...)
	return out
}
