// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"bytes"
	"errors"
	"os"

	"github.com/cockroachdb/pebble"
)

// PebbleStore is a Store backed by an on-disk Pebble database, for
// deployments that need the VK registry to survive a process restart.
type PebbleStore struct {
	db *pebble.DB
}

var _ Store = (*PebbleStore)(nil)

// OpenPebbleStore opens (creating if necessary) a Pebble database at path.
func OpenPebbleStore(path string) (*PebbleStore, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key []byte) ([]byte, error) {
	v, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	out := bytes.Clone(v)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PebbleStore) Set(key, value []byte) error {
	return s.db.Set(key, value, nil)
}

// Close releases the underlying Pebble database handle.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

var errNotFound = errors.New("registry: key not found")
