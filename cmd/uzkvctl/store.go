// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import "github.com/luxfi/uzkv/internal/registry"

func openStore(path string) (*registry.PebbleStore, error) {
	return registry.OpenPebbleStore(path)
}
