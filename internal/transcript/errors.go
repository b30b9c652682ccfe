// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transcript

import "errors"

// ErrUnsupportedHash is returned by New for a hash_function_id this build
// does not recognize (spec §3, field 2).
var ErrUnsupportedHash = errors.New("transcript: unsupported hash function")
