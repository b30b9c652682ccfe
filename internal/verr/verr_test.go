// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package verr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesOnKindOnly(t *testing.T) {
	a := New(KindVkConflict, "vk_commitment", nil)
	b := New(KindVkConflict, "", nil)
	require.True(t, errors.Is(a, b))

	c := New(KindVkNotRegistered, "", nil)
	require.False(t, errors.Is(a, c))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := New(KindBackendUnavailable, "", cause)
	require.ErrorIs(t, e, cause)
}
