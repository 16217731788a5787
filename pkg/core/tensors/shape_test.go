// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeShape(t *testing.T) {
	s := MakeShape(2, 3, 1)
	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, []int{2, 3, 1}, s.Dimensions)
	assert.Equal(t, 6, s.Size())

	// Zero-sized axes are valid, e.g. for empty image stacks.
	empty := MakeShape(0, 64, 64, 3)
	assert.Equal(t, 0, empty.Size())

	err := exceptions.TryCatch[error](func() { _ = MakeShape(2, -1) })
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestShapeDim(t *testing.T) {
	s := MakeShape(5, 7, 3)
	assert.Equal(t, 5, s.Dim(0))
	assert.Equal(t, 3, s.Dim(2))
	assert.Equal(t, 3, s.Dim(-1))
	assert.Equal(t, 5, s.Dim(-3))

	err := exceptions.TryCatch[error](func() { _ = s.Dim(3) })
	require.ErrorIs(t, err, ErrInvalidShape)
	err = exceptions.TryCatch[error](func() { _ = s.Dim(-4) })
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestShapeHeightWidth(t *testing.T) {
	h, w := MakeShape(32, 64).HeightWidth()
	assert.Equal(t, 32, h)
	assert.Equal(t, 64, w)

	h, w = MakeShape(8, 16, 3).HeightWidth()
	assert.Equal(t, 8, h)
	assert.Equal(t, 16, w)

	err := exceptions.TryCatch[error](func() { _, _ = MakeShape(7).HeightWidth() })
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestShapeEqualAndClone(t *testing.T) {
	a := MakeShape(2, 3)
	b := MakeShape(2, 3)
	c := MakeShape(3, 2)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(MakeShape(2, 3, 1)))

	clone := a.Clone()
	clone.Dimensions[0] = 100
	assert.Equal(t, 2, a.Dimensions[0], "Clone must not share the dimensions slice")
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "(2, 3, 1)", MakeShape(2, 3, 1).String())
	assert.Equal(t, "()", MakeShape().String())
}
