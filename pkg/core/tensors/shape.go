// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements the dense uint8 tensors that carry images
// through the augmentation pipeline.
//
// A Tensor is a flat []uint8 buffer plus a Shape. Single images are rank-2
// `(height, width)` or rank-3 `(height, width, channels)`; stacks of
// same-sized images are rank-3 `(batch, height, width)` or rank-4
// `(batch, height, width, channels)`.
package tensors

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/support/xslices"
)

// ErrInvalidShape is wrapped in the panics raised by operations that are
// given tensors of an unsupported rank or with incompatible dimensions.
// Test with errors.Is.
var ErrInvalidShape = errors.New("invalid shape")

// Shape holds the dimensions of a tensor, one value per axis.
//
// Shape is usually passed by value. Its Dimensions slice is shared by
// copies, and must not be mutated; use Clone if a mutable copy is needed.
type Shape struct {
	Dimensions []int
}

// MakeShape returns a Shape with the given dimensions. Dimensions must be
// non-negative: zero-sized axes are allowed, so empty batches have a valid
// shape. It panics with an error wrapping ErrInvalidShape otherwise.
func MakeShape(dimensions ...int) Shape {
	for _, dim := range dimensions {
		if dim < 0 {
			panic(errors.Wrapf(ErrInvalidShape, "MakeShape(%v): dimensions must be non-negative", dimensions))
		}
	}
	return Shape{Dimensions: xslices.Copy(dimensions)}
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s.Dimensions)
}

// Dim returns the dimension of the given axis. A negative axis counts from
// the end, so Dim(-1) is the dimension of the last axis.
// It panics with an error wrapping ErrInvalidShape if axis is out of range.
func (s Shape) Dim(axis int) int {
	adjusted := axis
	if adjusted < 0 {
		adjusted = s.Rank() + adjusted
	}
	if adjusted < 0 || adjusted >= s.Rank() {
		panic(errors.Wrapf(ErrInvalidShape, "Shape.Dim(%d): axis out of range for rank %d shape %s", axis, s.Rank(), s))
	}
	return s.Dimensions[adjusted]
}

// Size returns the number of elements a tensor of this shape holds, that is,
// the product of all dimensions. The size of a rank-0 shape is 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// HeightWidth returns the first two dimensions of the shape. It is meant for
// image shapes, rank-2 `(H, W)` or rank-3 `(H, W, C)`, and panics with an
// error wrapping ErrInvalidShape for shapes of rank < 2.
func (s Shape) HeightWidth() (height, width int) {
	if s.Rank() < 2 {
		panic(errors.Wrapf(ErrInvalidShape, "Shape.HeightWidth: image shape must have rank >= 2, got %s", s))
	}
	return s.Dimensions[0], s.Dimensions[1]
}

// Equal compares two shapes for equality: same rank and same dimensions.
func (s Shape) Equal(other Shape) bool {
	if s.Rank() != other.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if other.Dimensions[axis] != dim {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the shape, with its own Dimensions slice.
func (s Shape) Clone() Shape {
	return Shape{Dimensions: xslices.Copy(s.Dimensions)}
}

// String implements fmt.Stringer, printing the dimensions as "(H, W, C)".
func (s Shape) String() string {
	str := "("
	for axis, dim := range s.Dimensions {
		if axis > 0 {
			str += ", "
		}
		str += fmt.Sprintf("%d", dim)
	}
	return str + ")"
}
