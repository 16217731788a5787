// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Tensor is a dense uint8 array of arbitrary rank, stored in row-major
// order. It is the in-memory representation of images and image stacks.
//
// Tensors are not concurrency-safe for mutation: callers that share a tensor
// across goroutines must synchronize or clone.
type Tensor struct {
	shape Shape
	data  []uint8
}

// FromShape creates a zero-initialized tensor with the given dimensions.
func FromShape(dimensions ...int) *Tensor {
	shape := MakeShape(dimensions...)
	return &Tensor{
		shape: shape,
		data:  make([]uint8, shape.Size()),
	}
}

// FromFlat creates a tensor wrapping the given flat data, interpreted in
// row-major order with the given dimensions. The tensor takes over the slice,
// it is not copied. It panics with an error wrapping ErrInvalidShape if the
// data length doesn't match the shape size.
func FromFlat(data []uint8, dimensions ...int) *Tensor {
	shape := MakeShape(dimensions...)
	if len(data) != shape.Size() {
		panic(errors.Wrapf(ErrInvalidShape, "FromFlat: shape %s requires %d elements, got %d", shape, shape.Size(), len(data)))
	}
	return &Tensor{shape: shape, data: data}
}

// Shape of the tensor.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of axes, short for t.Shape().Rank().
func (t *Tensor) Rank() int {
	return t.shape.Rank()
}

// Size returns the number of elements, short for t.Shape().Size().
func (t *Tensor) Size() int {
	return t.shape.Size()
}

// Data returns the tensor's backing buffer in row-major order. Mutations to
// the returned slice are reflected in the tensor.
func (t *Tensor) Data() []uint8 {
	return t.data
}

// offset converts per-axis indices to a position in the flat data.
func (t *Tensor) offset(indices []int) int {
	if len(indices) != t.Rank() {
		exceptions.Panicf("tensors: got %d indices for rank-%d tensor with shape %s", len(indices), t.Rank(), t.shape)
	}
	pos := 0
	for axis, index := range indices {
		dim := t.shape.Dimensions[axis]
		if index < 0 || index >= dim {
			exceptions.Panicf("tensors: index %d out of range for axis %d of shape %s", index, axis, t.shape)
		}
		pos = pos*dim + index
	}
	return pos
}

// At returns the element at the given per-axis indices.
func (t *Tensor) At(indices ...int) uint8 {
	return t.data[t.offset(indices)]
}

// Set stores value at the given per-axis indices.
func (t *Tensor) Set(value uint8, indices ...int) {
	t.data[t.offset(indices)] = value
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	data := make([]uint8, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data}
}

// Equal compares shape and contents.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.shape.Equal(other.shape) && bytes.Equal(t.data, other.data)
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%s)", t.shape)
}

// EnsureChannelAxis returns a rank-3 `(H, W, C)` view of an image tensor.
// Rank-2 `(H, W)` tensors get a trailing channel axis of dimension 1 added;
// the returned tensor shares the receiver's buffer and added reports true.
// Rank-3 tensors are returned unchanged with added=false.
// Any other rank panics with an error wrapping ErrInvalidShape.
func (t *Tensor) EnsureChannelAxis() (image *Tensor, added bool) {
	switch t.Rank() {
	case 2:
		return &Tensor{
			shape: MakeShape(t.shape.Dimensions[0], t.shape.Dimensions[1], 1),
			data:  t.data,
		}, true
	case 3:
		return t, false
	default:
		panic(errors.Wrapf(ErrInvalidShape, "EnsureChannelAxis: image must have shape (H, W) or (H, W, C), got %s", t.shape))
	}
}

// DropChannelAxis returns a rank-2 `(H, W)` view of a rank-3 `(H, W, 1)`
// tensor, sharing the receiver's buffer. It reverses EnsureChannelAxis and
// panics with an error wrapping ErrInvalidShape if the tensor is not rank-3
// with a single channel.
func (t *Tensor) DropChannelAxis() *Tensor {
	if t.Rank() != 3 || t.shape.Dim(-1) != 1 {
		panic(errors.Wrapf(ErrInvalidShape, "DropChannelAxis: image must have shape (H, W, 1), got %s", t.shape))
	}
	return &Tensor{
		shape: MakeShape(t.shape.Dimensions[0], t.shape.Dimensions[1]),
		data:  t.data,
	}
}

// FlipHorizontal mirrors the tensor in place along its second axis. On an
// image shaped `(H, W)` or `(H, W, C)` that is a left-right mirror; pixels
// keep their channels together. It panics with an error wrapping
// ErrInvalidShape on tensors of rank < 2.
func (t *Tensor) FlipHorizontal() {
	rows, cols, block := t.rowColBlock("FlipHorizontal")
	data := t.data
	for row := 0; row < rows; row++ {
		line := data[row*cols*block : (row+1)*cols*block]
		for col := 0; col < cols/2; col++ {
			left := line[col*block : (col+1)*block]
			right := line[(cols-1-col)*block : (cols-col)*block]
			for i := range left {
				left[i], right[i] = right[i], left[i]
			}
		}
	}
}

// FlipVertical mirrors the tensor in place along its first axis. On an image
// shaped `(H, W)` or `(H, W, C)` that is a top-bottom mirror. It panics with
// an error wrapping ErrInvalidShape on tensors of rank < 2.
func (t *Tensor) FlipVertical() {
	rows, cols, block := t.rowColBlock("FlipVertical")
	data := t.data
	lineSize := cols * block
	for row := 0; row < rows/2; row++ {
		top := data[row*lineSize : (row+1)*lineSize]
		bottom := data[(rows-1-row)*lineSize : (rows-row)*lineSize]
		for i := range top {
			top[i], bottom[i] = bottom[i], top[i]
		}
	}
}

// rowColBlock decomposes the shape for the flip operations: the first two
// dimensions plus the size of everything beyond them.
func (t *Tensor) rowColBlock(op string) (rows, cols, block int) {
	if t.Rank() < 2 {
		panic(errors.Wrapf(ErrInvalidShape, "%s: tensor must have rank >= 2, got shape %s", op, t.shape))
	}
	rows, cols = t.shape.Dimensions[0], t.shape.Dimensions[1]
	block = 1
	for _, dim := range t.shape.Dimensions[2:] {
		block *= dim
	}
	return
}

// Unstack splits the tensor along its leading axis, returning one tensor per
// entry. The returned tensors are views sharing the receiver's buffer.
// It panics with an error wrapping ErrInvalidShape on tensors of rank < 2.
func (t *Tensor) Unstack() []*Tensor {
	if t.Rank() < 2 {
		panic(errors.Wrapf(ErrInvalidShape, "Unstack: tensor must have rank >= 2, got shape %s", t.shape))
	}
	count := t.shape.Dimensions[0]
	subDims := t.shape.Dimensions[1:]
	stride := 1
	for _, dim := range subDims {
		stride *= dim
	}
	parts := make([]*Tensor, count)
	for i := range parts {
		parts[i] = &Tensor{
			shape: MakeShape(subDims...),
			data:  t.data[i*stride : (i+1)*stride : (i+1)*stride],
		}
	}
	return parts
}

// Stack combines tensors of identical shape into one tensor with a new
// leading axis of dimension len(parts). Contents are copied. It panics with
// an error wrapping ErrInvalidShape if parts is empty or shapes differ.
func Stack(parts []*Tensor) *Tensor {
	if len(parts) == 0 {
		panic(errors.Wrap(ErrInvalidShape, "Stack: cannot stack zero tensors"))
	}
	first := parts[0].shape
	dims := append([]int{len(parts)}, first.Dimensions...)
	stacked := FromShape(dims...)
	stride := first.Size()
	for i, part := range parts {
		if !part.shape.Equal(first) {
			panic(errors.Wrapf(ErrInvalidShape, "Stack: tensor #%d has shape %s, want %s", i, part.shape, first))
		}
		copy(stacked.data[i*stride:(i+1)*stride], part.data)
	}
	return stacked
}
