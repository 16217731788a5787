// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package xslices provide missing functionality to the slices package.
package xslices

// At returns the element at the given index. If the index is negative, it
// refers to the distance from the end of the slice, so At(slice, -1) returns
// the last element.
func At[T any](slice []T, index int) T {
	if index < 0 {
		index = len(slice) + index
	}
	return slice[index]
}

// Copy creates a new slice with copied values of the given slice.
func Copy[T any](slice []T) []T {
	if slice == nil {
		return nil
	}
	s := make([]T, len(slice))
	copy(s, slice)
	return s
}

// Map executes the given function sequentially for every element on in, and
// returns a mapped slice.
func Map[In, Out any](in []In, fn func(e In) Out) []Out {
	out := make([]Out, len(in))
	for i, e := range in {
		out[i] = fn(e)
	}
	return out
}
