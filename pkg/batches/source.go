// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package batches

import "io"

// Source produces the batches a BatchLoader feeds into the pipeline.
//
// Implementations return io.EOF once exhausted, and any other error to abort
// the stream. Next is called from a single loader goroutine, so it doesn't
// need to be concurrency-safe, but it should return promptly: the loader
// only checks for termination between calls.
type Source interface {
	// Next returns the next batch, or nil and io.EOF when exhausted.
	Next() (*Batch, error)
}

// SliceSource is a Source serving a fixed slice of batches in order.
type SliceSource struct {
	batches []*Batch
	next    int
}

// NewSliceSource returns a Source yielding the given batches in order.
func NewSliceSource(batches ...*Batch) *SliceSource {
	return &SliceSource{batches: batches}
}

// Next implements Source.
func (s *SliceSource) Next() (*Batch, error) {
	if s.next >= len(s.batches) {
		return nil, io.EOF
	}
	batch := s.batches[s.next]
	s.next++
	return batch, nil
}

// Reset rewinds the source to the first batch, for reuse across epochs.
func (s *SliceSource) Reset() {
	s.next = 0
}
