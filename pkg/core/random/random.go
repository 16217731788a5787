// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package random implements the seedable random state used by all
// augmenters, with support for snapshotting and restoring the generator so
// a sequence of draws can be replayed exactly.
//
// A State wraps a PCG generator. It implements both rand.Source from
// golang.org/x/exp/rand and math/rand/v2.Source, so it plugs directly into
// the gonum distributions used by the params package.
//
// States are not safe for concurrent use: each augmenter owns its state, and
// background pipelines hand whole batches to a single worker.
package random

import (
	"sync"

	"github.com/gomlx/exceptions"
	"golang.org/x/exp/rand"
)

// DefaultSeed seeds the process-wide state returned by Current on first use.
const DefaultSeed uint64 = 42

var (
	muCurrent sync.Mutex
	current   *State
)

// Current returns the process-wide shared state. Augmenters created without
// an explicit seed draw from it, so seeding it (see Seed) makes a whole
// augmentation program reproducible.
func Current() *State {
	muCurrent.Lock()
	defer muCurrent.Unlock()
	if current == nil {
		current = New(DefaultSeed)
	}
	return current
}

// Seed re-seeds the process-wide state returned by Current.
func Seed(seed uint64) {
	Current().Seed(seed)
}

// State is a seedable, snapshottable random number generator.
type State struct {
	src *rand.PCGSource
	rng *rand.Rand
}

// New returns a State seeded with the given seed. Equal seeds produce equal
// draw sequences.
func New(seed uint64) *State {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return &State{src: src, rng: rand.New(src)}
}

// NewAuto returns a new State seeded from the process-wide state, so
// successive calls return generators with unrelated draw sequences.
func NewAuto() *State {
	return Current().Derive()
}

// Seed resets the state to the deterministic sequence of the given seed.
func (s *State) Seed(seed uint64) {
	s.src.Seed(seed)
}

// Uint64 returns the next raw draw. Together with Seed this makes State a
// rand.Source, and on its own a math/rand/v2.Source.
func (s *State) Uint64() uint64 {
	return s.src.Uint64()
}

// Snapshot captures the generator's position so it can be restored later
// with Restore. The snapshot is independent of the State object.
func (s *State) Snapshot() []byte {
	data, err := s.src.MarshalBinary()
	if err != nil {
		exceptions.Panicf("random: failed to snapshot generator state: %v", err)
	}
	return data
}

// Restore rewinds the generator to a position captured by Snapshot. The
// draws that follow repeat exactly the draws that followed the snapshot.
func (s *State) Restore(snapshot []byte) {
	if err := s.src.UnmarshalBinary(snapshot); err != nil {
		exceptions.Panicf("random: failed to restore generator state: %v", err)
	}
}

// Copy returns a new State at the same position as s: both produce the same
// draws from here on, but advance independently.
func (s *State) Copy() *State {
	c := New(0)
	c.Restore(s.Snapshot())
	return c
}

// Forward advances the state by one draw, discarding the value. Augmenters
// call it after handing a Copy to their transform, so the next augmentation
// starts from a fresh position.
func (s *State) Forward() {
	_ = s.src.Uint64()
}

// Derive returns a new State seeded from the next draw of s.
func (s *State) Derive() *State {
	return New(s.Uint64())
}

// Intn returns a draw uniform in [0, n). It panics if n <= 0.
func (s *State) Intn(n int) int {
	return s.rng.Intn(n)
}

// IntRange returns a draw uniform in [low, high). It panics if high <= low.
func (s *State) IntRange(low, high int) int {
	return low + s.rng.Intn(high-low)
}

// Float64 returns a draw uniform in [0, 1).
func (s *State) Float64() float64 {
	return s.rng.Float64()
}

// NormFloat64 returns a standard normal draw.
func (s *State) NormFloat64() float64 {
	return s.rng.NormFloat64()
}

// Perm returns a random permutation of [0, n).
func (s *State) Perm(n int) []int {
	return s.rng.Perm(n)
}

// Shuffle randomizes the order of n elements through the swap function.
func (s *State) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
