// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package params

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
)

func TestDeterministic(t *testing.T) {
	p := NewDeterministic(2.5)
	state := random.New(1)
	before := state.Snapshot()
	for range 5 {
		assert.Equal(t, 2.5, p.Sample(state))
	}
	assert.Equal(t, before, state.Snapshot(), "Deterministic must not consume draws")
	assert.Equal(t, "Deterministic(2.5)", p.String())
}

func TestUniform(t *testing.T) {
	p := NewUniform(-1, 3)
	state := random.New(2)
	for _, v := range Samples(p, state, 200) {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 3.0)
	}

	// Same seed, same samples.
	a := Samples(p, random.New(7), 10)
	b := Samples(p, random.New(7), 10)
	assert.Equal(t, a, b)

	assert.Equal(t, "Uniform(-1, 3)", p.String())
	err := exceptions.TryCatch[error](func() { _ = NewUniform(3, -1) })
	require.Error(t, err)
}

func TestFromRange(t *testing.T) {
	assert.IsType(t, &Deterministic{}, FromRange(2, 2))
	assert.IsType(t, &Uniform{}, FromRange(0, 2))
}

func TestDiscreteUniform(t *testing.T) {
	p := NewDiscreteUniform(0, 2)
	state := random.New(3)
	seen := make(map[float64]bool)
	for _, v := range Samples(p, state, 300) {
		assert.Contains(t, []float64{0, 1, 2}, v)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "all values of [0, 2] should appear, both ends inclusive")
	assert.Equal(t, "DiscreteUniform(0, 2)", p.String())
}

func TestBinomial(t *testing.T) {
	state := random.New(4)

	never := NewBinomial(0)
	always := NewBinomial(1)
	for range 100 {
		assert.Equal(t, 0.0, never.Sample(state))
		assert.Equal(t, 1.0, always.Sample(state))
	}

	fair := NewBinomial(0.5)
	ones := 0
	for _, v := range Samples(fair, state, 1000) {
		require.Contains(t, []float64{0, 1}, v)
		if v == 1 {
			ones++
		}
	}
	assert.Greater(t, ones, 400)
	assert.Less(t, ones, 600)

	assert.Equal(t, "Binomial(0.5)", fair.String())
	err := exceptions.TryCatch[error](func() { _ = NewBinomial(1.5) })
	require.Error(t, err)
}

func TestNormal(t *testing.T) {
	p := NewNormal(10, 2)
	sum := 0.0
	for _, v := range Samples(p, random.New(5), 2000) {
		sum += v
	}
	assert.InDelta(t, 10.0, sum/2000, 0.3)

	assert.Equal(t, 3.0, NewNormal(3, 0).Sample(random.New(1)), "zero stddev collapses to the mean")
	assert.Equal(t, "Normal(10, 2)", p.String())
	err := exceptions.TryCatch[error](func() { _ = NewNormal(0, -1) })
	require.Error(t, err)
}

func TestChoice(t *testing.T) {
	p := NewChoice(2, 4, 8)
	state := random.New(6)
	seen := make(map[float64]bool)
	for _, v := range Samples(p, state, 300) {
		assert.Contains(t, []float64{2, 4, 8}, v)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "Choice([2 4 8])", p.String())

	err := exceptions.TryCatch[error](func() { _ = NewChoice() })
	require.Error(t, err)
}
