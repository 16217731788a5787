// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package params implements stochastic parameters, the configuration values
// of augmenters that are sampled anew for every image: a blur may take its
// sigma from a Uniform, a flip its on/off decision from a Binomial.
//
// All sampling goes through a random.State, so parameters are as
// reproducible as the state that feeds them.
package params

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
)

// Parameter is a value sampled from some distribution, one draw per call.
type Parameter interface {
	// Sample draws one value using state.
	Sample(state *random.State) float64

	// String returns a compact description, used when printing augmenters.
	String() string
}

// Samples draws n values from p into a new slice.
func Samples(p Parameter, state *random.State, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = p.Sample(state)
	}
	return values
}

// FromRange returns a parameter uniform over [low, high), collapsed to a
// Deterministic when low == high. It is the usual way augmenter constructors
// turn a (min, max) pair into a parameter.
func FromRange(low, high float64) Parameter {
	if low == high {
		return NewDeterministic(low)
	}
	return NewUniform(low, high)
}

// Deterministic is a parameter that always samples the same fixed value.
// It consumes no random draws.
type Deterministic struct {
	Value float64
}

// NewDeterministic returns a parameter fixed to the given value.
func NewDeterministic(value float64) *Deterministic {
	return &Deterministic{Value: value}
}

// Sample implements Parameter.
func (p *Deterministic) Sample(_ *random.State) float64 {
	return p.Value
}

// String implements Parameter.
func (p *Deterministic) String() string {
	return fmt.Sprintf("Deterministic(%g)", p.Value)
}

// Uniform samples uniformly from the interval [Low, High).
type Uniform struct {
	Low, High float64
}

// NewUniform returns a parameter uniform over [low, high).
func NewUniform(low, high float64) *Uniform {
	if high < low {
		exceptions.Panicf("params.NewUniform: low (%g) must be <= high (%g)", low, high)
	}
	return &Uniform{Low: low, High: high}
}

// Sample implements Parameter.
func (p *Uniform) Sample(state *random.State) float64 {
	return distuv.Uniform{Min: p.Low, Max: p.High, Src: state}.Rand()
}

// String implements Parameter.
func (p *Uniform) String() string {
	return fmt.Sprintf("Uniform(%g, %g)", p.Low, p.High)
}

// DiscreteUniform samples integer values uniformly from [Low, High], both
// ends inclusive.
type DiscreteUniform struct {
	Low, High int
}

// NewDiscreteUniform returns a parameter uniform over the integers in
// [low, high], inclusive.
func NewDiscreteUniform(low, high int) *DiscreteUniform {
	if high < low {
		exceptions.Panicf("params.NewDiscreteUniform: low (%d) must be <= high (%d)", low, high)
	}
	return &DiscreteUniform{Low: low, High: high}
}

// Sample implements Parameter.
func (p *DiscreteUniform) Sample(state *random.State) float64 {
	return float64(state.IntRange(p.Low, p.High+1))
}

// String implements Parameter.
func (p *DiscreteUniform) String() string {
	return fmt.Sprintf("DiscreteUniform(%d, %d)", p.Low, p.High)
}

// Binomial samples 1 with probability P and 0 otherwise.
type Binomial struct {
	P float64
}

// NewBinomial returns a parameter that samples 1 with probability p.
func NewBinomial(p float64) *Binomial {
	if p < 0 || p > 1 {
		exceptions.Panicf("params.NewBinomial: probability must be in [0, 1], got %g", p)
	}
	return &Binomial{P: p}
}

// Sample implements Parameter.
func (p *Binomial) Sample(state *random.State) float64 {
	return distuv.Bernoulli{P: p.P, Src: state}.Rand()
}

// String implements Parameter.
func (p *Binomial) String() string {
	return fmt.Sprintf("Binomial(%g)", p.P)
}

// Normal samples from a gaussian with the given mean and standard deviation.
type Normal struct {
	Mean, StdDev float64
}

// NewNormal returns a gaussian parameter. A zero stdDev collapses it to the
// mean.
func NewNormal(mean, stdDev float64) *Normal {
	if stdDev < 0 {
		exceptions.Panicf("params.NewNormal: stdDev must be >= 0, got %g", stdDev)
	}
	return &Normal{Mean: mean, StdDev: stdDev}
}

// Sample implements Parameter.
func (p *Normal) Sample(state *random.State) float64 {
	return distuv.Normal{Mu: p.Mean, Sigma: p.StdDev, Src: state}.Rand()
}

// String implements Parameter.
func (p *Normal) String() string {
	return fmt.Sprintf("Normal(%g, %g)", p.Mean, p.StdDev)
}

// Choice samples uniformly from a fixed list of values.
type Choice struct {
	Values []float64
}

// NewChoice returns a parameter that picks one of the given values uniformly
// on every sample.
func NewChoice(values ...float64) *Choice {
	if len(values) == 0 {
		exceptions.Panicf("params.NewChoice: need at least one value to choose from")
	}
	return &Choice{Values: values}
}

// Sample implements Parameter.
func (p *Choice) Sample(state *random.State) float64 {
	return p.Values[state.Intn(len(p.Values))]
}

// String implements Parameter.
func (p *Choice) String() string {
	return fmt.Sprintf("Choice(%v)", p.Values)
}
