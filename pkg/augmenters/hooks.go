// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
)

// Hooks intercept augmentation calls: they can rewrite the data before and
// after an augmenter runs, deactivate augmenters, and stop composite
// augmenters from recursing into their children. Any nil field (or a nil
// *Hooks altogether) means "default behavior".
//
// The same hooks object is passed down to children, with the parents chain
// telling each callback where in the augmenter tree it is called.
type Hooks[T any] struct {
	// Activator decides whether augmenter runs at all. defaultTo is the
	// augmenter's own activation flag.
	Activator func(data T, augmenter *Augmenter, parents []*Augmenter, defaultTo bool) bool

	// Propagator decides whether a composite augmenter applies its
	// children. defaultTo is the composite's default, usually true.
	Propagator func(data T, augmenter *Augmenter, parents []*Augmenter, defaultTo bool) bool

	// Preprocessor rewrites the data before the augmenter transforms it.
	Preprocessor func(data T, augmenter *Augmenter, parents []*Augmenter) T

	// Postprocessor rewrites the data after the augmenter transformed it.
	Postprocessor func(data T, augmenter *Augmenter, parents []*Augmenter) T
}

// ImageHooks intercept image augmentation.
type ImageHooks = Hooks[[]*tensors.Tensor]

// KeypointHooks intercept keypoint (and bounding box) augmentation.
type KeypointHooks = Hooks[[]*annotations.KeypointsOnImage]

// IsActivated resolves the Activator, defaulting to defaultTo.
func (h *Hooks[T]) IsActivated(data T, augmenter *Augmenter, parents []*Augmenter, defaultTo bool) bool {
	if h == nil || h.Activator == nil {
		return defaultTo
	}
	return h.Activator(data, augmenter, parents, defaultTo)
}

// IsPropagating resolves the Propagator, defaulting to defaultTo.
func (h *Hooks[T]) IsPropagating(data T, augmenter *Augmenter, parents []*Augmenter, defaultTo bool) bool {
	if h == nil || h.Propagator == nil {
		return defaultTo
	}
	return h.Propagator(data, augmenter, parents, defaultTo)
}

// Preprocess resolves the Preprocessor, defaulting to the identity.
func (h *Hooks[T]) Preprocess(data T, augmenter *Augmenter, parents []*Augmenter) T {
	if h == nil || h.Preprocessor == nil {
		return data
	}
	return h.Preprocessor(data, augmenter, parents)
}

// Postprocess resolves the Postprocessor, defaulting to the identity.
func (h *Hooks[T]) Postprocess(data T, augmenter *Augmenter, parents []*Augmenter) T {
	if h == nil || h.Postprocessor == nil {
		return data
	}
	return h.Postprocessor(data, augmenter, parents)
}
