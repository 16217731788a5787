// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"github.com/gomlx/exceptions"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/params"
	"github.com/xinxin12345/DL.EyeSight/pkg/support/xslices"
)

// Sequential applies child augmenters in order, each child receiving the
// previous child's output. Children keep their own random states; hooks can
// stop the recursion through their Propagator.
type Sequential struct {
	children []*Augmenter
}

// NewSequential returns an augmenter applying the given children in order.
//
//	aug := augmenters.NewSequential(
//		augmenters.NewFliplr(0.5),
//		augmenters.NewGaussianBlurRange(0, 3),
//	)
func NewSequential(children ...*Augmenter) *Augmenter {
	return New(&Sequential{children: children})
}

// AugmentImages implements Interface: it chains the children, feeding each
// one the previous output.
func (s *Sequential) AugmentImages(images []*tensors.Tensor, _ *random.State, owner *Augmenter, parents []*Augmenter, hooks *ImageHooks) []*tensors.Tensor {
	if !hooks.IsPropagating(images, owner, parents, true) {
		return images
	}
	childParents := append(xslices.Copy(parents), owner)
	for _, child := range s.children {
		images = child.augmentImages(images, childParents, hooks)
	}
	return images
}

// AugmentKeypoints implements Interface, chaining like AugmentImages.
func (s *Sequential) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, _ *random.State, owner *Augmenter, parents []*Augmenter, hooks *KeypointHooks) []*annotations.KeypointsOnImage {
	if !hooks.IsPropagating(keypoints, owner, parents, true) {
		return keypoints
	}
	childParents := append(xslices.Copy(parents), owner)
	for _, child := range s.children {
		keypoints = child.augmentKeypoints(keypoints, childParents, hooks)
	}
	return keypoints
}

// Parameters implements Interface. The configuration is in the children,
// Sequential itself has none.
func (s *Sequential) Parameters() []params.Parameter {
	return nil
}

// Add appends children to the sequence. Access it through the wrapping
// augmenter's Op:
//
//	aug.Op().(*Sequential).Add(augmenters.NewFlipud(0.1))
func (s *Sequential) Add(children ...*Augmenter) {
	s.children = append(s.children, children...)
}

// Len returns the number of children.
func (s *Sequential) Len() int {
	return len(s.children)
}

// ChildrenLists implements Composite: Sequential keeps one list.
func (s *Sequential) ChildrenLists() [][]*Augmenter {
	return [][]*Augmenter{s.children}
}

// WithChildren implements Composite.
func (s *Sequential) WithChildren(children [][]*Augmenter) Interface {
	if len(children) != 1 {
		exceptions.Panicf("Sequential.WithChildren: expected 1 children list, got %d", len(children))
	}
	return &Sequential{children: children[0]}
}
