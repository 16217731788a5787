// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/params"
)

// Noop changes nothing. Useful as a placeholder, e.g. to compare augmented
// and untouched pipelines with the same structure.
type Noop struct{}

// NewNoop returns an augmenter that passes data through unchanged.
func NewNoop() *Augmenter {
	return New(&Noop{})
}

// AugmentImages implements Interface.
func (n *Noop) AugmentImages(images []*tensors.Tensor, _ *random.State, _ *Augmenter, _ []*Augmenter, _ *ImageHooks) []*tensors.Tensor {
	return images
}

// AugmentKeypoints implements Interface.
func (n *Noop) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, _ *random.State, _ *Augmenter, _ []*Augmenter, _ *KeypointHooks) []*annotations.KeypointsOnImage {
	return keypoints
}

// Parameters implements Interface.
func (n *Noop) Parameters() []params.Parameter {
	return nil
}
