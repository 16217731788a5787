// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"github.com/disintegration/imaging"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors/images"
	"github.com/xinxin12345/DL.EyeSight/pkg/params"
)

// GaussianBlur blurs each image with a sigma sampled per image. The blur is
// applied channel by channel, so images may have any number of channels.
//
// Blurring moves no pixel to a new position, so keypoints pass through
// unchanged.
type GaussianBlur struct {
	sigma params.Parameter
}

// NewGaussianBlur returns an augmenter that blurs every image with the given
// fixed sigma. A sigma of 0 disables the blur.
func NewGaussianBlur(sigma float64) *Augmenter {
	return New(&GaussianBlur{sigma: params.NewDeterministic(sigma)})
}

// NewGaussianBlurRange returns an augmenter that blurs each image with a
// sigma sampled uniformly from [low, high).
func NewGaussianBlurRange(low, high float64) *Augmenter {
	return New(&GaussianBlur{sigma: params.FromRange(low, high)})
}

// AugmentImages implements Interface: it samples one sigma per image and
// blurs the image in place, channel plane by channel plane.
func (g *GaussianBlur) AugmentImages(imgs []*tensors.Tensor, state *random.State, _ *Augmenter, _ []*Augmenter, _ *ImageHooks) []*tensors.Tensor {
	for _, img := range imgs {
		sigma := g.sigma.Sample(state)
		if sigma <= 0 {
			continue
		}
		channels := img.Shape().Dim(-1)
		for c := 0; c < channels; c++ {
			plane := images.ChannelToGray(img, c)
			images.SetChannelFromGray(img, c, imaging.Blur(plane, sigma))
		}
	}
	return imgs
}

// AugmentKeypoints implements Interface: blurring doesn't move keypoints.
func (g *GaussianBlur) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, _ *random.State, _ *Augmenter, _ []*Augmenter, _ *KeypointHooks) []*annotations.KeypointsOnImage {
	return keypoints
}

// Parameters implements Interface.
func (g *GaussianBlur) Parameters() []params.Parameter {
	return []params.Parameter{g.sigma}
}
