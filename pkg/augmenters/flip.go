// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/params"
)

// Fliplr mirrors each image horizontally with a sampled probability, and
// mirrors the image's keypoints with it: a keypoint at x moves to
// width-1-x, matching exactly where its pixel went.
type Fliplr struct {
	p params.Parameter
}

// NewFliplr returns an augmenter that flips each image left-right with
// probability p.
func NewFliplr(p float64) *Augmenter {
	return New(&Fliplr{p: params.NewBinomial(p)})
}

// AugmentImages implements Interface: one Binomial draw per image, flipping
// the image in place when it comes up 1.
func (f *Fliplr) AugmentImages(images []*tensors.Tensor, state *random.State, _ *Augmenter, _ []*Augmenter, _ *ImageHooks) []*tensors.Tensor {
	for _, image := range images {
		if f.p.Sample(state) > 0.5 {
			image.FlipHorizontal()
		}
	}
	return images
}

// AugmentKeypoints implements Interface. It samples one draw per
// KeypointsOnImage, exactly like AugmentImages samples one per image, so a
// deterministic augmenter flips keypoints #i if and only if it flips
// image #i.
func (f *Fliplr) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, state *random.State, _ *Augmenter, _ []*Augmenter, _ *KeypointHooks) []*annotations.KeypointsOnImage {
	for _, koi := range keypoints {
		if f.p.Sample(state) > 0.5 {
			width := float64(koi.Width())
			for i, kp := range koi.Keypoints {
				koi.Keypoints[i] = annotations.Keypoint{X: width - 1 - kp.X, Y: kp.Y}
			}
		}
	}
	return keypoints
}

// Parameters implements Interface.
func (f *Fliplr) Parameters() []params.Parameter {
	return []params.Parameter{f.p}
}

// Flipud is Fliplr's vertical counterpart: it mirrors images top-bottom,
// moving keypoints from y to height-1-y.
type Flipud struct {
	p params.Parameter
}

// NewFlipud returns an augmenter that flips each image top-bottom with
// probability p.
func NewFlipud(p float64) *Augmenter {
	return New(&Flipud{p: params.NewBinomial(p)})
}

// AugmentImages implements Interface.
func (f *Flipud) AugmentImages(images []*tensors.Tensor, state *random.State, _ *Augmenter, _ []*Augmenter, _ *ImageHooks) []*tensors.Tensor {
	for _, image := range images {
		if f.p.Sample(state) > 0.5 {
			image.FlipVertical()
		}
	}
	return images
}

// AugmentKeypoints implements Interface.
func (f *Flipud) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, state *random.State, _ *Augmenter, _ []*Augmenter, _ *KeypointHooks) []*annotations.KeypointsOnImage {
	for _, koi := range keypoints {
		if f.p.Sample(state) > 0.5 {
			height := float64(koi.Height())
			for i, kp := range koi.Keypoints {
				koi.Keypoints[i] = annotations.Keypoint{X: kp.X, Y: height - 1 - kp.Y}
			}
		}
	}
	return keypoints
}

// Parameters implements Interface.
func (f *Flipud) Parameters() []params.Parameter {
	return []params.Parameter{f.p}
}
