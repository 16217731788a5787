// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors/images"
	"github.com/xinxin12345/DL.EyeSight/pkg/params"
)

// Resize rescales every image to a fixed height and width, and projects
// keypoints onto the new size, so their relative position on the image is
// preserved.
//
// Resampling uses a Lanczos kernel, channel by channel, so images may have
// any number of channels.
type Resize struct {
	height, width int
}

// NewResize returns an augmenter that resizes every image to
// `(height, width)`. It panics with an error wrapping ErrInvalidArgument if
// either is < 1.
func NewResize(height, width int) *Augmenter {
	if height < 1 || width < 1 {
		panic(errors.Wrapf(ErrInvalidArgument, "augmenters.NewResize: target size must be at least 1x1, got %dx%d", height, width))
	}
	return New(&Resize{height: height, width: width})
}

// AugmentImages implements Interface. Images already at the target size are
// passed through untouched.
func (r *Resize) AugmentImages(imgs []*tensors.Tensor, _ *random.State, _ *Augmenter, _ []*Augmenter, _ *ImageHooks) []*tensors.Tensor {
	for i, img := range imgs {
		height, width := img.Shape().HeightWidth()
		if height == r.height && width == r.width {
			continue
		}
		channels := img.Shape().Dim(-1)
		resized := tensors.FromShape(r.height, r.width, channels)
		for c := 0; c < channels; c++ {
			plane := images.ChannelToGray(img, c)
			images.SetChannelFromGray(resized, c, imaging.Resize(plane, r.width, r.height, imaging.Lanczos))
		}
		imgs[i] = resized
	}
	return imgs
}

// AugmentKeypoints implements Interface: keypoints are projected onto the
// target size (see Keypoint.Project), keeping the channel dimension of their
// image shape if it has one.
func (r *Resize) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, _ *random.State, _ *Augmenter, _ []*Augmenter, _ *KeypointHooks) []*annotations.KeypointsOnImage {
	for i, koi := range keypoints {
		target := tensors.MakeShape(r.height, r.width)
		if koi.Shape.Rank() == 3 {
			target = tensors.MakeShape(r.height, r.width, koi.Shape.Dim(2))
		}
		keypoints[i] = koi.OnShape(target)
	}
	return keypoints
}

// Parameters implements Interface.
func (r *Resize) Parameters() []params.Parameter {
	return []params.Parameter{
		params.NewDeterministic(float64(r.height)),
		params.NewDeterministic(float64(r.width)),
	}
}
