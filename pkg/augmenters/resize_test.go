// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
)

func TestResizeShape(t *testing.T) {
	aug := NewResize(4, 6)

	color := gradientImage(8, 12, 3)
	assert.True(t, aug.AugmentImage(color).Shape().Equal(tensors.MakeShape(4, 6, 3)))
	assert.True(t, color.Shape().Equal(tensors.MakeShape(8, 12, 3)), "input must stay untouched")

	// Rank-2 images come back rank-2.
	gray := gradientImage(8, 12)
	assert.True(t, aug.AugmentImage(gray).Shape().Equal(tensors.MakeShape(4, 6)))

	// Upscaling works too.
	small := gradientImage(2, 3, 1)
	assert.True(t, aug.AugmentImage(small).Shape().Equal(tensors.MakeShape(4, 6, 1)))
}

func TestResizeConstantImage(t *testing.T) {
	aug := NewResize(2, 2)
	img := tensors.FromShape(4, 4)
	data := img.Data()
	for i := range data {
		data[i] = 100
	}

	augmented := aug.AugmentImage(img)
	require.True(t, augmented.Shape().Equal(tensors.MakeShape(2, 2)))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, uint8(100), augmented.At(y, x), "resampling a constant image must not change its values")
		}
	}
}

func TestResizeSameSizePassThrough(t *testing.T) {
	aug := NewResize(4, 6)
	img := gradientImage(4, 6, 2)
	assert.True(t, aug.AugmentImage(img).Equal(img))
}

func TestResizeKeypointProjection(t *testing.T) {
	aug := NewResize(20, 40)
	koi := annotations.NewKeypointsOnImage([]annotations.Keypoint{{X: 5, Y: 2}, {X: 0, Y: 10}}, tensors.MakeShape(10, 20))

	augmented := aug.AugmentKeypoints([]*annotations.KeypointsOnImage{koi})[0]
	assert.Equal(t, annotations.Keypoint{X: 10, Y: 4}, augmented.Keypoints[0])
	assert.Equal(t, annotations.Keypoint{X: 0, Y: 20}, augmented.Keypoints[1])
	assert.True(t, augmented.Shape.Equal(tensors.MakeShape(20, 40)))

	// Keypoints on rank-3 shapes keep their channel dimension.
	koiColor := annotations.NewKeypointsOnImage([]annotations.Keypoint{{X: 5, Y: 2}}, tensors.MakeShape(10, 20, 3))
	augmentedColor := aug.AugmentKeypoints([]*annotations.KeypointsOnImage{koiColor})[0]
	assert.True(t, augmentedColor.Shape.Equal(tensors.MakeShape(20, 40, 3)))
}

func TestResizeBoundingBoxProjection(t *testing.T) {
	aug := NewResize(5, 5)
	bbsoi := annotations.NewBoundingBoxesOnImage([]annotations.BoundingBox{
		{X1: 2, Y1: 4, X2: 6, Y2: 8, Label: "car"},
	}, tensors.MakeShape(10, 10))

	augmented := aug.AugmentBoundingBoxes([]*annotations.BoundingBoxesOnImage{bbsoi})[0]
	assert.Equal(t, annotations.BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4, Label: "car"}, augmented.BoundingBoxes[0])
	assert.True(t, augmented.Shape.Equal(tensors.MakeShape(5, 5)))
}

func TestResizeValidation(t *testing.T) {
	err := exceptions.TryCatch[error](func() { _ = NewResize(0, 5) })
	require.ErrorIs(t, err, ErrInvalidArgument)
	err = exceptions.TryCatch[error](func() { _ = NewResize(5, 0) })
	require.ErrorIs(t, err, ErrInvalidArgument)
	err = exceptions.TryCatch[error](func() { _ = NewResize(-2, -2) })
	require.ErrorIs(t, err, ErrInvalidArgument)
}
