// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
)

func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 10),
				G: uint8(y * 10),
				B: uint8(x + y),
				A: 0xFF,
			})
		}
	}
	return img
}

func TestToTensorSingle(t *testing.T) {
	img := testImage(4, 3)
	tensor := ToTensor().Single(img)
	require.True(t, tensor.Shape().Equal(tensors.MakeShape(3, 4, 3)))
	assert.Equal(t, uint8(20), tensor.At(1, 2, 0), "red channel at (x=2, y=1)")
	assert.Equal(t, uint8(10), tensor.At(1, 2, 1), "green channel at (x=2, y=1)")
	assert.Equal(t, uint8(3), tensor.At(1, 2, 2), "blue channel at (x=2, y=1)")

	withAlpha := ToTensor().WithAlpha().Single(img)
	require.True(t, withAlpha.Shape().Equal(tensors.MakeShape(3, 4, 4)))
	assert.Equal(t, uint8(0xFF), withAlpha.At(0, 0, 3))

	gray := ToTensor().Gray().Single(img)
	require.True(t, gray.Shape().Equal(tensors.MakeShape(3, 4, 1)))
}

func TestToTensorBatch(t *testing.T) {
	batch := ToTensor().Batch([]image.Image{testImage(4, 3), testImage(4, 3)})
	require.True(t, batch.Shape().Equal(tensors.MakeShape(2, 3, 4, 3)))

	err := exceptions.TryCatch[error](func() { _ = ToTensor().Batch(nil) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)

	err = exceptions.TryCatch[error](func() {
		_ = ToTensor().Batch([]image.Image{testImage(4, 3), testImage(3, 4)})
	})
	require.ErrorIs(t, err, tensors.ErrInvalidShape, "mixed sizes cannot be stacked")
}

func TestToImageRoundTrip(t *testing.T) {
	img := testImage(5, 4)
	tensor := ToTensor().Single(img)
	back := ToImage().Single(tensor)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, img.NRGBAAt(x, y), back.NRGBAAt(x, y), "pixel (%d, %d)", x, y)
		}
	}

	// Gray tensors replicate the single channel to R, G and B.
	grayTensor := tensors.FromFlat([]uint8{7, 8, 9, 10}, 2, 2, 1)
	grayImg := ToImage().Single(grayTensor)
	assert.Equal(t, color.NRGBA{R: 7, G: 7, B: 7, A: 0xFF}, grayImg.NRGBAAt(0, 0))

	err := exceptions.TryCatch[error](func() { _ = ToImage().Single(tensors.FromShape(4, 4)) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
	err = exceptions.TryCatch[error](func() { _ = ToImage().Single(tensors.FromShape(4, 4, 2)) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
}

func TestToImageBatch(t *testing.T) {
	batch := ToTensor().Batch([]image.Image{testImage(4, 3), testImage(4, 3)})
	imgs := ToImage().Batch(batch)
	require.Len(t, imgs, 2)
	assert.Equal(t, 4, imgs[0].Bounds().Dx())
	assert.Equal(t, 3, imgs[0].Bounds().Dy())

	err := exceptions.TryCatch[error](func() { _ = ToImage().Batch(tensors.FromShape(4, 4, 3)) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
}

func TestChannelPlanes(t *testing.T) {
	tensor := ToTensor().Single(testImage(4, 3))
	green := ChannelToGray(tensor, 1)
	assert.Equal(t, uint8(20), green.GrayAt(1, 2).Y, "green channel at (x=1, y=2)")

	// Writing the plane back must restore the same channel bytes exactly.
	clone := tensor.Clone()
	SetChannelFromGray(clone, 1, green)
	assert.True(t, clone.Equal(tensor))

	err := exceptions.TryCatch[error](func() { _ = ChannelToGray(tensor, 3) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
	err = exceptions.TryCatch[error](func() {
		SetChannelFromGray(tensor, 0, image.NewGray(image.Rect(0, 0, 2, 2)))
	})
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
}
