// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package images provides functions to transform images back and forth
// from tensors, and to access individual channel planes.
//
// Tensors of images are always uint8, shaped `(height, width, channels)`,
// or `(batch, height, width, channels)` for stacks.
package images

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/support/xslices"
)

// ToTensorConfig holds the configuration returned by the ToTensor function.
// Once configured, use Single or Batch to actually convert.
type ToTensorConfig struct {
	channels int
}

// ToTensor converts an image (or batch of images) to a tensor.
//
// It returns a configuration object that can be further configured. Call
// Single or Batch to do the actual conversion.
func ToTensor() *ToTensorConfig {
	return &ToTensorConfig{channels: 3}
}

// WithAlpha configures the conversion to include the alpha channel, so the
// resulting tensor has 4 channels.
func (tt *ToTensorConfig) WithAlpha() *ToTensorConfig {
	tt.channels = 4
	return tt
}

// Gray configures the conversion to collapse the image to one gray channel.
func (tt *ToTensorConfig) Gray() *ToTensorConfig {
	tt.channels = 1
	return tt
}

// Single converts one image to a tensor shaped `(height, width, channels)`.
func (tt *ToTensorConfig) Single(img image.Image) *tensors.Tensor {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	t := tensors.FromShape(height, width, tt.channels)
	data := t.Data()
	pos := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			switch tt.channels {
			case 1:
				gray := color.GrayModel.Convert(pixel).(color.Gray)
				data[pos] = gray.Y
				pos++
			case 3:
				nrgba := color.NRGBAModel.Convert(pixel).(color.NRGBA)
				data[pos], data[pos+1], data[pos+2] = nrgba.R, nrgba.G, nrgba.B
				pos += 3
			default:
				nrgba := color.NRGBAModel.Convert(pixel).(color.NRGBA)
				data[pos], data[pos+1], data[pos+2], data[pos+3] = nrgba.R, nrgba.G, nrgba.B, nrgba.A
				pos += 4
			}
		}
	}
	return t
}

// Batch converts a list of images, all of the same size, to a tensor shaped
// `(batch, height, width, channels)`. It panics with an error wrapping
// tensors.ErrInvalidShape if the list is empty or the sizes differ.
func (tt *ToTensorConfig) Batch(imgs []image.Image) *tensors.Tensor {
	if len(imgs) == 0 {
		panic(errors.Wrap(tensors.ErrInvalidShape, "images.ToTensor().Batch: cannot convert an empty list of images"))
	}
	return tensors.Stack(xslices.Map(imgs, tt.Single))
}

// ToImageConfig holds the configuration returned by the ToImage function.
// Once configured, use Single or Batch to actually convert.
type ToImageConfig struct{}

// ToImage converts a tensor to an image (or batch of images).
//
// Tensors must have 1 (gray), 3 (RGB) or 4 (RGB+alpha) channels in the last
// axis. Call Single or Batch on the returned configuration to do the actual
// conversion.
func ToImage() *ToImageConfig {
	return &ToImageConfig{}
}

// Single converts a tensor shaped `(height, width, channels)` to an image.
func (ti *ToImageConfig) Single(t *tensors.Tensor) *image.NRGBA {
	if t.Rank() != 3 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.ToImage().Single: image tensor must have shape (H, W, C), got %s", t.Shape()))
	}
	height, width := t.Shape().HeightWidth()
	channels := t.Shape().Dim(-1)
	if channels != 1 && channels != 3 && channels != 4 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.ToImage().Single: tensor must have 1, 3 or 4 channels, got shape %s", t.Shape()))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	data := t.Data()
	pos := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var pixel color.NRGBA
			switch channels {
			case 1:
				value := data[pos]
				pixel = color.NRGBA{R: value, G: value, B: value, A: 0xFF}
				pos++
			case 3:
				pixel = color.NRGBA{R: data[pos], G: data[pos+1], B: data[pos+2], A: 0xFF}
				pos += 3
			default:
				pixel = color.NRGBA{R: data[pos], G: data[pos+1], B: data[pos+2], A: data[pos+3]}
				pos += 4
			}
			img.SetNRGBA(x, y, pixel)
		}
	}
	return img
}

// Batch converts a tensor shaped `(batch, height, width, channels)` to a
// list of images.
func (ti *ToImageConfig) Batch(t *tensors.Tensor) []*image.NRGBA {
	if t.Rank() != 4 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.ToImage().Batch: batch tensor must have shape (N, H, W, C), got %s", t.Shape()))
	}
	return xslices.Map(t.Unstack(), ti.Single)
}

// ChannelToGray extracts one channel plane of a rank-3 `(H, W, C)` tensor as
// a grayscale image. Filters that operate on whole images, like blurs and
// resizes, are applied per channel through this plane view.
func ChannelToGray(t *tensors.Tensor, channel int) *image.Gray {
	if t.Rank() != 3 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.ChannelToGray: image tensor must have shape (H, W, C), got %s", t.Shape()))
	}
	height, width := t.Shape().HeightWidth()
	channels := t.Shape().Dim(-1)
	if channel < 0 || channel >= channels {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.ChannelToGray: channel %d out of range for shape %s", channel, t.Shape()))
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	data := t.Data()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = data[(y*width+x)*channels+channel]
		}
	}
	return img
}

// SetChannelFromGray writes an image into one channel plane of a rank-3
// `(H, W, C)` tensor, converting pixels to gray. It reverses ChannelToGray
// and panics with an error wrapping tensors.ErrInvalidShape if the image
// size doesn't match the tensor's height and width.
func SetChannelFromGray(t *tensors.Tensor, channel int, img image.Image) {
	if t.Rank() != 3 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.SetChannelFromGray: image tensor must have shape (H, W, C), got %s", t.Shape()))
	}
	height, width := t.Shape().HeightWidth()
	channels := t.Shape().Dim(-1)
	if channel < 0 || channel >= channels {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.SetChannelFromGray: channel %d out of range for shape %s", channel, t.Shape()))
	}
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "images.SetChannelFromGray: image is %dx%d, want %dx%d to match shape %s",
			bounds.Dx(), bounds.Dy(), width, height, t.Shape()))
	}
	data := t.Data()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			data[(y*width+x)*channels+channel] = gray.Y
		}
	}
}
