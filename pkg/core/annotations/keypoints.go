// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package annotations implements the geometric annotations attached to
// images: keypoints and bounding boxes, each paired with the shape of the
// image they live on so they can be projected when the image is resized.
//
// Coordinates are float64 in pixel space: x grows to the right (second image
// axis), y grows downwards (first image axis). Coordinates may fall outside
// the image after augmentation; nothing clips them.
package annotations

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/support/xslices"
)

// Keypoint is a single point on an image.
type Keypoint struct {
	X, Y float64
}

// Shift returns the keypoint moved by the given deltas.
func (kp Keypoint) Shift(dx, dy float64) Keypoint {
	return Keypoint{X: kp.X + dx, Y: kp.Y + dy}
}

// Project maps the keypoint from an image of shape `from` onto an image of
// shape `to`, scaling each coordinate by the ratio of the respective axes.
// If both shapes have the same height and width the keypoint is returned
// unchanged.
func (kp Keypoint) Project(from, to tensors.Shape) Keypoint {
	fromHeight, fromWidth := from.HeightWidth()
	toHeight, toWidth := to.HeightWidth()
	if fromHeight == toHeight && fromWidth == toWidth {
		return kp
	}
	return Keypoint{
		X: kp.X * float64(toWidth) / float64(fromWidth),
		Y: kp.Y * float64(toHeight) / float64(fromHeight),
	}
}

// String implements fmt.Stringer.
func (kp Keypoint) String() string {
	return fmt.Sprintf("Keypoint(x=%.8f, y=%.8f)", kp.X, kp.Y)
}

// KeypointsOnImage holds a list of keypoints together with the shape of the
// image they refer to.
type KeypointsOnImage struct {
	Keypoints []Keypoint

	// Shape of the image the keypoints live on: `(H, W)` or `(H, W, C)`.
	Shape tensors.Shape
}

// NewKeypointsOnImage creates a KeypointsOnImage for an image of the given
// shape. It panics with an error wrapping tensors.ErrInvalidShape if the
// shape is not rank-2 or rank-3.
func NewKeypointsOnImage(keypoints []Keypoint, shape tensors.Shape) *KeypointsOnImage {
	if shape.Rank() != 2 && shape.Rank() != 3 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "NewKeypointsOnImage: image shape must be (H, W) or (H, W, C), got %s", shape))
	}
	return &KeypointsOnImage{Keypoints: keypoints, Shape: shape}
}

// Height of the image the keypoints live on.
func (koi *KeypointsOnImage) Height() int {
	return koi.Shape.Dim(0)
}

// Width of the image the keypoints live on.
func (koi *KeypointsOnImage) Width() int {
	return koi.Shape.Dim(1)
}

// Empty reports whether there are no keypoints.
func (koi *KeypointsOnImage) Empty() bool {
	return len(koi.Keypoints) == 0
}

// OnShape projects all keypoints onto an image of the given shape, returning
// a new KeypointsOnImage. Projecting onto an image of the same height and
// width returns a deep copy.
func (koi *KeypointsOnImage) OnShape(shape tensors.Shape) *KeypointsOnImage {
	projected := NewKeypointsOnImage(make([]Keypoint, len(koi.Keypoints)), shape)
	for i, kp := range koi.Keypoints {
		projected.Keypoints[i] = kp.Project(koi.Shape, shape)
	}
	return projected
}

// Shift returns a new KeypointsOnImage with every keypoint moved by the
// given deltas.
func (koi *KeypointsOnImage) Shift(dx, dy float64) *KeypointsOnImage {
	shifted := NewKeypointsOnImage(make([]Keypoint, len(koi.Keypoints)), koi.Shape)
	for i, kp := range koi.Keypoints {
		shifted.Keypoints[i] = kp.Shift(dx, dy)
	}
	return shifted
}

// DeepCopy returns a copy that shares nothing with the original.
func (koi *KeypointsOnImage) DeepCopy() *KeypointsOnImage {
	return &KeypointsOnImage{
		Keypoints: xslices.Copy(koi.Keypoints),
		Shape:     koi.Shape.Clone(),
	}
}

// String implements fmt.Stringer.
func (koi *KeypointsOnImage) String() string {
	points := xslices.Map(koi.Keypoints, func(kp Keypoint) string { return kp.String() })
	return fmt.Sprintf("KeypointsOnImage([%s], shape=%s)", strings.Join(points, ", "), koi.Shape)
}
