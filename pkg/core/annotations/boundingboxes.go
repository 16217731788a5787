// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package annotations

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/support/xslices"
)

// BoundingBox is an axis-aligned rectangle on an image, given by its
// top-left corner (X1, Y1) and bottom-right corner (X2, Y2).
//
// Boxes are expected ordered, X1 <= X2 and Y1 <= Y2, but this is not
// enforced: degenerate boxes flow through projections unchanged.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64

	// Label is carried along unchanged by every geometric operation.
	Label string
}

// Width of the box.
func (bb BoundingBox) Width() float64 {
	return bb.X2 - bb.X1
}

// Height of the box.
func (bb BoundingBox) Height() float64 {
	return bb.Y2 - bb.Y1
}

// Area of the box.
func (bb BoundingBox) Area() float64 {
	return bb.Width() * bb.Height()
}

// Center returns the keypoint at the center of the box.
func (bb BoundingBox) Center() Keypoint {
	return Keypoint{X: (bb.X1 + bb.X2) / 2, Y: (bb.Y1 + bb.Y2) / 2}
}

// Shift returns the box moved by the given deltas.
func (bb BoundingBox) Shift(dx, dy float64) BoundingBox {
	shifted := bb
	shifted.X1 += dx
	shifted.X2 += dx
	shifted.Y1 += dy
	shifted.Y2 += dy
	return shifted
}

// Project maps the box from an image of shape `from` onto an image of shape
// `to`, like Keypoint.Project.
func (bb BoundingBox) Project(from, to tensors.Shape) BoundingBox {
	topLeft := Keypoint{X: bb.X1, Y: bb.Y1}.Project(from, to)
	bottomRight := Keypoint{X: bb.X2, Y: bb.Y2}.Project(from, to)
	projected := bb
	projected.X1, projected.Y1 = topLeft.X, topLeft.Y
	projected.X2, projected.Y2 = bottomRight.X, bottomRight.Y
	return projected
}

// ToKeypoints returns the box's 4 corners as keypoints, in the order
// top-left, top-right, bottom-right, bottom-left.
func (bb BoundingBox) ToKeypoints() []Keypoint {
	return []Keypoint{
		{X: bb.X1, Y: bb.Y1},
		{X: bb.X2, Y: bb.Y1},
		{X: bb.X2, Y: bb.Y2},
		{X: bb.X1, Y: bb.Y2},
	}
}

// FromKeypoints rebuilds a box from corner keypoints, typically the output
// of ToKeypoints after augmentation: X1/Y1 take the minimum and X2/Y2 the
// maximum over the corners' coordinates, so the result is ordered even if
// the augmentation mirrored or rotated the corners. The receiver only
// contributes its metadata (the label). It panics with an error wrapping
// tensors.ErrInvalidShape if corners is empty.
func (bb BoundingBox) FromKeypoints(corners []Keypoint) BoundingBox {
	if len(corners) == 0 {
		panic(errors.Wrap(tensors.ErrInvalidShape, "BoundingBox.FromKeypoints: need at least one corner keypoint"))
	}
	rebuilt := BoundingBox{
		X1:    math.Inf(1),
		Y1:    math.Inf(1),
		X2:    math.Inf(-1),
		Y2:    math.Inf(-1),
		Label: bb.Label,
	}
	for _, corner := range corners {
		rebuilt.X1 = math.Min(rebuilt.X1, corner.X)
		rebuilt.Y1 = math.Min(rebuilt.Y1, corner.Y)
		rebuilt.X2 = math.Max(rebuilt.X2, corner.X)
		rebuilt.Y2 = math.Max(rebuilt.Y2, corner.Y)
	}
	return rebuilt
}

// String implements fmt.Stringer.
func (bb BoundingBox) String() string {
	return fmt.Sprintf("BoundingBox(x1=%.4f, y1=%.4f, x2=%.4f, y2=%.4f, label=%s)", bb.X1, bb.Y1, bb.X2, bb.Y2, bb.Label)
}

// BoundingBoxesOnImage holds a list of bounding boxes together with the
// shape of the image they refer to.
type BoundingBoxesOnImage struct {
	BoundingBoxes []BoundingBox

	// Shape of the image the boxes live on: `(H, W)` or `(H, W, C)`.
	Shape tensors.Shape
}

// NewBoundingBoxesOnImage creates a BoundingBoxesOnImage for an image of the
// given shape. It panics with an error wrapping tensors.ErrInvalidShape if
// the shape is not rank-2 or rank-3.
func NewBoundingBoxesOnImage(boxes []BoundingBox, shape tensors.Shape) *BoundingBoxesOnImage {
	if shape.Rank() != 2 && shape.Rank() != 3 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "NewBoundingBoxesOnImage: image shape must be (H, W) or (H, W, C), got %s", shape))
	}
	return &BoundingBoxesOnImage{BoundingBoxes: boxes, Shape: shape}
}

// Height of the image the boxes live on.
func (bbsoi *BoundingBoxesOnImage) Height() int {
	return bbsoi.Shape.Dim(0)
}

// Width of the image the boxes live on.
func (bbsoi *BoundingBoxesOnImage) Width() int {
	return bbsoi.Shape.Dim(1)
}

// Empty reports whether there are no boxes.
func (bbsoi *BoundingBoxesOnImage) Empty() bool {
	return len(bbsoi.BoundingBoxes) == 0
}

// OnShape projects all boxes onto an image of the given shape, returning a
// new BoundingBoxesOnImage.
func (bbsoi *BoundingBoxesOnImage) OnShape(shape tensors.Shape) *BoundingBoxesOnImage {
	projected := NewBoundingBoxesOnImage(make([]BoundingBox, len(bbsoi.BoundingBoxes)), shape)
	for i, bb := range bbsoi.BoundingBoxes {
		projected.BoundingBoxes[i] = bb.Project(bbsoi.Shape, shape)
	}
	return projected
}

// Shift returns a new BoundingBoxesOnImage with every box moved by the given
// deltas.
func (bbsoi *BoundingBoxesOnImage) Shift(dx, dy float64) *BoundingBoxesOnImage {
	shifted := NewBoundingBoxesOnImage(make([]BoundingBox, len(bbsoi.BoundingBoxes)), bbsoi.Shape)
	for i, bb := range bbsoi.BoundingBoxes {
		shifted.BoundingBoxes[i] = bb.Shift(dx, dy)
	}
	return shifted
}

// DeepCopy returns a copy that shares nothing with the original.
func (bbsoi *BoundingBoxesOnImage) DeepCopy() *BoundingBoxesOnImage {
	return &BoundingBoxesOnImage{
		BoundingBoxes: xslices.Copy(bbsoi.BoundingBoxes),
		Shape:         bbsoi.Shape.Clone(),
	}
}

// ToKeypointsOnImage flattens all boxes to their corner keypoints, 4 per box
// in ToKeypoints order, on the same image shape. This is how boxes are
// augmented: as keypoints, rebuilt afterwards with FromKeypointsOnImage.
func (bbsoi *BoundingBoxesOnImage) ToKeypointsOnImage() *KeypointsOnImage {
	keypoints := make([]Keypoint, 0, 4*len(bbsoi.BoundingBoxes))
	for _, bb := range bbsoi.BoundingBoxes {
		keypoints = append(keypoints, bb.ToKeypoints()...)
	}
	return NewKeypointsOnImage(keypoints, bbsoi.Shape)
}

// FromKeypointsOnImage rebuilds the boxes from augmented corner keypoints,
// consuming 4 keypoints per box in the order ToKeypointsOnImage produced
// them. Labels come from the receiver's boxes and the image shape from koi,
// so projections performed during augmentation carry over. It panics with an
// error wrapping tensors.ErrInvalidShape if the keypoint count is not 4 per
// box.
func (bbsoi *BoundingBoxesOnImage) FromKeypointsOnImage(koi *KeypointsOnImage) *BoundingBoxesOnImage {
	if len(koi.Keypoints) != 4*len(bbsoi.BoundingBoxes) {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "BoundingBoxesOnImage.FromKeypointsOnImage: got %d keypoints for %d boxes, want %d",
			len(koi.Keypoints), len(bbsoi.BoundingBoxes), 4*len(bbsoi.BoundingBoxes)))
	}
	rebuilt := NewBoundingBoxesOnImage(make([]BoundingBox, len(bbsoi.BoundingBoxes)), koi.Shape)
	for i, bb := range bbsoi.BoundingBoxes {
		rebuilt.BoundingBoxes[i] = bb.FromKeypoints(koi.Keypoints[i*4 : (i+1)*4])
	}
	return rebuilt
}

// String implements fmt.Stringer.
func (bbsoi *BoundingBoxesOnImage) String() string {
	boxes := xslices.Map(bbsoi.BoundingBoxes, func(bb BoundingBox) string { return bb.String() })
	return fmt.Sprintf("BoundingBoxesOnImage([%s], shape=%s)", strings.Join(boxes, ", "), bbsoi.Shape)
}
