// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package annotations

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
)

func TestKeypointShift(t *testing.T) {
	kp := Keypoint{X: 3, Y: 5}
	assert.Equal(t, Keypoint{X: 5, Y: 4}, kp.Shift(2, -1))
}

func TestKeypointProject(t *testing.T) {
	kp := Keypoint{X: 10, Y: 20}

	// Same height and width: unchanged, channels don't matter.
	same := kp.Project(tensors.MakeShape(40, 30), tensors.MakeShape(40, 30, 3))
	assert.Equal(t, kp, same)

	// Doubling the width scales x only.
	scaled := kp.Project(tensors.MakeShape(40, 30), tensors.MakeShape(40, 60))
	assert.InDelta(t, 20.0, scaled.X, 1e-9)
	assert.InDelta(t, 20.0, scaled.Y, 1e-9)

	// Halving the height scales y only.
	scaled = kp.Project(tensors.MakeShape(40, 30), tensors.MakeShape(20, 30))
	assert.InDelta(t, 10.0, scaled.X, 1e-9)
	assert.InDelta(t, 10.0, scaled.Y, 1e-9)
}

func TestNewKeypointsOnImage(t *testing.T) {
	koi := NewKeypointsOnImage([]Keypoint{{X: 1, Y: 2}}, tensors.MakeShape(4, 8, 3))
	assert.Equal(t, 4, koi.Height())
	assert.Equal(t, 8, koi.Width())
	assert.False(t, koi.Empty())
	assert.True(t, NewKeypointsOnImage(nil, tensors.MakeShape(4, 8)).Empty())

	err := exceptions.TryCatch[error](func() { _ = NewKeypointsOnImage(nil, tensors.MakeShape(4)) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
	err = exceptions.TryCatch[error](func() { _ = NewKeypointsOnImage(nil, tensors.MakeShape(1, 2, 3, 4)) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
}

func TestKeypointsOnImageOnShape(t *testing.T) {
	koi := NewKeypointsOnImage([]Keypoint{{X: 10, Y: 20}, {X: 0, Y: 40}}, tensors.MakeShape(40, 20))
	projected := koi.OnShape(tensors.MakeShape(80, 40, 3))
	require.Len(t, projected.Keypoints, 2)
	assert.InDelta(t, 20.0, projected.Keypoints[0].X, 1e-9)
	assert.InDelta(t, 40.0, projected.Keypoints[0].Y, 1e-9)
	assert.InDelta(t, 80.0, projected.Keypoints[1].Y, 1e-9)
	assert.True(t, projected.Shape.Equal(tensors.MakeShape(80, 40, 3)))

	// Original untouched.
	assert.InDelta(t, 10.0, koi.Keypoints[0].X, 1e-9)
}

func TestKeypointsOnImageShiftAndDeepCopy(t *testing.T) {
	koi := NewKeypointsOnImage([]Keypoint{{X: 1, Y: 1}}, tensors.MakeShape(4, 4))
	shifted := koi.Shift(3, -1)
	assert.Equal(t, Keypoint{X: 4, Y: 0}, shifted.Keypoints[0])
	assert.Equal(t, Keypoint{X: 1, Y: 1}, koi.Keypoints[0])

	clone := koi.DeepCopy()
	clone.Keypoints[0] = Keypoint{X: 9, Y: 9}
	clone.Shape.Dimensions[0] = 100
	assert.Equal(t, Keypoint{X: 1, Y: 1}, koi.Keypoints[0])
	assert.Equal(t, 4, koi.Height())
}

func TestKeypointsOnImageString(t *testing.T) {
	koi := NewKeypointsOnImage([]Keypoint{{X: 1, Y: 2}}, tensors.MakeShape(4, 8))
	assert.Equal(t, "KeypointsOnImage([Keypoint(x=1.00000000, y=2.00000000)], shape=(4, 8))", koi.String())
}
