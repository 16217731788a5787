// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package batches

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
)

func TestImagesUnion(t *testing.T) {
	var zero Images
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsStacked())
	assert.False(t, zero.IsList())
	assert.Equal(t, 0, zero.Len())

	stacked := StackedImages(tensors.FromShape(2, 4, 4, 3))
	assert.True(t, stacked.IsStacked())
	assert.False(t, stacked.IsZero())
	assert.Equal(t, 2, stacked.Len())
	require.Panics(t, func() { stacked.List() })

	list := ImageList([]*tensors.Tensor{tensors.FromShape(4, 4), tensors.FromShape(8, 8, 3)})
	assert.True(t, list.IsList())
	assert.Equal(t, 2, list.Len())
	require.Panics(t, func() { list.Stacked() })

	// An empty list is valid and distinct from the zero value.
	emptyList := ImageList([]*tensors.Tensor{})
	assert.True(t, emptyList.IsList())
	assert.False(t, emptyList.IsZero())
	assert.Equal(t, 0, emptyList.Len())

	err := exceptions.TryCatch[error](func() { _ = StackedImages(nil) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
	err = exceptions.TryCatch[error](func() { _ = StackedImages(tensors.FromShape(4, 4)) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
	err = exceptions.TryCatch[error](func() { _ = ImageList([]*tensors.Tensor{tensors.FromShape(2, 4, 4, 3)}) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
	err = exceptions.TryCatch[error](func() { _ = ImageList([]*tensors.Tensor{nil}) })
	require.ErrorIs(t, err, tensors.ErrInvalidShape)
}

func TestNormalizeBatchPointer(t *testing.T) {
	id := uuid.New()
	batch := &Batch{
		Images: StackedImages(tensors.FromShape(1, 4, 4, 3)),
		Data:   id,
	}
	normalized := Normalize(batch, 3)
	require.Same(t, batch, normalized, "a *Batch payload must keep its pointer")
	_, isTag := normalized.Data.(normTag)
	assert.True(t, isTag, "Data must be wrapped while normalized")

	item, index := Denormalize(normalized)
	require.Same(t, batch, item)
	assert.Equal(t, 3, index)
	assert.Equal(t, id, batch.Data, "Data must be restored on denormalize")
}

func TestNormalizeStacked(t *testing.T) {
	stack := tensors.FromShape(2, 4, 4, 3)
	batch := Normalize(stack, 0)
	require.True(t, batch.Images.IsStacked())
	require.Same(t, stack, batch.Images.Stacked())

	// Simulate augmentation, then denormalize back to the input family.
	augmented := stack.Clone()
	batch.ImagesAug = StackedImages(augmented)
	item, index := Denormalize(batch)
	assert.Equal(t, 0, index)
	require.IsType(t, &tensors.Tensor{}, item)
	assert.Same(t, augmented, item)
}

func TestNormalizeList(t *testing.T) {
	list := []*tensors.Tensor{tensors.FromShape(4, 4), tensors.FromShape(2, 2, 3)}
	batch := Normalize(list, 1)
	require.True(t, batch.Images.IsList())

	batch.ImagesAug = batch.Images
	item, index := Denormalize(batch)
	assert.Equal(t, 1, index)
	require.IsType(t, []*tensors.Tensor{}, item)
	assert.Len(t, item, 2)
}

func TestNormalizeKeypoints(t *testing.T) {
	kois := []*annotations.KeypointsOnImage{
		annotations.NewKeypointsOnImage([]annotations.Keypoint{{X: 1, Y: 2}}, tensors.MakeShape(4, 4)),
	}
	batch := Normalize(kois, 2)
	require.Len(t, batch.Keypoints, 1)
	assert.True(t, batch.Images.IsZero())

	batch.KeypointsAug = batch.Keypoints
	item, index := Denormalize(batch)
	assert.Equal(t, 2, index)
	require.IsType(t, []*annotations.KeypointsOnImage{}, item)
}

func TestNormalizeEmptyList(t *testing.T) {
	batch := Normalize([]any{}, 4)
	assert.True(t, batch.Images.IsZero())
	assert.Empty(t, batch.Keypoints)

	item, index := Denormalize(batch)
	assert.Equal(t, 4, index)
	assert.Equal(t, []any{}, item)
}

func TestNormalizeUnsupported(t *testing.T) {
	err := exceptions.TryCatch[error](func() { _ = Normalize("not a batch", 0) })
	require.ErrorIs(t, err, ErrUnknownDatatype)

	err = exceptions.TryCatch[error](func() { _ = Normalize([]any{1, 2}, 0) })
	require.ErrorIs(t, err, ErrUnknownDatatype)

	err = exceptions.TryCatch[error](func() { _ = Normalize(42, 0) })
	require.ErrorIs(t, err, ErrUnknownDatatype)
}

func TestDenormalizeRequiresNormalize(t *testing.T) {
	require.Panics(t, func() { _, _ = Denormalize(&Batch{}) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Batch", KindBatch.String())
	assert.Equal(t, "StackedImages", KindStacked.String())
	assert.Equal(t, "ImageList", KindList.String())
	assert.Equal(t, "KeypointsOnImage", KindKeypoints.String())
	assert.Equal(t, "Empty", KindEmpty.String())
	assert.Equal(t, "InvalidKind", Kind(99).String())
}
