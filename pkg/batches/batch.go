// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package batches implements the units of work of the augmentation pipeline:
// the Batch type grouping images with their annotations, normalization of
// loose user payloads into batches, and the background loader/augmenter
// pair that streams batches through a bounded queue.
package batches

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
)

// ErrUnknownDatatype is wrapped in the panic raised when a payload given to
// Normalize is of an unsupported type. Test with errors.Is.
var ErrUnknownDatatype = errors.New("unknown batch datatype")

// Kind identifies the payload family a Batch was normalized from, so
// Denormalize can return the same family.
type Kind uint8

const (
	// KindBatch marks payloads that already were a *Batch.
	KindBatch Kind = iota

	// KindStacked marks a single stacked-images tensor, `(N, H, W)` or
	// `(N, H, W, C)`.
	KindStacked

	// KindList marks a list of image tensors of possibly varying sizes.
	KindList

	// KindKeypoints marks a list of KeypointsOnImage.
	KindKeypoints

	// KindEmpty marks an empty untyped list: a valid, contentless payload.
	KindEmpty
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBatch:
		return "Batch"
	case KindStacked:
		return "StackedImages"
	case KindList:
		return "ImageList"
	case KindKeypoints:
		return "KeypointsOnImage"
	case KindEmpty:
		return "Empty"
	}
	return "InvalidKind"
}

// Images holds the images of a batch in one of the two supported layouts: a
// single stacked tensor (all images the same size) or a list of independent
// image tensors. The zero value means "no images".
type Images struct {
	stacked *tensors.Tensor
	list    []*tensors.Tensor
	hasList bool
}

// StackedImages wraps a stack of same-sized images, shaped `(N, H, W)` or
// `(N, H, W, C)`. It panics with an error wrapping tensors.ErrInvalidShape
// on any other rank.
func StackedImages(t *tensors.Tensor) Images {
	if t == nil {
		panic(errors.Wrap(tensors.ErrInvalidShape, "batches.StackedImages: tensor must not be nil"))
	}
	if t.Rank() != 3 && t.Rank() != 4 {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "batches.StackedImages: stacked images must have shape (N, H, W) or (N, H, W, C), got %s", t.Shape()))
	}
	return Images{stacked: t}
}

// ImageList wraps a list of independent images, each shaped `(H, W)` or
// `(H, W, C)`. Sizes may differ between images. An empty (or nil) list is
// valid. It panics with an error wrapping tensors.ErrInvalidShape if any
// entry is nil or of another rank.
func ImageList(list []*tensors.Tensor) Images {
	for i, image := range list {
		if image == nil {
			panic(errors.Wrapf(tensors.ErrInvalidShape, "batches.ImageList: image #%d is nil", i))
		}
		if image.Rank() != 2 && image.Rank() != 3 {
			panic(errors.Wrapf(tensors.ErrInvalidShape, "batches.ImageList: image #%d must have shape (H, W) or (H, W, C), got %s", i, image.Shape()))
		}
	}
	return Images{list: list, hasList: true}
}

// IsZero reports whether no images are present (neither layout was set).
func (im Images) IsZero() bool {
	return im.stacked == nil && !im.hasList
}

// IsStacked reports whether the images are a single stacked tensor.
func (im Images) IsStacked() bool {
	return im.stacked != nil
}

// IsList reports whether the images are a list of tensors.
func (im Images) IsList() bool {
	return im.hasList
}

// Stacked returns the stacked tensor. It panics if IsStacked is false.
func (im Images) Stacked() *tensors.Tensor {
	if !im.IsStacked() {
		exceptions.Panicf("batches.Images.Stacked called on a non-stacked Images (IsList=%v, IsZero=%v)", im.IsList(), im.IsZero())
	}
	return im.stacked
}

// List returns the image list. It panics if IsList is false.
func (im Images) List() []*tensors.Tensor {
	if !im.IsList() {
		exceptions.Panicf("batches.Images.List called on a non-list Images (IsStacked=%v, IsZero=%v)", im.IsStacked(), im.IsZero())
	}
	return im.list
}

// Len returns the number of images, in either layout, and 0 for the zero
// value.
func (im Images) Len() int {
	switch {
	case im.IsStacked():
		return im.stacked.Shape().Dim(0)
	case im.IsList():
		return len(im.list)
	}
	return 0
}

// Batch groups images and their annotations so they travel together through
// the augmentation pipeline. After augmentation the *Aug fields hold the
// results; the input fields are left untouched.
//
// Data is an opaque payload carried along unchanged, e.g. labels or sample
// ids.
type Batch struct {
	Images        Images
	Keypoints     []*annotations.KeypointsOnImage
	BoundingBoxes []*annotations.BoundingBoxesOnImage
	Data          any

	ImagesAug        Images
	KeypointsAug     []*annotations.KeypointsOnImage
	BoundingBoxesAug []*annotations.BoundingBoxesOnImage
}

// normTag records, inside Batch.Data, where a normalized batch came from:
// the payload's index in the caller's list, the payload family, and for
// KindBatch the batch's original Data to restore on Denormalize.
type normTag struct {
	index int
	kind  Kind
	data  any
}

// Normalize converts one loose payload into a *Batch ready for augmentation,
// remembering the payload family and the given list index in the batch's
// Data field so Denormalize can undo the conversion.
//
// Supported payload types:
//   - *Batch: used as-is (the same pointer is returned), Data wrapped;
//   - *tensors.Tensor: a stack of images, `(N, H, W)` or `(N, H, W, C)`;
//   - []*tensors.Tensor: a list of images, each `(H, W)` or `(H, W, C)`;
//   - []*annotations.KeypointsOnImage: keypoints only;
//   - []any: only if empty, a valid contentless batch.
//
// Anything else panics with an error wrapping ErrUnknownDatatype.
func Normalize(item any, index int) *Batch {
	switch payload := item.(type) {
	case *Batch:
		payload.Data = normTag{index: index, kind: KindBatch, data: payload.Data}
		return payload
	case *tensors.Tensor:
		return &Batch{
			Images: StackedImages(payload),
			Data:   normTag{index: index, kind: KindStacked},
		}
	case []*tensors.Tensor:
		return &Batch{
			Images: ImageList(payload),
			Data:   normTag{index: index, kind: KindList},
		}
	case []*annotations.KeypointsOnImage:
		return &Batch{
			Keypoints: payload,
			Data:      normTag{index: index, kind: KindKeypoints},
		}
	case []any:
		if len(payload) == 0 {
			return &Batch{Data: normTag{index: index, kind: KindEmpty}}
		}
		panic(errors.Wrapf(ErrUnknownDatatype, "batches.Normalize: []any is only supported empty, got %d elements; pass a typed slice instead", len(payload)))
	default:
		panic(errors.Wrapf(ErrUnknownDatatype, "batches.Normalize: unsupported payload type %T", item))
	}
}

// RestoreData undoes the Data wrapping of Normalize without extracting the
// augmented payload. It is used on batches whose augmentation was abandoned,
// so the caller gets its correlation data back untouched; batches already
// denormalized (or never normalized) pass through unchanged.
func RestoreData(batch *Batch) {
	if tag, ok := batch.Data.(normTag); ok && tag.kind == KindBatch {
		batch.Data = tag.data
	}
}

// Denormalize undoes Normalize after augmentation: it returns the augmented
// payload in the same family the original payload had, along with the
// original's index in the caller's list. Batches that were a *Batch come
// back as the same pointer with Data restored.
//
// It panics if the batch was not produced by Normalize.
func Denormalize(batch *Batch) (item any, index int) {
	tag, ok := batch.Data.(normTag)
	if !ok {
		exceptions.Panicf("batches.Denormalize: batch was not produced by Normalize (Data is %T)", batch.Data)
	}
	switch tag.kind {
	case KindBatch:
		batch.Data = tag.data
		return batch, tag.index
	case KindStacked:
		return batch.ImagesAug.Stacked(), tag.index
	case KindList:
		return batch.ImagesAug.List(), tag.index
	case KindKeypoints:
		return batch.KeypointsAug, tag.index
	case KindEmpty:
		return []any{}, tag.index
	}
	exceptions.Panicf("batches.Denormalize: corrupted normalization tag with kind %d", tag.kind)
	return nil, 0
}
