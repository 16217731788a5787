// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package augmenters

import (
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/xinxin12345/DL.EyeSight/pkg/batches"
)

// AugmentBatch augments everything a batch carries, filling its *Aug fields
// and returning the same batch. The input fields stay untouched.
//
// When the batch carries more than one kind of data (e.g. images and
// keypoints), a non-deterministic augmenter is switched to deterministic for
// the batch, so all kinds see the same sampled draws and stay aligned.
//
// Augmenter implements batches.BatchAugmenter with this method.
func (a *Augmenter) AugmentBatch(batch *batches.Batch) *batches.Batch {
	kinds := 0
	if !batch.Images.IsZero() {
		kinds++
	}
	if len(batch.Keypoints) > 0 {
		kinds++
	}
	if len(batch.BoundingBoxes) > 0 {
		kinds++
	}

	aug := a
	if kinds > 1 && !a.deterministic {
		aug = a.ToDeterministic()
	}

	if !batch.Images.IsZero() {
		batch.ImagesAug = aug.AugmentImages(batch.Images)
	}
	if len(batch.Keypoints) > 0 {
		batch.KeypointsAug = aug.AugmentKeypoints(batch.Keypoints)
	}
	if len(batch.BoundingBoxes) > 0 {
		batch.BoundingBoxesAug = aug.AugmentBoundingBoxes(batch.BoundingBoxes)
	}
	return batch
}

// AugmentBatches augments a list of batch payloads in the background,
// yielding the augmented payloads in input order as they become ready.
//
// Each item may be a *batches.Batch, a stacked images tensor, a list of
// image tensors, a list of KeypointsOnImage, or an empty []any; see
// batches.Normalize. Augmented items come back in the same family: a *Batch
// in yields the same *Batch out with its *Aug fields filled.
//
// It panics with an error wrapping ErrInvalidArgument if items is empty, and
// at iteration time with an error wrapping batches.ErrUnknownDatatype if an
// item is of an unsupported type.
//
// Iteration drives a BatchLoader feeding a BackgroundAugmenter, so
// augmentation runs ahead of the consumer on a bounded queue. Abandoning the
// iteration early terminates both cleanly and restores the Data field of any
// still-pending *batches.Batch items. The sequence is restartable: ranging
// over it again augments the same items again, from the start. Errors raised
// while augmenting a batch resurface, in order, as panics on the consuming
// goroutine.
func (a *Augmenter) AugmentBatches(items []any) iter.Seq[any] {
	if len(items) == 0 {
		panic(errors.Wrapf(ErrInvalidArgument, "%s.AugmentBatches: items must be a non-empty list of batch payloads", a.name))
	}
	return func(yield func(any) bool) {
		normalized := make([]*batches.Batch, len(items))
		for i, item := range items {
			normalized[i] = batches.Normalize(item, i)
		}
		loader := batches.NewBatchLoader(batches.NewSliceSource(normalized...)).Start()
		background := batches.NewBackgroundAugmenter(loader, a).Start()
		defer func() {
			background.Terminate()
			// Terminate stopped the pipeline's goroutines, so the batches are
			// ours again: unwrap whatever an abandoned iteration left behind.
			for _, batch := range normalized {
				batches.RestoreData(batch)
			}
		}()
		for {
			batch, err := background.GetBatch()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				panic(err)
			}
			item, _ := batches.Denormalize(batch)
			if !yield(item) {
				return
			}
		}
	}
}
