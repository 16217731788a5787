// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package batches

import (
	"fmt"
	"io"
	"log"

	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/xinxin12345/DL.EyeSight/pkg/support/xsync"
)

// BatchAugmenter applies an augmentation to one batch, filling its *Aug
// fields, and returns the batch. It is implemented by augmenters.Augmenter;
// this package only depends on the interface.
//
// Implementations may panic with an error to signal failure; the pipeline
// catches the panic and hands the error to the consumer in stream order.
type BatchAugmenter interface {
	AugmentBatch(batch *Batch) *Batch
}

// BackgroundAugmenter augments the batches of a BatchLoader on a background
// goroutine, keeping a bounded queue of augmented batches ready for the
// consumer.
//
// A single worker does the augmenting, so batches come out of GetBatch in
// the exact order the loader produced them, no matter how long each takes.
//
//	loader := batches.NewBatchLoader(source).Start()
//	background := batches.NewBackgroundAugmenter(loader, augmenter).Start()
//	for {
//		batch, err := background.GetBatch()
//		if err == io.EOF { break }
//		...
//	}
//	background.Terminate()
type BackgroundAugmenter struct {
	loader    *BatchLoader
	augmenter BatchAugmenter
	queueSize int

	impl *backgroundImpl
}

// backgroundImpl holds the running state of a started BackgroundAugmenter.
// The tag identifies this augmenter in log messages when several pipelines
// run at once.
type backgroundImpl struct {
	tag   string
	queue chan queued
	stop  *xsync.Latch
	done  *xsync.Latch
}

// NewBackgroundAugmenter creates a BackgroundAugmenter pulling from loader
// and augmenting with augmenter. Configure it and then call Start.
func NewBackgroundAugmenter(loader *BatchLoader, augmenter BatchAugmenter) *BackgroundAugmenter {
	return &BackgroundAugmenter{
		loader:    loader,
		augmenter: augmenter,
		queueSize: DefaultQueueSize,
	}
}

// QueueSize sets how many augmented batches are kept ready ahead of the
// consumer. It returns the updated augmenter, for chaining. It cannot be
// changed after Start.
func (ba *BackgroundAugmenter) QueueSize(n int) *BackgroundAugmenter {
	if ba.impl != nil {
		log.Printf("BackgroundAugmenter.QueueSize called after Start, configuration is frozen!?")
		return nil
	}
	if n < 0 {
		n = 0
	}
	ba.queueSize = n
	return ba
}

// Start launches the worker goroutine. It returns the augmenter, for
// chaining.
func (ba *BackgroundAugmenter) Start() *BackgroundAugmenter {
	if ba.impl != nil {
		log.Printf("BackgroundAugmenter.Start called more than once!?")
		return nil
	}
	ba.impl = &backgroundImpl{
		tag:   fmt.Sprintf("BackgroundAugmenter(id=%s)", uuid.NewString()),
		queue: make(chan queued, ba.queueSize),
		stop:  xsync.NewLatch(),
		done:  xsync.NewLatch(),
	}
	go ba.impl.run(ba.loader, ba.augmenter)
	return ba
}

// run is the worker goroutine: pull from the loader, augment, push to the
// queue, until the loader ends or the augmenter is terminated. Augmentation
// panics are converted to in-band errors, delivered in stream order.
func (impl *backgroundImpl) run(loader *BatchLoader, augmenter BatchAugmenter) {
	defer impl.done.Trigger()
	klog.V(1).Infof("%s: started", impl.tag)
	for {
		if impl.stop.Test() {
			return
		}
		batch, err := loader.Next()
		if err != nil {
			if errors.Is(err, ErrTerminated) {
				return
			}
			// io.EOF or a source failure: forward it and stop.
			impl.deliver(queued{err: err})
			return
		}
		var augmented *Batch
		err = exceptions.TryCatch[error](func() {
			augmented = augmenter.AugmentBatch(batch)
		})
		if err != nil {
			klog.Errorf("%s: augmentation failed: %+v", impl.tag, err)
			impl.deliver(queued{err: err})
			return
		}
		if !impl.deliver(queued{batch: augmented}) {
			return
		}
	}
}

// deliver blocks until entry is queued or the augmenter is terminated. It
// reports whether the entry was queued.
func (impl *backgroundImpl) deliver(entry queued) bool {
	select {
	case impl.queue <- entry:
		return true
	case <-impl.stop.WaitChan():
		return false
	}
}

// GetBatch returns the next augmented batch, in loader order. It returns
// io.EOF once the loader is exhausted and everything queued was consumed,
// the augmentation (or source) error if a batch failed, and ErrTerminated
// after Terminate.
func (ba *BackgroundAugmenter) GetBatch() (*Batch, error) {
	impl := ba.impl
	if impl == nil {
		return nil, errors.New("BackgroundAugmenter.GetBatch called before Start")
	}
	if impl.stop.Test() {
		return nil, ErrTerminated
	}
	select {
	case entry := <-impl.queue:
		return entry.batch, entry.err
	case <-impl.stop.WaitChan():
		return nil, ErrTerminated
	case <-impl.done.WaitChan():
		// Worker exited; drain what it left queued.
		select {
		case entry := <-impl.queue:
			return entry.batch, entry.err
		default:
			return nil, io.EOF
		}
	}
}

// Finished reports whether the worker goroutine has exited, either because
// the stream ended or because the augmenter was terminated.
func (ba *BackgroundAugmenter) Finished() bool {
	return ba.impl != nil && ba.impl.done.Test()
}

// Terminate stops the augmenter and its loader and waits for both goroutines
// to exit. It is idempotent, safe to call at any point (including after the
// stream was fully consumed), and never blocks on full or empty queues.
// Queued batches are dropped.
func (ba *BackgroundAugmenter) Terminate() {
	impl := ba.impl
	if impl == nil {
		klog.Warningf("BackgroundAugmenter.Terminate called before Start, nothing to stop")
		return
	}
	impl.stop.Trigger()
	ba.loader.Terminate()
	impl.done.Wait()
}
