// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

package batches

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/xinxin12345/DL.EyeSight/pkg/support/xsync"
)

// ErrTerminated is returned by Next and GetBatch after Terminate was called
// on a pipeline stage. Test with errors.Is.
var ErrTerminated = errors.New("pipeline terminated")

// DefaultQueueSize is the buffer size of the loader and augmenter queues
// when not configured with QueueSize.
const DefaultQueueSize = 8

// queued is one entry of a pipeline queue: a batch or a terminal error.
// A nil error and a batch for regular entries; io.EOF once the stream is
// exhausted; any other error if the stage failed. Error entries are always
// the stage's last.
type queued struct {
	batch *Batch
	err   error
}

// BatchLoader pulls batches from a Source on a background goroutine, keeping
// a bounded queue filled ahead of the consumer. Order is preserved: batches
// come out of Next in the exact order the source produced them.
//
// Create it with NewBatchLoader, optionally configure with QueueSize, and
// call Start before the first Next:
//
//	loader := batches.NewBatchLoader(source).QueueSize(16).Start()
//	for {
//		batch, err := loader.Next()
//		if err == io.EOF { break }
//		...
//	}
//	loader.Terminate()
type BatchLoader struct {
	source    Source
	queueSize int

	impl *loaderImpl
}

// loaderImpl holds the running state of a started BatchLoader, separate from
// the configuration so a loader cannot be reconfigured once running. The tag
// identifies this loader in log messages when several pipelines run at once.
type loaderImpl struct {
	tag   string
	queue chan queued
	stop  *xsync.Latch
	done  *xsync.Latch
}

// NewBatchLoader creates a BatchLoader pulling from source. Configure it and
// then call Start.
func NewBatchLoader(source Source) *BatchLoader {
	return &BatchLoader{
		source:    source,
		queueSize: DefaultQueueSize,
	}
}

// QueueSize sets how many batches the loader keeps ready ahead of the
// consumer. It returns the updated loader, for chaining. It cannot be
// changed after Start.
func (bl *BatchLoader) QueueSize(n int) *BatchLoader {
	if bl.impl != nil {
		log.Printf("BatchLoader.QueueSize called after Start, configuration is frozen!?")
		return nil
	}
	if n < 0 {
		n = 0
	}
	bl.queueSize = n
	return bl
}

// Start launches the loader goroutine. It returns the loader, for chaining.
func (bl *BatchLoader) Start() *BatchLoader {
	if bl.impl != nil {
		log.Printf("BatchLoader.Start called more than once!?")
		return nil
	}
	bl.impl = &loaderImpl{
		tag:   fmt.Sprintf("BatchLoader(id=%s)", uuid.NewString()),
		queue: make(chan queued, bl.queueSize),
		stop:  xsync.NewLatch(),
		done:  xsync.NewLatch(),
	}
	go bl.impl.run(bl.source)
	return bl
}

// run is the loader goroutine: pull from the source, push to the queue,
// until the source ends or the loader is terminated.
func (impl *loaderImpl) run(source Source) {
	defer impl.done.Trigger()
	klog.V(1).Infof("%s: started", impl.tag)
	for {
		if impl.stop.Test() {
			return
		}
		batch, err := source.Next()
		if err != nil {
			if err != io.EOF {
				klog.Errorf("%s: source failed: %+v", impl.tag, err)
			}
			impl.deliver(queued{err: err})
			return
		}
		if !impl.deliver(queued{batch: batch}) {
			return
		}
	}
}

// deliver blocks until entry is queued or the loader is terminated. It
// reports whether the entry was queued.
func (impl *loaderImpl) deliver(entry queued) bool {
	select {
	case impl.queue <- entry:
		return true
	case <-impl.stop.WaitChan():
		return false
	}
}

// Next returns the next batch, in source order. It returns io.EOF once the
// source is exhausted and everything queued was consumed, the source's error
// if it failed, and ErrTerminated after Terminate.
func (bl *BatchLoader) Next() (*Batch, error) {
	impl := bl.impl
	if impl == nil {
		return nil, errors.New("BatchLoader.Next called before Start")
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
		// Loader goroutine exited; drain what it left queued.
		select {
		case entry := <-impl.queue:
			return entry.batch, entry.err
		default:
			return nil, io.EOF
		}
	}
}

// Finished reports whether the loader goroutine has exited, either because
// the source ended or because the loader was terminated.
func (bl *BatchLoader) Finished() bool {
	return bl.impl != nil && bl.impl.done.Test()
}

// Terminate stops the loader and waits for its goroutine to exit. It is
// idempotent and never blocks on a full or empty queue; after it returns no
// loader goroutine is left running. Queued batches are dropped.
func (bl *BatchLoader) Terminate() {
	impl := bl.impl
	if impl == nil {
		klog.Warningf("BatchLoader.Terminate called before Start, nothing to stop")
		return
	}
	impl.stop.Trigger()
	impl.done.Wait()
}
