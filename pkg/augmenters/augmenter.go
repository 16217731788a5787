// Copyright 2018-2026 The DL.EyeSight Authors. SPDX-License-Identifier: Apache-2.0

// Package augmenters implements image augmentation: transformations applied
// with sampled randomness to images and to the annotations (keypoints,
// bounding boxes) that must stay aligned with them.
//
// An Augmenter pairs a transformation (an Interface implementation: Fliplr,
// GaussianBlur, Sequential of others, ...) with a name and a random state.
// The usual flow:
//
//	aug := augmenters.NewSequential(
//		augmenters.NewFliplr(0.5),
//		augmenters.NewGaussianBlurRange(0, 3),
//	)
//	imagesAug := aug.AugmentImageList(images)
//
// To apply the same sampled transformations to images and their keypoints,
// switch the augmenter to deterministic mode first:
//
//	det := aug.ToDeterministic()
//	imagesAug := det.AugmentImageList(images)
//	keypointsAug := det.AugmentKeypoints(keypoints)
//
// A deterministic augmenter rewinds its random state after every call, so
// both calls see the same draws: image #i and keypoints #i get the same
// transformation.
package augmenters

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/xinxin12345/DL.EyeSight/pkg/batches"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/annotations"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/random"
	"github.com/xinxin12345/DL.EyeSight/pkg/core/tensors"
	"github.com/xinxin12345/DL.EyeSight/pkg/params"
	"github.com/xinxin12345/DL.EyeSight/pkg/support/xslices"
)

// ErrInvalidArgument is wrapped in the panics raised by operations given
// out-of-range arguments, like a non-positive count of deterministic
// augmenters. Test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Interface is the transformation behind an Augmenter. Implementations only
// transform; the wrapping Augmenter handles copying, shape normalization,
// hooks, determinism and random state management.
//
// AugmentImages receives images already copied and normalized to rank-3
// `(H, W, C)`; it may transform them in place and must return the slice of
// results. AugmentKeypoints receives deep-copied keypoints; same contract.
// Both receive a private random state: an implementation that samples k
// draws per element must sample the same k draws per element in both
// methods, so that images and keypoints stay aligned.
//
// Transformations that cannot meaningfully change keypoints (e.g. a blur)
// return them unchanged.
type Interface interface {
	AugmentImages(images []*tensors.Tensor, state *random.State, owner *Augmenter, parents []*Augmenter, hooks *ImageHooks) []*tensors.Tensor
	AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, state *random.State, owner *Augmenter, parents []*Augmenter, hooks *KeypointHooks) []*annotations.KeypointsOnImage

	// Parameters returns the configuration of the transformation, used when
	// printing the augmenter.
	Parameters() []params.Parameter
}

// Composite is implemented by transformations that hold child augmenters,
// like Sequential. ChildrenLists returns the children grouped in lists (a
// two-branch composite would return two lists); WithChildren returns a copy
// of the transformation with the children replaced, preserving the grouping.
type Composite interface {
	Interface
	ChildrenLists() [][]*Augmenter
	WithChildren(children [][]*Augmenter) Interface
}

// Augmenter applies a transformation to images and annotations. Create one
// with New or NewNamed (the concrete transformations provide shortcuts, see
// NewFliplr, NewGaussianBlur, NewSequential, ...).
//
// Augmenters are not concurrency-safe: each call advances the random state.
// Use Copy or ToDeterministicN to give each goroutine its own.
type Augmenter struct {
	op            Interface
	name          string
	state         *random.State
	deterministic bool
	activated     bool
}

// New wraps a transformation in an Augmenter named after its type and
// drawing from the process-wide random state.
func New(op Interface) *Augmenter {
	if op == nil {
		panic(errors.Wrap(ErrInvalidArgument, "augmenters.New: op must not be nil"))
	}
	return &Augmenter{
		op:        op,
		name:      "Unnamed" + opTypeName(op),
		state:     random.Current(),
		activated: true,
	}
}

// NewNamed is New with an explicit name.
func NewNamed(name string, op Interface) *Augmenter {
	return New(op).WithName(name)
}

// WithName renames the augmenter. It returns the augmenter, for chaining.
func (a *Augmenter) WithName(name string) *Augmenter {
	a.name = name
	return a
}

// WithState makes the augmenter draw from the given random state instead of
// the process-wide one. It returns the augmenter, for chaining.
func (a *Augmenter) WithState(state *random.State) *Augmenter {
	if state == nil {
		panic(errors.Wrap(ErrInvalidArgument, "Augmenter.WithState: state must not be nil"))
	}
	a.state = state
	return a
}

// WithSeed makes the augmenter draw from a new random state with the given
// seed. It returns the augmenter, for chaining.
func (a *Augmenter) WithSeed(seed uint64) *Augmenter {
	return a.WithState(random.New(seed))
}

// WithDeterministic switches deterministic mode on or off, in place. Unlike
// ToDeterministic it neither copies the augmenter nor replaces its random
// state, so combined with WithSeed it pins an exact, replayable draw
// sequence. It returns the augmenter, for chaining.
func (a *Augmenter) WithDeterministic(deterministic bool) *Augmenter {
	a.deterministic = deterministic
	return a
}

// Name of the augmenter.
func (a *Augmenter) Name() string {
	return a.name
}

// Op returns the wrapped transformation.
func (a *Augmenter) Op() Interface {
	return a.op
}

// RandomState returns the state the augmenter draws from.
func (a *Augmenter) RandomState() *random.State {
	return a.state
}

// IsDeterministic reports whether the augmenter rewinds its random state
// after every augmentation call. See ToDeterministic.
func (a *Augmenter) IsDeterministic() bool {
	return a.deterministic
}

// Activated reports the augmenter's default activation, consulted through
// the hooks' Activator on every call.
func (a *Augmenter) Activated() bool {
	return a.activated
}

// SetActivated changes the augmenter's default activation. Deactivated
// augmenters pass data through unchanged unless a hook overrides them.
// It returns the augmenter, for chaining.
func (a *Augmenter) SetActivated(activated bool) *Augmenter {
	a.activated = activated
	return a
}

// Parameters returns the transformation's configuration values.
func (a *Augmenter) Parameters() []params.Parameter {
	return a.op.Parameters()
}

// String implements fmt.Stringer.
func (a *Augmenter) String() string {
	parameters := xslices.Map(a.op.Parameters(), func(p params.Parameter) string { return p.String() })
	return fmt.Sprintf("%s(name=%s, parameters=[%s], deterministic=%v)",
		opTypeName(a.op), a.name, strings.Join(parameters, ", "), a.deterministic)
}

// opTypeName returns the bare type name of a transformation, e.g. "Fliplr"
// for *Fliplr.
func opTypeName(op Interface) string {
	t := reflect.TypeOf(op)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// AugmentImage augments a single image, shaped `(H, W)` or `(H, W, C)`.
// The input is never modified. It panics with an error wrapping
// tensors.ErrInvalidShape on other ranks: for a stack of images use
// AugmentImages or AugmentImageList.
func (a *Augmenter) AugmentImage(image *tensors.Tensor, hooks ...*ImageHooks) *tensors.Tensor {
	if image == nil {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "%s.AugmentImage: image must not be nil", a.name))
	}
	if image.Rank() != 2 && image.Rank() != 3 {
		panic(errors.Wrapf(tensors.ErrInvalidShape,
			"%s.AugmentImage: expected a single image shaped (H, W) or (H, W, C), got %s; use AugmentImages for stacks",
			a.name, image.Shape()))
	}
	return a.augmentImages([]*tensors.Tensor{image}, nil, firstOrNil(hooks))[0]
}

// AugmentImageList augments a list of images, each shaped `(H, W)` or
// `(H, W, C)`; sizes may vary between images. The inputs are never modified.
func (a *Augmenter) AugmentImageList(images []*tensors.Tensor, hooks ...*ImageHooks) []*tensors.Tensor {
	return a.augmentImages(images, nil, firstOrNil(hooks))
}

// AugmentImages augments images in either batch layout (stacked tensor or
// list, see batches.Images) and returns the results in the same layout.
// The inputs are never modified.
func (a *Augmenter) AugmentImages(images batches.Images, hooks ...*ImageHooks) batches.Images {
	h := firstOrNil(hooks)
	switch {
	case images.IsStacked():
		return batches.StackedImages(a.augmentStacked(images.Stacked(), nil, h))
	case images.IsList():
		return batches.ImageList(a.augmentImages(images.List(), nil, h))
	default:
		return images
	}
}

// AugmentStacked augments a stack of same-sized images, shaped `(N, H, W)` or
// `(N, H, W, C)`, returning the augmented stack. The input is never modified.
// It panics with an error wrapping tensors.ErrInvalidShape on other ranks.
func (a *Augmenter) AugmentStacked(stack *tensors.Tensor, hooks ...*ImageHooks) *tensors.Tensor {
	if stack == nil {
		panic(errors.Wrapf(tensors.ErrInvalidShape, "%s.AugmentStacked: stack must not be nil", a.name))
	}
	return a.augmentStacked(stack, nil, firstOrNil(hooks))
}

// augmentStacked augments a stacked tensor, `(N, H, W)` or `(N, H, W, C)`,
// by unstacking, augmenting the list and restacking.
func (a *Augmenter) augmentStacked(stack *tensors.Tensor, parents []*Augmenter, hooks *ImageHooks) *tensors.Tensor {
	if stack.Rank() != 3 && stack.Rank() != 4 {
		panic(errors.Wrapf(tensors.ErrInvalidShape,
			"%s.AugmentImages: stacked images must have shape (N, H, W) or (N, H, W, C), got %s",
			a.name, stack.Shape()))
	}
	if stack.Rank() == 3 {
		if last := stack.Shape().Dim(-1); last == 1 || last == 3 {
			klog.Warningf("%s.AugmentImages: shape %s is interpreted as (N, H, W), %d images; if this is a single (H, W, C) image use AugmentImage instead",
				a.name, stack.Shape(), stack.Shape().Dim(0))
		}
	}
	if stack.Shape().Dim(0) == 0 {
		return stack.Clone()
	}
	return tensors.Stack(a.augmentImages(stack.Unstack(), parents, hooks))
}

// augmentImages is the core of image augmentation. For every call it:
//  1. snapshots the random state if the augmenter is deterministic;
//  2. copies every image, promoting rank-2 images to rank-3 `(H, W, 1)`;
//  3. runs the hooks' preprocessor;
//  4. if activated and non-empty, hands a copy of the random state to the
//     transformation and advances the augmenter's own state by one draw;
//  5. runs the hooks' postprocessor;
//  6. restores the snapshot if deterministic, so the next call replays the
//     same draws;
//  7. demotes back to rank-2 the images promoted in step 2.
func (a *Augmenter) augmentImages(images []*tensors.Tensor, parents []*Augmenter, hooks *ImageHooks) []*tensors.Tensor {
	var snapshot []byte
	if a.deterministic {
		snapshot = a.state.Snapshot()
	}

	work := make([]*tensors.Tensor, len(images))
	addedAxis := make([]bool, len(images))
	for i, image := range images {
		if image == nil {
			panic(errors.Wrapf(tensors.ErrInvalidShape, "%s.AugmentImages: image #%d is nil", a.name, i))
		}
		if image.Rank() != 2 && image.Rank() != 3 {
			panic(errors.Wrapf(tensors.ErrInvalidShape,
				"%s.AugmentImages: image #%d must have shape (H, W) or (H, W, C), got %s",
				a.name, i, image.Shape()))
		}
		work[i], addedAxis[i] = image.Clone().EnsureChannelAxis()
	}

	work = hooks.Preprocess(work, a, parents)
	if hooks.IsActivated(work, a, parents, a.activated) && len(work) > 0 {
		work = a.op.AugmentImages(work, a.state.Copy(), a, parents, hooks)
		a.state.Forward()
	}
	work = hooks.Postprocess(work, a, parents)

	if a.deterministic {
		a.state.Restore(snapshot)
	}

	for i := range work {
		if i < len(addedAxis) && addedAxis[i] && work[i].Rank() == 3 && work[i].Shape().Dim(-1) == 1 {
			work[i] = work[i].DropChannelAxis()
		}
	}
	return work
}

// AugmentKeypoints augments keypoints the same way the images they belong to
// would be augmented. The inputs are never modified.
//
// For the sampled draws to match the images', the augmenter must be
// deterministic (see ToDeterministic) and augment element #i of both calls
// from the same position.
func (a *Augmenter) AugmentKeypoints(keypoints []*annotations.KeypointsOnImage, hooks ...*KeypointHooks) []*annotations.KeypointsOnImage {
	return a.augmentKeypoints(keypoints, nil, firstOrNil(hooks))
}

// augmentKeypoints is the keypoints counterpart of augmentImages.
func (a *Augmenter) augmentKeypoints(keypoints []*annotations.KeypointsOnImage, parents []*Augmenter, hooks *KeypointHooks) []*annotations.KeypointsOnImage {
	var snapshot []byte
	if a.deterministic {
		snapshot = a.state.Snapshot()
	}

	work := make([]*annotations.KeypointsOnImage, len(keypoints))
	for i, koi := range keypoints {
		if koi == nil {
			panic(errors.Wrapf(tensors.ErrInvalidShape, "%s.AugmentKeypoints: keypoints #%d are nil", a.name, i))
		}
		work[i] = koi.DeepCopy()
	}

	work = hooks.Preprocess(work, a, parents)
	if hooks.IsActivated(work, a, parents, a.activated) && len(work) > 0 {
		work = a.op.AugmentKeypoints(work, a.state.Copy(), a, parents, hooks)
		a.state.Forward()
	}
	work = hooks.Postprocess(work, a, parents)

	if a.deterministic {
		a.state.Restore(snapshot)
	}
	return work
}

// AugmentBoundingBoxes augments bounding boxes by augmenting their corner
// keypoints and rebuilding each box from the transformed corners, keeping
// labels. Boxes come back ordered (x1 <= x2, y1 <= y2) even under mirroring
// transformations. The inputs are never modified.
//
// Like AugmentKeypoints, use a deterministic augmenter to keep boxes aligned
// with their images.
func (a *Augmenter) AugmentBoundingBoxes(boxes []*annotations.BoundingBoxesOnImage, hooks ...*KeypointHooks) []*annotations.BoundingBoxesOnImage {
	asKeypoints := make([]*annotations.KeypointsOnImage, len(boxes))
	for i, bbsoi := range boxes {
		if bbsoi == nil {
			panic(errors.Wrapf(tensors.ErrInvalidShape, "%s.AugmentBoundingBoxes: boxes #%d are nil", a.name, i))
		}
		asKeypoints[i] = bbsoi.ToKeypointsOnImage()
	}
	augmented := a.augmentKeypoints(asKeypoints, nil, firstOrNil(hooks))
	result := make([]*annotations.BoundingBoxesOnImage, len(augmented))
	for i, koi := range augmented {
		result[i] = boxes[i].FromKeypointsOnImage(koi)
	}
	return result
}

// ToDeterministic returns a copy of the augmenter (and, recursively, of its
// children) switched to deterministic mode: it gets its own fresh random
// state and rewinds it after every augmentation call, so consecutive calls
// sample identical draws. That is how one augments images and their
// keypoints consistently.
func (a *Augmenter) ToDeterministic() *Augmenter {
	det := a.Copy()
	if composite, ok := a.op.(Composite); ok {
		det.op = composite.WithChildren(mapChildren(composite.ChildrenLists(), (*Augmenter).ToDeterministic))
	}
	det.state = random.NewAuto()
	det.deterministic = true
	return det
}

// ToDeterministicN returns n independent deterministic copies of the
// augmenter, each with its own random state: they sample independently, but
// each one replays its own draws call after call. It panics with an error
// wrapping ErrInvalidArgument if n < 1.
func (a *Augmenter) ToDeterministicN(n int) []*Augmenter {
	if n < 1 {
		panic(errors.Wrapf(ErrInvalidArgument, "%s.ToDeterministicN: n must be >= 1, got %d", a.name, n))
	}
	out := make([]*Augmenter, n)
	for i := range out {
		out[i] = a.ToDeterministic()
	}
	return out
}

// Reseed gives the augmenter and, recursively, all its children new random
// states seeded from source (the process-wide state if source is nil). Use
// it to make a loaded or copied augmenter pipeline sample fresh, e.g. one
// per worker process.
//
// Deterministic augmenters are skipped unless deterministicToo is set;
// children are recursed into either way.
func (a *Augmenter) Reseed(source *random.State, deterministicToo bool) {
	if source == nil {
		source = random.Current()
	}
	if !a.deterministic || deterministicToo {
		seed := uint64(source.IntRange(0, 1_000_000))
		a.state = random.New(seed)
	}
	for _, list := range a.ChildrenLists() {
		for _, child := range list {
			child.Reseed(source, deterministicToo)
		}
	}
}

// ChildrenLists returns the augmenter's children grouped in lists, or nil
// for leaf augmenters. The grouping mirrors how the transformation organizes
// its children (Sequential has a single list).
func (a *Augmenter) ChildrenLists() [][]*Augmenter {
	if composite, ok := a.op.(Composite); ok {
		return composite.ChildrenLists()
	}
	return nil
}

// AllChildren returns the augmenter's children: only the direct ones, or,
// if flat is set, the whole subtree flattened in depth-first preorder, every
// child immediately followed by its own children. The traversal keeps an
// explicit stack, so arbitrarily deep trees cannot overflow the call stack.
func (a *Augmenter) AllChildren(flat bool) []*Augmenter {
	var direct []*Augmenter
	for _, list := range a.ChildrenLists() {
		direct = append(direct, list...)
	}
	if !flat {
		return direct
	}
	var result, stack []*Augmenter
	push := func(children []*Augmenter) {
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	push(direct)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, node)
		push(node.AllChildren(false))
	}
	return result
}

// Copy returns a shallow copy: it shares the random state, the
// transformation and therefore the children with the original. Renaming or
// reconfiguring the copy doesn't touch the original, but draws do advance
// the shared state.
func (a *Augmenter) Copy() *Augmenter {
	clone := *a
	return &clone
}

// DeepCopy returns a copy sharing nothing with the original: the random
// state is copied at its current position and children are deep-copied
// recursively.
func (a *Augmenter) DeepCopy() *Augmenter {
	clone := *a
	clone.state = a.state.Copy()
	if composite, ok := a.op.(Composite); ok {
		clone.op = composite.WithChildren(mapChildren(composite.ChildrenLists(), (*Augmenter).DeepCopy))
	}
	return &clone
}

// mapChildren applies fn to every child, preserving the list grouping.
func mapChildren(lists [][]*Augmenter, fn func(*Augmenter) *Augmenter) [][]*Augmenter {
	return xslices.Map(lists, func(list []*Augmenter) []*Augmenter {
		return xslices.Map(list, fn)
	})
}

// firstOrNil unwraps the optional variadic hooks argument of the public
// augmentation methods.
func firstOrNil[T any](hooks []*T) *T {
	if len(hooks) == 0 {
		return nil
	}
	return hooks[0]
}
