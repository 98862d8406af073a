package vstack

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/vstack/internal/block"
	"github.com/hupe1980/vstack/internal/growth"
)

// Raw is the type-erased container: elements are opaque stride-sized byte
// slots stored contiguously from index 0 (the bottom) upward.
//
// Use Raw only where unrelated element types must cross one API (a plugin
// boundary, a foreign ABI); otherwise prefer Stack.
//
// A Raw is not safe for concurrent use. Slices returned by Peek, At, Data and
// the iterators alias storage and are invalidated by any call that may
// reallocate (Push, Emplace, SetCap, Swap, Close).
type Raw struct {
	version      Version
	hooks        RawHooks
	block        *block.Block
	length       int
	scalePercent float64
	logger       *Logger
	metrics      MetricsCollector
	closed       bool
}

// NewRaw creates a base (Version0) container of stride-byte elements.
func NewRaw(stride int, opts ...Option) (*Raw, error) {
	return newRaw(Version0, stride, RawHooks{}, opts)
}

// NewRawExtended creates an extended (Version1) container whose elements are
// managed by hooks. Any hook may be nil.
func NewRawExtended(stride int, hooks RawHooks, opts ...Option) (*Raw, error) {
	return newRaw(Version1, stride, hooks, opts)
}

// NewRawFor creates a base container whose stride is the size of T.
func NewRawFor[T any](opts ...Option) (*Raw, error) {
	var zero T
	return NewRaw(int(unsafe.Sizeof(zero)), opts...)
}

func newRaw(v Version, stride int, hooks RawHooks, opts []Option) (*Raw, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("%w: stride %d", ErrInvalidArgument, stride)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	alloc := o.allocator
	if o.controller != nil {
		alloc = block.NewLimited(alloc, o.controller)
	}
	b, err := block.New(alloc, stride, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	r := &Raw{
		version:      v,
		hooks:        hooks,
		block:        b,
		scalePercent: o.scalePercent,
		logger:       o.logger.WithContainer("raw", v, stride),
		metrics:      o.metricsCollector,
	}

	if o.capacity > 0 {
		if err := r.realloc(o.capacity); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Version reports whether the container carries lifecycle hooks.
func (r *Raw) Version() Version { return r.version }

// Stride returns the element size in bytes.
func (r *Raw) Stride() int { return r.block.Stride() }

// Len returns the number of live elements.
func (r *Raw) Len() int { return r.length }

// Cap returns the number of slots backed by storage.
func (r *Raw) Cap() int { return r.block.Cap() }

// Empty reports whether the container holds no elements.
func (r *Raw) Empty() bool { return r.length == 0 }

// ScalePercent returns the growth multiplier applied on overflow.
func (r *Raw) ScalePercent() float64 { return r.scalePercent }

// Hooks returns the lifecycle hooks. ok is false for a Version0 container.
func (r *Raw) Hooks() (hooks RawHooks, ok bool) {
	return r.hooks, r.version == Version1
}

// SetScalePercent changes the growth multiplier.
func (r *Raw) SetScalePercent(p float64) error {
	if r.closed {
		return ErrClosed
	}
	if !growth.ValidScale(p) {
		return fmt.Errorf("%w: scale percent %v", ErrInvalidArgument, p)
	}
	r.scalePercent = p
	return nil
}

// SetCap reallocates storage to exactly n slots, preserving the bytes of the
// first min(Len(), n) elements.
//
// Shrinking below Len() truncates the length WITHOUT running the destroy hook
// on the dropped elements.
func (r *Raw) SetCap(n int) error {
	if r.closed {
		return ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidArgument, n)
	}
	if n == r.block.Cap() {
		return nil
	}
	return r.realloc(n)
}

// SetLen sets the length directly, bypassing every hook.
//
// This is a low-level escape hatch: the caller must restore element
// consistency before any hook-aware call (Pop, Erase, Clear, Close).
func (r *Raw) SetLen(n int) error {
	if r.closed {
		return ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: length %d", ErrInvalidArgument, n)
	}
	if n > r.block.Cap() {
		return &RangeError{Op: "set length", Requested: n, Length: r.block.Cap()}
	}
	r.length = n
	return nil
}

// Push copies item (exactly Stride() bytes) onto the top, growing storage if
// needed. With a Copy hook the zeroed slot is initialized by the hook; if it
// fails the error wraps ErrConstructionFailed and the container is unchanged,
// including its capacity.
//
// item may alias the container's own storage, e.g. the result of Peek.
func (r *Raw) Push(item []byte) error {
	err := r.push(item)
	r.metrics.RecordInsert(err)
	return err
}

func (r *Raw) push(item []byte) error {
	if r.closed {
		return ErrClosed
	}
	if len(item) != r.block.Stride() {
		return fmt.Errorf("%w: item is %d bytes, stride is %d", ErrInvalidArgument, len(item), r.block.Stride())
	}
	if r.hooks.Copy == nil {
		return r.insert("push", HookCopy, func(slot []byte) error {
			copy(slot, item)
			return nil
		})
	}
	return r.insert("push", HookCopy, func(slot []byte) error {
		err := r.hooks.Copy(slot, item)
		r.metrics.RecordHook(HookCopy, err)
		return err
	})
}

// Emplace constructs a new top element in place by passing the zeroed slot
// and args to the Construct hook. Without a Construct hook (always the case
// for a Version0 container) it fails with ErrNoConstructor. A failing
// constructor leaves the container unchanged.
//
// args may alias the container's own storage: the previous region stays
// mapped until the constructor has returned.
func (r *Raw) Emplace(args ...any) error {
	err := r.emplace(args)
	r.metrics.RecordInsert(err)
	return err
}

func (r *Raw) emplace(args []any) error {
	if r.closed {
		return ErrClosed
	}
	if r.hooks.Construct == nil {
		return ErrNoConstructor
	}
	return r.insert("emplace", HookConstruct, func(slot []byte) error {
		err := r.hooks.Construct(slot, args)
		r.metrics.RecordHook(HookConstruct, err)
		return err
	})
}

// insert fills the slot above the top with init. When storage is full the
// slot lives in a staged region that replaces the current one only if init
// succeeds.
func (r *Raw) insert(op string, kind HookKind, init func(slot []byte) error) error {
	var (
		st   *stagedRegion
		slot []byte
	)
	if r.length == r.block.Cap() {
		var err error
		st, err = r.stage(growth.Next(r.block.Cap(), r.length+1, r.scalePercent))
		if err != nil {
			return err
		}
		slot = st.Slot(r.length)
	} else {
		slot = r.block.Slot(r.length)
	}

	clear(slot)
	if err := init(slot); err != nil {
		clear(slot)
		if st != nil {
			// The staged region was never visible; a failed release only leaks it.
			_ = st.Abort()
		}
		r.logger.LogHookFailed(kind, r.length, err)
		return &HookError{Op: op, cause: err}
	}
	if st != nil {
		r.commit(st)
	}
	r.length++
	return nil
}

// Pop destroys the top element. Capacity is never reduced.
func (r *Raw) Pop() error {
	var err error
	switch {
	case r.closed:
		err = ErrClosed
	case r.length == 0:
		err = ErrEmpty
	}
	if err != nil {
		r.metrics.RecordRemove(0, err)
		return err
	}
	r.destroyTop()
	r.metrics.RecordRemove(1, nil)
	return nil
}

// Erase destroys the top n elements, top to bottom. If n exceeds Len() nothing
// is removed and the error wraps ErrRangeOutOfBounds.
func (r *Raw) Erase(n int) error {
	return r.erase("erase", n)
}

// Clear destroys all elements, top to bottom. Capacity is unchanged.
func (r *Raw) Clear() error {
	return r.erase("clear", r.length)
}

func (r *Raw) erase(op string, n int) error {
	var err error
	switch {
	case r.closed:
		err = ErrClosed
	case n < 0:
		err = fmt.Errorf("%w: %s count %d", ErrInvalidArgument, op, n)
	case n > r.length:
		err = &RangeError{Op: op, Requested: n, Length: r.length}
	}
	if err != nil {
		r.metrics.RecordRemove(0, err)
		return err
	}

	for i := 0; i < n; i++ {
		r.destroyTop()
	}
	r.metrics.RecordRemove(n, nil)
	return nil
}

func (r *Raw) destroyTop() {
	top := r.length - 1
	if r.hooks.Destroy != nil {
		r.hooks.Destroy(r.block.Slot(top))
		r.metrics.RecordHook(HookDestroy, nil)
	}
	r.length = top
}

// Peek returns the bytes of the top element.
func (r *Raw) Peek() ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.length == 0 {
		return nil, ErrEmpty
	}
	return r.block.Slot(r.length - 1), nil
}

// At returns the bytes of element i, counted from the bottom.
func (r *Raw) At(i int) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if i < 0 || i >= r.length {
		return nil, &RangeError{Op: "at", Requested: i, Length: r.length}
	}
	return r.block.Slot(i), nil
}

// Data returns the Len()*Stride() bytes of the live elements, bottom first.
func (r *Raw) Data() []byte {
	if r.length == 0 {
		return nil
	}
	return r.block.Span(0, r.length)
}

// Swap exchanges storage, length and capacity with other. No hook runs and
// each container keeps its own hooks. Containers of different strides cannot
// be swapped.
func (r *Raw) Swap(other *Raw) error {
	if other == nil {
		return fmt.Errorf("%w: nil container", ErrInvalidArgument)
	}
	if r.closed || other.closed {
		return ErrClosed
	}
	if r == other {
		return nil
	}
	if r.block.Stride() != other.block.Stride() {
		return &StrideMismatchError{Left: r.block.Stride(), Right: other.block.Stride()}
	}
	r.block.Swap(other.block)
	r.length, other.length = other.length, r.length
	return nil
}

// Close destroys the remaining elements top to bottom and releases storage.
// It is idempotent; every other operation on a closed container returns
// ErrClosed.
func (r *Raw) Close() error {
	if r.closed {
		return nil
	}
	destroyed := r.length
	for r.length > 0 {
		r.destroyTop()
	}
	r.closed = true

	err := r.block.Release()
	if err != nil {
		err = fmt.Errorf("vstack: release storage: %w", err)
	}
	r.logger.LogClose(destroyed, err)
	return err
}

func (r *Raw) realloc(capacity int) error {
	st, err := r.stage(capacity)
	if err != nil {
		return err
	}
	r.commit(st)
	return nil
}

// stagedRegion is a grown region not yet installed in the block.
type stagedRegion struct {
	*block.Staged
	oldCap int
	start  time.Time
}

// stage prepares a region of capacity slots holding the surviving elements.
// The current region is untouched until commit.
func (r *Raw) stage(capacity int) (*stagedRegion, error) {
	oldCap := r.block.Cap()
	start := time.Now()
	st, err := r.block.Stage(capacity, r.length)
	if err != nil {
		err = translateAllocError(capacity, err)
		r.metrics.RecordGrow(oldCap, capacity, time.Since(start), err)
		r.logger.LogGrow(oldCap, capacity, r.length, err)
		return nil, err
	}
	return &stagedRegion{Staged: st, oldCap: oldCap, start: start}, nil
}

func (r *Raw) commit(st *stagedRegion) {
	st.Commit()
	r.length = min(r.length, st.Cap())
	r.metrics.RecordGrow(st.oldCap, st.Cap(), time.Since(st.start), nil)
	r.logger.LogGrow(st.oldCap, st.Cap(), r.length, nil)
}
