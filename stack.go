package vstack

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/vstack/internal/conv"
	"github.com/hupe1980/vstack/internal/growth"
	"github.com/hupe1980/vstack/resource"
)

// Stack is a growable container of T stored contiguously from index 0 (the
// bottom) upward; the top is index Len()-1.
//
// A Stack is not safe for concurrent use. Pointers returned by Peek, At, Data
// and the iterators are borrows: any call that may reallocate (Push, Emplace,
// SetCap, Swap, Close) invalidates them.
type Stack[T any] struct {
	version      Version
	hooks        Hooks[T]
	items        []T // len(items) is the capacity
	length       int
	scalePercent float64
	budget       *resource.Controller
	charged      int64
	logger       *Logger
	metrics      MetricsCollector
	closed       bool
}

// New creates a base (Version0) stack: values are copied by assignment and
// nothing runs on removal.
func New[T any](opts ...Option) (*Stack[T], error) {
	return newStack(Version0, Hooks[T]{}, opts)
}

// NewWithHooks creates an extended (Version1) stack that runs hooks on element
// construction, copy and destruction. Any hook may be nil.
func NewWithHooks[T any](hooks Hooks[T], opts ...Option) (*Stack[T], error) {
	return newStack(Version1, hooks, opts)
}

func newStack[T any](v Version, hooks Hooks[T], opts []Option) (*Stack[T], error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &Stack[T]{
		version:      v,
		hooks:        hooks,
		scalePercent: o.scalePercent,
		budget:       o.controller,
		metrics:      o.metricsCollector,
	}
	s.logger = o.logger.WithContainer("stack", v, s.Stride())

	if o.capacity > 0 {
		if err := s.realloc(o.capacity); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Version reports whether the stack carries lifecycle hooks.
func (s *Stack[T]) Version() Version { return s.version }

// Stride returns the size of one element in bytes.
func (s *Stack[T]) Stride() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Len returns the number of live elements.
func (s *Stack[T]) Len() int { return s.length }

// Cap returns the number of slots backed by storage.
func (s *Stack[T]) Cap() int { return len(s.items) }

// Empty reports whether the stack holds no elements.
func (s *Stack[T]) Empty() bool { return s.length == 0 }

// ScalePercent returns the growth multiplier applied on overflow.
func (s *Stack[T]) ScalePercent() float64 { return s.scalePercent }

// Hooks returns the lifecycle hooks. ok is false for a Version0 stack.
func (s *Stack[T]) Hooks() (hooks Hooks[T], ok bool) {
	return s.hooks, s.version == Version1
}

// SetScalePercent changes the growth multiplier.
func (s *Stack[T]) SetScalePercent(p float64) error {
	if s.closed {
		return ErrClosed
	}
	if !growth.ValidScale(p) {
		return fmt.Errorf("%w: scale percent %v", ErrInvalidArgument, p)
	}
	s.scalePercent = p
	return nil
}

// SetCap reallocates storage to exactly n slots, preserving the first
// min(Len(), n) elements.
//
// Shrinking below Len() truncates the length WITHOUT running the destroy hook
// on the dropped elements.
func (s *Stack[T]) SetCap(n int) error {
	if s.closed {
		return ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidArgument, n)
	}
	if n == len(s.items) {
		return nil
	}
	return s.realloc(n)
}

// SetLen sets the length directly, bypassing every hook. Slots exposed by
// growing the length hold whatever they last held (zero values unless SetLen
// previously shrank the stack).
//
// This is a low-level escape hatch: the caller must restore element
// consistency before any hook-aware call (Pop, Erase, Clear, Close).
func (s *Stack[T]) SetLen(n int) error {
	if s.closed {
		return ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("%w: length %d", ErrInvalidArgument, n)
	}
	if n > len(s.items) {
		return &RangeError{Op: "set length", Requested: n, Length: len(s.items)}
	}
	s.length = n
	return nil
}

// Push copies item onto the top of the stack, growing storage if needed.
// With a Copy hook the new slot is initialized by the hook; if it fails the
// error wraps ErrConstructionFailed and the stack is unchanged, including its
// capacity.
func (s *Stack[T]) Push(item T) error {
	err := s.push(&item)
	s.metrics.RecordInsert(err)
	return err
}

func (s *Stack[T]) push(item *T) error {
	if s.closed {
		return ErrClosed
	}
	if s.hooks.Copy == nil {
		return s.insert("push", HookCopy, func(slot *T) error {
			*slot = *item
			return nil
		})
	}
	return s.insert("push", HookCopy, func(slot *T) error {
		err := s.hooks.Copy(slot, item)
		s.metrics.RecordHook(HookCopy, err)
		return err
	})
}

// Emplace constructs a new top element in place.
//
// factory receives a pointer to the zeroed slot. If factory is nil the
// Construct hook is used instead; with neither, Emplace fails with
// ErrNoConstructor (always the case for a Version0 stack without a factory).
// A failing constructor leaves the stack unchanged.
func (s *Stack[T]) Emplace(factory func(dst *T) error) error {
	err := s.emplace(factory)
	s.metrics.RecordInsert(err)
	return err
}

func (s *Stack[T]) emplace(factory func(dst *T) error) error {
	if s.closed {
		return ErrClosed
	}
	build := factory
	if build == nil {
		build = s.hooks.Construct
	}
	if build == nil {
		return ErrNoConstructor
	}
	return s.insert("emplace", HookConstruct, func(slot *T) error {
		err := build(slot)
		s.metrics.RecordHook(HookConstruct, err)
		return err
	})
}

// insert fills the slot above the top with init. When storage is full the
// slot lives in staged storage that is committed only if init succeeds.
func (s *Stack[T]) insert(op string, kind HookKind, init func(slot *T) error) error {
	items := s.items
	var st *stagedSlots[T]
	if s.length == len(s.items) {
		var err error
		st, err = s.stage(growth.Next(len(s.items), s.length+1, s.scalePercent))
		if err != nil {
			return err
		}
		items = st.items
	}

	var zero T
	slot := &items[s.length]
	*slot = zero
	if err := init(slot); err != nil {
		*slot = zero
		if st != nil {
			s.abort(st)
		}
		s.logger.LogHookFailed(kind, s.length, err)
		return &HookError{Op: op, cause: err}
	}
	if st != nil {
		s.commit(st)
	}
	s.length++
	return nil
}

// Pop destroys the top element. Capacity is never reduced.
func (s *Stack[T]) Pop() error {
	err := s.pop()
	if err != nil {
		s.metrics.RecordRemove(0, err)
		return err
	}
	s.metrics.RecordRemove(1, nil)
	return nil
}

func (s *Stack[T]) pop() error {
	if s.closed {
		return ErrClosed
	}
	if s.length == 0 {
		return ErrEmpty
	}
	s.destroyTop()
	return nil
}

// Erase destroys the top n elements, top to bottom. If n exceeds Len() nothing
// is removed and the error wraps ErrRangeOutOfBounds.
func (s *Stack[T]) Erase(n int) error {
	return s.erase("erase", n)
}

// Clear destroys all elements, top to bottom. Capacity is unchanged.
func (s *Stack[T]) Clear() error {
	return s.erase("clear", s.length)
}

func (s *Stack[T]) erase(op string, n int) error {
	var err error
	switch {
	case s.closed:
		err = ErrClosed
	case n < 0:
		err = fmt.Errorf("%w: %s count %d", ErrInvalidArgument, op, n)
	case n > s.length:
		err = &RangeError{Op: op, Requested: n, Length: s.length}
	}
	if err != nil {
		s.metrics.RecordRemove(0, err)
		return err
	}

	for i := 0; i < n; i++ {
		s.destroyTop()
	}
	s.metrics.RecordRemove(n, nil)
	return nil
}

func (s *Stack[T]) destroyTop() {
	top := s.length - 1
	slot := &s.items[top]
	if s.hooks.Destroy != nil {
		s.hooks.Destroy(slot)
		s.metrics.RecordHook(HookDestroy, nil)
	}
	var zero T
	*slot = zero
	s.length = top
}

// Peek returns a pointer to the top element.
func (s *Stack[T]) Peek() (*T, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.length == 0 {
		return nil, ErrEmpty
	}
	return &s.items[s.length-1], nil
}

// Top returns a copy of the top element.
func (s *Stack[T]) Top() (T, error) {
	p, err := s.Peek()
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// At returns a pointer to element i, counted from the bottom.
func (s *Stack[T]) At(i int) (*T, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if i < 0 || i >= s.length {
		return nil, &RangeError{Op: "at", Requested: i, Length: s.length}
	}
	return &s.items[i], nil
}

// Data returns the live elements, bottom first. The slice aliases storage.
func (s *Stack[T]) Data() []T {
	return s.items[:s.length:s.length]
}

// Swap exchanges storage, length and capacity with other. No hook runs, and
// each stack keeps its own hooks. The memory budget charged for the storage
// moves with it.
func (s *Stack[T]) Swap(other *Stack[T]) error {
	if other == nil {
		return fmt.Errorf("%w: nil stack", ErrInvalidArgument)
	}
	if s.closed || other.closed {
		return ErrClosed
	}
	if s == other {
		return nil
	}
	s.items, other.items = other.items, s.items
	s.length, other.length = other.length, s.length
	s.charged, other.charged = other.charged, s.charged
	s.budget, other.budget = other.budget, s.budget
	return nil
}

// Close destroys the remaining elements top to bottom and releases storage.
// It is idempotent; every other operation on a closed stack returns ErrClosed.
func (s *Stack[T]) Close() error {
	if s.closed {
		return nil
	}
	destroyed := s.length
	for s.length > 0 {
		s.destroyTop()
	}
	s.items = nil
	s.budget.ReleaseMemory(s.charged)
	s.charged = 0
	s.closed = true
	s.logger.LogClose(destroyed, nil)
	return nil
}

// stagedSlots is grown storage whose budget is already charged but which is
// not yet installed.
type stagedSlots[T any] struct {
	items  []T
	size   int64
	oldCap int
	start  time.Time
}

func (s *Stack[T]) realloc(capacity int) error {
	st, err := s.stage(capacity)
	if err != nil {
		return err
	}
	s.commit(st)
	return nil
}

// stage allocates capacity slots holding a copy of the surviving elements.
// The new budget is reserved while the old one is still held, and the stack
// is not touched.
func (s *Stack[T]) stage(capacity int) (*stagedSlots[T], error) {
	st := &stagedSlots[T]{oldCap: len(s.items), start: time.Now()}
	next, size, err := s.allocate(capacity)
	if err != nil {
		s.metrics.RecordGrow(st.oldCap, capacity, time.Since(st.start), err)
		s.logger.LogGrow(st.oldCap, capacity, s.length, err)
		return nil, err
	}
	copy(next, s.items[:min(s.length, capacity)])
	st.items, st.size = next, size
	return st, nil
}

func (s *Stack[T]) allocate(capacity int) ([]T, int64, error) {
	size, err := conv.MulSize(capacity, s.Stride())
	if err != nil {
		return nil, 0, translateAllocError(capacity, err)
	}
	if err := s.budget.AcquireMemory(int64(size)); err != nil {
		return nil, 0, translateAllocError(capacity, err)
	}
	if capacity == 0 {
		return nil, int64(size), nil
	}
	next, err := makeSlots[T](capacity)
	if err != nil {
		s.budget.ReleaseMemory(int64(size))
		return nil, 0, translateAllocError(capacity, err)
	}
	return next, int64(size), nil
}

func (s *Stack[T]) commit(st *stagedSlots[T]) {
	s.budget.ReleaseMemory(s.charged)
	s.items, s.charged = st.items, st.size
	s.length = min(s.length, len(st.items))
	s.metrics.RecordGrow(st.oldCap, len(st.items), time.Since(st.start), nil)
	s.logger.LogGrow(st.oldCap, len(st.items), s.length, nil)
}

func (s *Stack[T]) abort(st *stagedSlots[T]) {
	s.budget.ReleaseMemory(st.size)
}

// makeSlots converts the runtime's "len out of range" panic into an error.
func makeSlots[T any](n int) (slots []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("make %d slots: %v", n, r)
		}
	}()
	return make([]T, n), nil
}
