package vstack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a zero stride, a nil handle reference,
	// a mis-sized item or an out-of-range option value.
	ErrInvalidArgument = errors.New("vstack: invalid argument")

	// ErrOutOfMemory is returned when storage cannot be (re)allocated.
	// The container keeps its previous storage, length and capacity.
	ErrOutOfMemory = errors.New("vstack: out of memory")

	// ErrImmutableField is returned when setting a field fixed at construction.
	ErrImmutableField = errors.New("vstack: field is immutable")

	// ErrUnsupportedField is returned for an unknown field identifier or a hook
	// field on a base container.
	ErrUnsupportedField = errors.New("vstack: unsupported field")

	// ErrEmpty is returned by Pop, Peek and Top on an empty container.
	ErrEmpty = errors.New("vstack: container is empty")

	// ErrRangeOutOfBounds is returned when a count or index exceeds the length.
	ErrRangeOutOfBounds = errors.New("vstack: range out of bounds")

	// ErrConstructionFailed is returned when a constructor or copy hook fails.
	ErrConstructionFailed = errors.New("vstack: element construction failed")

	// ErrNoConstructor is returned by Emplace when no constructor is available.
	ErrNoConstructor = errors.New("vstack: no constructor configured")

	// ErrStrideMismatch is returned when swapping containers of different strides.
	ErrStrideMismatch = errors.New("vstack: stride mismatch")

	// ErrClosed is returned by every operation on a destroyed container.
	ErrClosed = errors.New("vstack: container is closed")
)

// RangeError reports a count or index beyond the container's length.
type RangeError struct {
	Op        string
	Requested int
	Length    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("vstack: %s: %d out of range for length %d", e.Op, e.Requested, e.Length)
}

// Is reports whether target is ErrRangeOutOfBounds.
func (e *RangeError) Is(target error) bool { return target == ErrRangeOutOfBounds }

// StrideMismatchError reports a swap between containers of different strides.
type StrideMismatchError struct {
	Left  int
	Right int
}

func (e *StrideMismatchError) Error() string {
	return fmt.Sprintf("vstack: stride mismatch: %d != %d", e.Left, e.Right)
}

// Is reports whether target is ErrStrideMismatch.
func (e *StrideMismatchError) Is(target error) bool { return target == ErrStrideMismatch }

// AllocationError reports a failed (re)allocation.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type AllocationError struct {
	// Capacity is the slot count that could not be backed.
	Capacity int
	cause    error
}

func (e *AllocationError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("vstack: out of memory: capacity %d", e.Capacity)
	}
	return fmt.Sprintf("vstack: out of memory: capacity %d: %v", e.Capacity, e.cause)
}

// Is reports whether target is ErrOutOfMemory.
func (e *AllocationError) Is(target error) bool { return target == ErrOutOfMemory }

func (e *AllocationError) Unwrap() error { return e.cause }

// HookError reports a failing constructor or copy hook.
//
// The error returned by the hook can be accessed via errors.Unwrap.
type HookError struct {
	Op    string
	cause error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("vstack: %s: element construction failed: %v", e.Op, e.cause)
}

// Is reports whether target is ErrConstructionFailed.
func (e *HookError) Is(target error) bool { return target == ErrConstructionFailed }

func (e *HookError) Unwrap() error { return e.cause }

// FieldError reports a rejected field access on a Raw container.
type FieldError struct {
	Field Field
	err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s", e.err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.err }

func translateAllocError(capacity int, err error) error {
	if err == nil {
		return nil
	}
	return &AllocationError{Capacity: capacity, cause: err}
}
