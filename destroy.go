package vstack

import "fmt"

// Destroy closes the stack referenced by ref and sets *ref to nil.
// Destroying an already nil reference is a no-op; a nil ref itself is an
// ErrInvalidArgument.
func Destroy[T any](ref **Stack[T]) error {
	if ref == nil {
		return fmt.Errorf("%w: nil reference", ErrInvalidArgument)
	}
	s := *ref
	if s == nil {
		return nil
	}
	*ref = nil
	return s.Close()
}

// DestroyRaw closes the container referenced by ref and sets *ref to nil.
// Destroying an already nil reference is a no-op; a nil ref itself is an
// ErrInvalidArgument.
func DestroyRaw(ref **Raw) error {
	if ref == nil {
		return fmt.Errorf("%w: nil reference", ErrInvalidArgument)
	}
	r := *ref
	if r == nil {
		return nil
	}
	*ref = nil
	return r.Close()
}
