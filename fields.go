package vstack

import (
	"fmt"

	"github.com/hupe1980/vstack/internal/conv"
)

// Field identifies a Raw container attribute on the identifier-based accessor
// surface (Get/Set). Typed accessors are preferred; this surface exists for
// callers that must address attributes by number, such as foreign bindings.
type Field int

const (
	FieldVersion Field = iota
	FieldStride
	FieldLength
	FieldCapacity
	FieldScalePercent

	// Version1 only.
	FieldConstructor
	FieldCopyConstructor
	FieldDestructor
)

func (f Field) String() string {
	switch f {
	case FieldVersion:
		return "version"
	case FieldStride:
		return "stride"
	case FieldLength:
		return "length"
	case FieldCapacity:
		return "capacity"
	case FieldScalePercent:
		return "scale_percent"
	case FieldConstructor:
		return "constructor"
	case FieldCopyConstructor:
		return "copy_constructor"
	case FieldDestructor:
		return "destructor"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

func (f Field) isHook() bool {
	return f >= FieldConstructor && f <= FieldDestructor
}

// Get returns the value of field f:
//
//	FieldVersion                    Version
//	FieldStride, Length, Capacity   uint64
//	FieldScalePercent               float64
//	FieldConstructor                ConstructFunc (may be nil)
//	FieldCopyConstructor            CopyFunc (may be nil)
//	FieldDestructor                 DestroyFunc (may be nil)
//
// Hook fields on a Version0 container and unknown identifiers fail with
// ErrUnsupportedField.
func (r *Raw) Get(f Field) (any, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if err := r.checkField(f); err != nil {
		return nil, err
	}

	switch f {
	case FieldVersion:
		return r.version, nil
	case FieldStride:
		return conv.IntToUint64(r.block.Stride())
	case FieldLength:
		return conv.IntToUint64(r.length)
	case FieldCapacity:
		return conv.IntToUint64(r.block.Cap())
	case FieldScalePercent:
		return r.scalePercent, nil
	case FieldConstructor:
		return r.hooks.Construct, nil
	case FieldCopyConstructor:
		return r.hooks.Copy, nil
	default:
		return r.hooks.Destroy, nil
	}
}

// Set writes field f under the rules of the typed setters: FieldCapacity
// reallocates (see SetCap) and FieldLength bypasses hooks (see SetLen).
//
// FieldStride is immutable. FieldVersion is immutable too: the version is
// resolved once at construction (NewRaw or NewRawExtended) because it decides
// whether hook fields exist at all. Both fail with ErrImmutableField.
//
// Accepted values:
//
//	FieldLength, FieldCapacity      any built-in integer type
//	FieldScalePercent               float64, float32 or any built-in integer type
//	FieldConstructor                ConstructFunc, func([]byte, []any) error or nil
//	FieldCopyConstructor            CopyFunc, func([]byte, []byte) error or nil
//	FieldDestructor                 DestroyFunc, func([]byte) or nil
//
// nil clears a hook. Any other value type fails with ErrInvalidArgument.
func (r *Raw) Set(f Field, value any) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.checkField(f); err != nil {
		return err
	}

	switch f {
	case FieldVersion, FieldStride:
		return &FieldError{Field: f, err: ErrImmutableField}
	case FieldLength, FieldCapacity:
		n, ok, err := conv.ToInt(value)
		if !ok {
			return r.badValue(f, value)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, f, err)
		}
		if f == FieldLength {
			return r.SetLen(n)
		}
		return r.SetCap(n)
	case FieldScalePercent:
		switch p := value.(type) {
		case float64:
			return r.SetScalePercent(p)
		case float32:
			return r.SetScalePercent(float64(p))
		}
		n, ok, err := conv.ToInt(value)
		if !ok || err != nil {
			return r.badValue(f, value)
		}
		return r.SetScalePercent(float64(n))
	}
	return r.setHook(f, value)
}

func (r *Raw) setHook(f Field, value any) error {
	switch f {
	case FieldConstructor:
		switch fn := value.(type) {
		case nil:
			r.hooks.Construct = nil
		case ConstructFunc:
			r.hooks.Construct = fn
		case func([]byte, []any) error:
			r.hooks.Construct = fn
		default:
			return r.badValue(f, value)
		}
	case FieldCopyConstructor:
		switch fn := value.(type) {
		case nil:
			r.hooks.Copy = nil
		case CopyFunc:
			r.hooks.Copy = fn
		case func([]byte, []byte) error:
			r.hooks.Copy = fn
		default:
			return r.badValue(f, value)
		}
	case FieldDestructor:
		switch fn := value.(type) {
		case nil:
			r.hooks.Destroy = nil
		case DestroyFunc:
			r.hooks.Destroy = fn
		case func([]byte):
			r.hooks.Destroy = fn
		default:
			return r.badValue(f, value)
		}
	}
	return nil
}

func (r *Raw) checkField(f Field) error {
	if f < FieldVersion || f > FieldDestructor {
		return &FieldError{Field: f, err: ErrUnsupportedField}
	}
	if f.isHook() && r.version != Version1 {
		return &FieldError{Field: f, err: ErrUnsupportedField}
	}
	return nil
}

func (r *Raw) badValue(f Field, value any) error {
	return fmt.Errorf("%w: %T is not a valid %s value", ErrInvalidArgument, value, f)
}
