package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("conv: integer overflow")

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint64 (negative)", ErrOverflow, v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d cannot be converted to int (too large)", ErrOverflow, v)
	}
	return int(v), nil
}

// ToInt converts any built-in integer value to int safely.
// ok is false when v is not an integer type.
func ToInt(v any) (n int, ok bool, err error) {
	switch x := v.(type) {
	case int:
		return x, true, nil
	case int8:
		return int(x), true, nil
	case int16:
		return int(x), true, nil
	case int32:
		return int(x), true, nil
	case int64:
		if int64(int(x)) != x {
			return 0, true, fmt.Errorf("%w: %d cannot be converted to int", ErrOverflow, x)
		}
		return int(x), true, nil
	case uint:
		n, err := Uint64ToInt(uint64(x))
		return n, true, err
	case uint8:
		return int(x), true, nil
	case uint16:
		return int(x), true, nil
	case uint32:
		n, err := Uint64ToInt(uint64(x))
		return n, true, err
	case uint64:
		n, err := Uint64ToInt(x)
		return n, true, err
	default:
		return 0, false, nil
	}
}

// MulSize returns count*size for non-negative operands, failing on overflow.
func MulSize(count, size int) (int, error) {
	if count < 0 || size < 0 {
		return 0, fmt.Errorf("%w: negative size operand (%d * %d)", ErrOverflow, count, size)
	}
	if size != 0 && count > math.MaxInt/size {
		return 0, fmt.Errorf("%w: %d * %d exceeds int", ErrOverflow, count, size)
	}
	return count * size, nil
}
