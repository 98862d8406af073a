package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint64(0)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("valid max int", func(t *testing.T) {
		got, err := IntToUint64(math.MaxInt)
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxInt), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint64(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestUint64ToInt(t *testing.T) {
	t.Run("valid positive", func(t *testing.T) {
		got, err := Uint64ToInt(123)
		assert.NoError(t, err)
		assert.Equal(t, 123, got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Uint64ToInt(math.MaxUint64)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int
		ok      bool
		wantErr bool
	}{
		{"int", 7, 7, true, false},
		{"int32", int32(-3), -3, true, false},
		{"int64", int64(42), 42, true, false},
		{"uint", uint(5), 5, true, false},
		{"uint32", uint32(9), 9, true, false},
		{"uint64", uint64(11), 11, true, false},
		{"uint64 overflow", uint64(math.MaxUint64), 0, true, true},
		{"string", "12", 0, false, false},
		{"float", 1.5, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ToInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflow)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMulSize(t *testing.T) {
	got, err := MulSize(10, 16)
	assert.NoError(t, err)
	assert.Equal(t, 160, got)

	got, err = MulSize(math.MaxInt, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = MulSize(math.MaxInt/2+1, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulSize(-1, 8)
	assert.ErrorIs(t, err, ErrOverflow)
}
