package mem

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)
		assert.Equal(t, size, cap(buf), "capacity must be clipped for size %d", size)
		assert.True(t, IsAligned(buf, Alignment), "size %d not aligned to %d", size, Alignment)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestAllocAlignedTo(t *testing.T) {
	for _, align := range []int{2, 8, 16, 128, 4096} {
		buf := AllocAlignedTo(100, align)
		assert.Len(t, buf, 100)
		assert.True(t, IsAligned(buf, align), "align %d", align)
	}

	// Non power of two falls back to a plain allocation.
	buf := AllocAlignedTo(10, 12)
	assert.Len(t, buf, 10)
}

func TestAllocAligned_Zeroed(t *testing.T) {
	buf := AllocAligned(256)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zero: %d", i, b)
		}
	}
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size)
			}
		})
	}
}
