package block

import (
	"errors"
	"testing"

	"github.com/hupe1980/vstack/internal/mem"
	"github.com/hupe1980/vstack/internal/mmap"
	"github.com/hupe1980/vstack/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected allocation failure")

type failingAllocator struct {
	remaining int
}

func (f *failingAllocator) Allocate(size int) (Region, error) {
	if f.remaining <= 0 {
		return nil, errInjected
	}
	f.remaining--
	return Heap{}.Allocate(size)
}

func fill(b *Block, n int) {
	for i := 0; i < n; i++ {
		slot := b.Slot(i)
		for j := range slot {
			slot[j] = byte(i*31 + j)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("zero capacity allocates nothing", func(t *testing.T) {
		b, err := New(nil, 8, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, b.Cap())
		assert.Equal(t, 0, b.Size())
		assert.Nil(t, b.Bytes())
	})

	t.Run("initial capacity", func(t *testing.T) {
		b, err := New(nil, 12, 5)
		require.NoError(t, err)
		defer b.Release()

		assert.Equal(t, 5, b.Cap())
		assert.Equal(t, 12, b.Stride())
		assert.Equal(t, 60, b.Size())
		assert.True(t, mem.IsAligned(b.Bytes(), mem.Alignment))
	})

	t.Run("invalid stride", func(t *testing.T) {
		_, err := New(nil, 0, 4)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})
}

func TestBlock_ResizePreservesPrefix(t *testing.T) {
	b, err := New(nil, 4, 4)
	require.NoError(t, err)
	defer b.Release()

	fill(b, 4)
	before := append([]byte(nil), b.Bytes()...)

	require.NoError(t, b.Resize(10, 4))
	assert.Equal(t, 10, b.Cap())
	assert.Equal(t, 40, b.Size())
	assert.Equal(t, before, b.Span(0, 4))

	// Grown tail is zeroed.
	for _, x := range b.Span(4, 10) {
		assert.Equal(t, byte(0), x)
	}

	require.NoError(t, b.Resize(2, 4))
	assert.Equal(t, 2, b.Cap())
	assert.Equal(t, before[:8], b.Bytes())
}

func TestBlock_ResizeFailureLeavesStateUnchanged(t *testing.T) {
	alloc := &failingAllocator{remaining: 1}
	b, err := New(alloc, 8, 3)
	require.NoError(t, err)
	fill(b, 3)
	before := append([]byte(nil), b.Bytes()...)

	err = b.Resize(100, 3)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 3, b.Cap())
	assert.Equal(t, before, b.Bytes())
}

func TestBlock_ResizeOverflow(t *testing.T) {
	b, err := New(nil, 1<<20, 0)
	require.NoError(t, err)

	err = b.Resize(int(^uint(0)>>1), 0)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.Equal(t, 0, b.Cap())
}

func TestBlock_Swap(t *testing.T) {
	a, err := New(nil, 2, 3)
	require.NoError(t, err)
	c, err := New(nil, 2, 7)
	require.NoError(t, err)
	fill(a, 3)
	aBytes := append([]byte(nil), a.Bytes()...)

	a.Swap(c)
	assert.Equal(t, 7, a.Cap())
	assert.Equal(t, 3, c.Cap())
	assert.Equal(t, aBytes, c.Bytes())
}

func TestBlock_Release(t *testing.T) {
	b, err := New(nil, 4, 4)
	require.NoError(t, err)

	require.NoError(t, b.Release())
	assert.Equal(t, 0, b.Cap())
	require.NoError(t, b.Release())

	// A released block can be grown again.
	require.NoError(t, b.Resize(2, 0))
	assert.Equal(t, 8, b.Size())
}

func TestLimited(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 256})
	b, err := New(NewLimited(nil, rc), 16, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(128), rc.MemoryUsage())
	fill(b, 8)
	before := append([]byte(nil), b.Bytes()...)

	// Growing to 16 slots needs 256 more bytes while the old 128 are still held.
	err = b.Resize(16, 8)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, 8, b.Cap())
	assert.Equal(t, before, b.Bytes())
	assert.Equal(t, int64(128), rc.MemoryUsage())

	require.NoError(t, b.Resize(4, 8))
	assert.Equal(t, int64(64), rc.MemoryUsage())
	assert.Equal(t, before[:64], b.Bytes())

	require.NoError(t, b.Release())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestLimited_InnerFailureReturnsBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
	l := NewLimited(&failingAllocator{}, rc)

	_, err := l.Allocate(100)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestMmap(t *testing.T) {
	b, err := New(Mmap{Advice: mmap.AccessSequential}, 32, 64)
	require.NoError(t, err)
	fill(b, 64)
	before := append([]byte(nil), b.Bytes()...)

	require.NoError(t, b.Resize(256, 64))
	assert.Equal(t, before, b.Span(0, 64))
	require.NoError(t, b.Release())
}

func TestHeap_InvalidSize(t *testing.T) {
	_, err := Heap{}.Allocate(0)
	assert.ErrorIs(t, err, ErrAllocationFailed)
}

func TestBlock_Stage(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		b, err := New(nil, 4, 2)
		require.NoError(t, err)
		fill(b, 2)
		before := append([]byte(nil), b.Bytes()...)
		oldSlot := b.Slot(1)

		st, err := b.Stage(5, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, st.Cap())
		assert.Equal(t, 2, b.Cap())

		// The current region stays readable while the staged one is filled.
		copy(st.Slot(2), oldSlot)
		assert.Equal(t, before, b.Bytes())

		st.Commit()
		assert.Equal(t, 5, b.Cap())
		assert.Equal(t, before, b.Span(0, 2))
		assert.Equal(t, before[4:8], b.Slot(2))

		// A second Commit or Abort is a no-op.
		st.Commit()
		require.NoError(t, st.Abort())
		assert.Equal(t, 5, b.Cap())
	})

	t.Run("abort returns budget", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
		b, err := New(NewLimited(nil, rc), 8, 4)
		require.NoError(t, err)
		fill(b, 4)
		before := append([]byte(nil), b.Bytes()...)

		st, err := b.Stage(8, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(96), rc.MemoryUsage())

		require.NoError(t, st.Abort())
		assert.Equal(t, int64(32), rc.MemoryUsage())
		assert.Equal(t, 4, b.Cap())
		assert.Equal(t, before, b.Bytes())

		st.Commit()
		assert.Equal(t, 4, b.Cap())
	})

	t.Run("mmap keeps old mapping until commit", func(t *testing.T) {
		b, err := New(Mmap{}, 4096, 1)
		require.NoError(t, err)
		defer b.Release()
		fill(b, 1)
		src := b.Slot(0)
		want := append([]byte(nil), src...)

		st, err := b.Stage(2, 1)
		require.NoError(t, err)
		copy(st.Slot(1), src)
		st.Commit()

		assert.Equal(t, want, b.Slot(0))
		assert.Equal(t, want, b.Slot(1))
	})

	t.Run("failure", func(t *testing.T) {
		b, err := New(&failingAllocator{remaining: 1}, 4, 1)
		require.NoError(t, err)

		_, err = b.Stage(2, 1)
		assert.ErrorIs(t, err, errInjected)
		assert.Equal(t, 1, b.Cap())

		_, err = b.Stage(-1, 0)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})
}
