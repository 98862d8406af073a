package block

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vstack/internal/conv"
)

// ErrInvalidLayout is returned for a non-positive stride or negative capacity.
var ErrInvalidLayout = errors.New("block: invalid layout")

// Block is a contiguous region of capacity*stride bytes.
//
// A Block is not safe for concurrent use.
type Block struct {
	alloc    Allocator
	region   Region
	data     []byte
	stride   int
	capacity int
}

// New creates a block of capacity slots of stride bytes each.
// A nil alloc means Heap{}. A zero capacity allocates nothing.
func New(alloc Allocator, stride, capacity int) (*Block, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("%w: stride %d", ErrInvalidLayout, stride)
	}
	if alloc == nil {
		alloc = Heap{}
	}

	b := &Block{alloc: alloc, stride: stride}
	if err := b.Resize(capacity, 0); err != nil {
		return nil, err
	}
	return b, nil
}

// Stride returns the slot size in bytes.
func (b *Block) Stride() int { return b.stride }

// Cap returns the number of slots.
func (b *Block) Cap() int { return b.capacity }

// Size returns the region size in bytes (always Cap()*Stride()).
func (b *Block) Size() int { return len(b.data) }

// Bytes returns the whole region. The slice is invalidated by Resize, Swap and Release.
func (b *Block) Bytes() []byte { return b.data }

// Slot returns the stride bytes of slot i.
func (b *Block) Slot(i int) []byte {
	return slot(b.data, b.stride, i)
}

func slot(data []byte, stride, i int) []byte {
	off := i * stride
	return data[off : off+stride : off+stride]
}

// Span returns the bytes of slots [from, to).
func (b *Block) Span(from, to int) []byte {
	return b.data[from*b.stride : to*b.stride : to*b.stride]
}

// Zero clears slot i.
func (b *Block) Zero(i int) {
	clear(b.Slot(i))
}

// Resize reallocates the block to capacity slots, preserving the first keep
// slots (clamped to both the old and the new capacity).
//
// On error the block is unchanged.
func (b *Block) Resize(capacity, keep int) error {
	st, err := b.Stage(capacity, keep)
	if err != nil {
		return err
	}
	st.Commit()
	return nil
}

// Stage allocates a region of capacity slots and copies the first keep slots
// into it. The block itself is untouched until Commit, so its current region
// (and every slice into it) stays valid while the staged slots are filled.
func (b *Block) Stage(capacity, keep int) (*Staged, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidLayout, capacity)
	}
	keep = max(0, min(keep, capacity, b.capacity))

	size, err := conv.MulSize(capacity, b.stride)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	st := &Staged{b: b, capacity: capacity}
	if size > 0 {
		region, err := b.alloc.Allocate(size)
		if err != nil {
			return nil, err
		}
		data := region.Bytes()
		if len(data) < size {
			_ = region.Release()
			return nil, fmt.Errorf("%w: allocator returned %d of %d bytes", ErrAllocationFailed, len(data), size)
		}
		st.region, st.data = region, data[:size:size]
		copy(st.data, b.data[:keep*b.stride])
	}
	return st, nil
}

// Staged is a region prepared by Stage and not yet installed in its block.
// Exactly one of Commit or Abort must be called.
type Staged struct {
	b        *Block
	region   Region
	data     []byte
	capacity int
	done     bool
}

// Cap returns the number of slots of the staged region.
func (s *Staged) Cap() int { return s.capacity }

// Slot returns the stride bytes of staged slot i.
func (s *Staged) Slot(i int) []byte {
	return slot(s.data, s.b.stride, i)
}

// Commit installs the staged region and releases the block's previous one.
func (s *Staged) Commit() {
	if s.done {
		return
	}
	s.done = true

	b := s.b
	old := b.region
	b.region, b.data, b.capacity = s.region, s.data, s.capacity
	if old != nil {
		// The old region is unreachable from here on; a failed unmap only leaks it.
		_ = old.Release()
	}
}

// Abort releases the staged region and leaves the block as it was.
func (s *Staged) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.region == nil {
		return nil
	}
	return s.region.Release()
}

// Swap exchanges the regions of b and o. Both blocks must share a stride.
// Each block keeps its own allocator.
func (b *Block) Swap(o *Block) {
	b.region, o.region = o.region, b.region
	b.data, o.data = o.data, b.data
	b.capacity, o.capacity = o.capacity, b.capacity
}

// Release frees the region. The block is left with zero capacity and can be
// resized again.
func (b *Block) Release() error {
	old := b.region
	b.region, b.data, b.capacity = nil, nil, 0
	if old == nil {
		return nil
	}
	return old.Release()
}
