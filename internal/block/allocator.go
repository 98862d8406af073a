package block

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vstack/internal/mem"
	"github.com/hupe1980/vstack/internal/mmap"
	"github.com/hupe1980/vstack/resource"
)

// ErrAllocationFailed is returned when a region cannot be obtained.
var ErrAllocationFailed = errors.New("block: allocation failed")

// Region is a contiguous byte region handed out by an Allocator.
type Region interface {
	// Bytes returns the region's memory. It must be at least the requested size
	// and zero filled when first returned.
	Bytes() []byte
	// Release returns the region to its allocator. Bytes must not be used afterwards.
	Release() error
}

// Allocator hands out byte regions.
type Allocator interface {
	Allocate(size int) (Region, error)
}

// Heap allocates aligned regions on the Go heap.
type Heap struct {
	// Align is the byte alignment of each region. 0 means mem.Alignment.
	Align int
}

type heapRegion struct {
	data []byte
}

func (r *heapRegion) Bytes() []byte { return r.data }

func (r *heapRegion) Release() error {
	r.data = nil
	return nil
}

// Allocate implements Allocator.
func (h Heap) Allocate(size int) (r Region, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrAllocationFailed, size)
	}
	align := h.Align
	if align == 0 {
		align = mem.Alignment
	}

	// make panics with "len out of range" for sizes the runtime refuses outright.
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailed, size, p)
		}
	}()
	return &heapRegion{data: mem.AllocAlignedTo(size, align)}, nil
}

// Mmap allocates regions as anonymous memory mappings.
type Mmap struct {
	// Advice is passed to the kernel for every new mapping.
	Advice mmap.AccessPattern
}

type mappedRegion struct {
	m *mmap.Mapping
}

func (r *mappedRegion) Bytes() []byte  { return r.m.Bytes() }
func (r *mappedRegion) Release() error { return r.m.Close() }

// Allocate implements Allocator.
func (a Mmap) Allocate(size int) (Region, error) {
	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	if a.Advice != mmap.AccessDefault {
		if err := m.Advise(a.Advice); err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("%w: advise: %w", ErrAllocationFailed, err)
		}
	}
	return &mappedRegion{m: m}, nil
}

// Limited charges every region of an inner allocator against a memory budget.
type Limited struct {
	inner  Allocator
	budget *resource.Controller
}

// NewLimited wraps inner so that each allocation first reserves its size
// from budget. A nil inner means Heap{}.
func NewLimited(inner Allocator, budget *resource.Controller) *Limited {
	if inner == nil {
		inner = Heap{}
	}
	return &Limited{inner: inner, budget: budget}
}

type limitedRegion struct {
	Region
	budget *resource.Controller
	size   int64
}

func (r *limitedRegion) Release() error {
	err := r.Region.Release()
	r.budget.ReleaseMemory(r.size)
	r.size = 0
	return err
}

// Allocate implements Allocator.
func (l *Limited) Allocate(size int) (Region, error) {
	n := int64(size)
	if err := l.budget.AcquireMemory(n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	r, err := l.inner.Allocate(size)
	if err != nil {
		l.budget.ReleaseMemory(n)
		return nil, err
	}
	return &limitedRegion{Region: r, budget: l.budget, size: n}, nil
}
