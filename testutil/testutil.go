package testutil

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/hupe1980/vstack"
	"github.com/hupe1980/vstack/internal/block"
)

// ErrInjected is returned by FailingAllocator and failing hooks.
var ErrInjected = errors.New("testutil: injected failure")

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillBytes fills dst with pseudo-random bytes.
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(dst)
}

// Pattern returns stride deterministic bytes derived from seed. Different
// seeds produce different patterns for any stride > 0.
func Pattern(stride, seed int) []byte {
	b := make([]byte, stride)
	for i := range b {
		b[i] = byte(seed*131 + i*7 + 1)
	}
	if stride > 0 {
		b[0] = byte(seed)
	}
	return b
}

// Counter counts lifecycle hook invocations.
type Counter struct {
	mu         sync.Mutex
	constructs int
	copies     int
	destroys   int
	// FailCopyAt makes the n-th copy (1-based) fail with ErrInjected; 0 disables.
	FailCopyAt int
	// FailConstructAt makes the n-th construction (1-based) fail; 0 disables.
	FailConstructAt int
}

func (c *Counter) construct() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constructs++
	if c.FailConstructAt > 0 && c.constructs == c.FailConstructAt {
		return ErrInjected
	}
	return nil
}

func (c *Counter) copy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copies++
	if c.FailCopyAt > 0 && c.copies == c.FailCopyAt {
		return ErrInjected
	}
	return nil
}

func (c *Counter) destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroys++
}

// Constructs returns the number of constructor invocations.
func (c *Counter) Constructs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constructs
}

// Copies returns the number of copy-constructor invocations.
func (c *Counter) Copies() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copies
}

// Destroys returns the number of destructor invocations.
func (c *Counter) Destroys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroys
}

// CountingHooks returns hooks for a Stack[T] that count into c. Construct
// leaves the zero value, Copy assigns.
func CountingHooks[T any](c *Counter) vstack.Hooks[T] {
	return vstack.Hooks[T]{
		Construct: func(*T) error {
			return c.construct()
		},
		Copy: func(dst *T, src *T) error {
			if err := c.copy(); err != nil {
				return err
			}
			*dst = *src
			return nil
		},
		Destroy: func(*T) {
			c.destroy()
		},
	}
}

// CountingRawHooks returns hooks for a Raw container that count into c.
// Construct fills the slot with the byte passed as args[0] (if any), Copy
// copies the source bytes.
func CountingRawHooks(c *Counter) vstack.RawHooks {
	return vstack.RawHooks{
		Construct: func(slot []byte, args []any) error {
			if err := c.construct(); err != nil {
				return err
			}
			if len(args) > 0 {
				if v, ok := args[0].(byte); ok {
					for i := range slot {
						slot[i] = v
					}
				}
			}
			return nil
		},
		Copy: func(dst, src []byte) error {
			if err := c.copy(); err != nil {
				return err
			}
			copy(dst, src)
			return nil
		},
		Destroy: func([]byte) {
			c.destroy()
		},
	}
}

// FailingAllocator succeeds for a fixed number of allocations, then fails
// every further one with ErrInjected until Reset.
type FailingAllocator struct {
	mu        sync.Mutex
	inner     block.Allocator
	remaining int
	calls     int
}

// NewFailingAllocator returns an allocator that serves n heap allocations.
func NewFailingAllocator(n int) *FailingAllocator {
	return &FailingAllocator{inner: block.Heap{}, remaining: n}
}

// Allocate implements vstack.Allocator.
func (f *FailingAllocator) Allocate(size int) (vstack.Region, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.remaining <= 0 {
		return nil, ErrInjected
	}
	f.remaining--
	return f.inner.Allocate(size)
}

// Reset allows n more allocations.
func (f *FailingAllocator) Reset(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining = n
}

// Calls returns the number of Allocate calls, failed ones included.
func (f *FailingAllocator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
