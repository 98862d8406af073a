package vstack

import (
	"fmt"

	"github.com/hupe1980/vstack/internal/block"
	"github.com/hupe1980/vstack/internal/growth"
	"github.com/hupe1980/vstack/internal/mmap"
	"github.com/hupe1980/vstack/resource"
)

// Allocator hands out the byte regions backing a Raw container.
type Allocator = block.Allocator

// Region is a byte region handed out by an Allocator.
type Region = block.Region

// HeapAllocator returns the default allocator: cache-line aligned Go heap memory.
func HeapAllocator() Allocator { return block.Heap{} }

// MmapAllocator returns an allocator backed by anonymous memory mappings.
// Storage lives outside the Go heap; never store Go pointers in such elements.
func MmapAllocator() Allocator { return block.Mmap{Advice: mmap.AccessSequential} }

type options struct {
	capacity         int
	scalePercent     float64
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
	allocator        Allocator
}

// Option configures container construction.
type Option func(*options)

func defaultOptions() options {
	return options{
		scalePercent:     growth.DefaultScalePercent,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		allocator:        block.Heap{},
	}
}

func buildOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.capacity < 0 {
		return o, fmt.Errorf("%w: capacity %d", ErrInvalidArgument, o.capacity)
	}
	if !growth.ValidScale(o.scalePercent) {
		return o, fmt.Errorf("%w: scale percent %v", ErrInvalidArgument, o.scalePercent)
	}
	return o, nil
}

// WithCapacity sets the number of slots allocated at construction.
// The default is 0: no storage until the first insertion.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithScalePercent sets the growth multiplier applied on overflow, in percent.
// 50 (the default) grows capacity by half; 0 grows one slot at a time.
func WithScalePercent(p float64) Option {
	return func(o *options) {
		o.scalePercent = p
	}
}

// WithLogger configures the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures the metrics sink.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMemoryController charges all storage of the container against a shared
// memory budget. Allocations beyond the budget fail with ErrOutOfMemory.
func WithMemoryController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithAllocator sets the allocator backing a Raw container's storage.
// Stack ignores it: typed elements always live on the Go heap.
// If nil is passed, HeapAllocator is used.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = block.Heap{}
		}
		o.allocator = a
	}
}
