package vstack

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting container metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Collectors may be shared by many containers, so implementations should be
// safe for concurrent use even though containers themselves are not.
type MetricsCollector interface {
	// RecordGrow is called after every reallocation attempt, whether triggered
	// by an insertion or by SetCap. err is nil if successful.
	RecordGrow(oldCap, newCap int, duration time.Duration, err error)

	// RecordInsert is called after each Push or Emplace.
	RecordInsert(err error)

	// RecordRemove is called after each Pop, Erase or Clear with the number of
	// elements removed.
	RecordRemove(count int, err error)

	// RecordHook is called after each lifecycle hook invocation.
	RecordHook(kind HookKind, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordInsert(error)                        {}
func (NoopMetricsCollector) RecordRemove(int, error)                   {}
func (NoopMetricsCollector) RecordHook(HookKind, error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	GrowCount      atomic.Int64
	GrowErrors     atomic.Int64
	GrowTotalNanos atomic.Int64
	InsertCount    atomic.Int64
	InsertErrors   atomic.Int64
	RemoveCount    atomic.Int64
	RemovedItems   atomic.Int64
	RemoveErrors   atomic.Int64
	ConstructCount atomic.Int64
	CopyCount      atomic.Int64
	DestroyCount   atomic.Int64
	HookErrors     atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(_, _ int, duration time.Duration, err error) {
	b.GrowCount.Add(1)
	b.GrowTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GrowErrors.Add(1)
	}
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(err error) {
	b.InsertCount.Add(1)
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(count int, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
		return
	}
	b.RemovedItems.Add(int64(count))
}

// RecordHook implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHook(kind HookKind, err error) {
	switch kind {
	case HookConstruct:
		b.ConstructCount.Add(1)
	case HookCopy:
		b.CopyCount.Add(1)
	case HookDestroy:
		b.DestroyCount.Add(1)
	}
	if err != nil {
		b.HookErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GrowCount:      b.GrowCount.Load(),
		GrowErrors:     b.GrowErrors.Load(),
		GrowAvgNanos:   b.getAvgGrowNanos(),
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		RemoveCount:    b.RemoveCount.Load(),
		RemovedItems:   b.RemovedItems.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		ConstructCount: b.ConstructCount.Load(),
		CopyCount:      b.CopyCount.Load(),
		DestroyCount:   b.DestroyCount.Load(),
		HookErrors:     b.HookErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGrowNanos() int64 {
	count := b.GrowCount.Load()
	if count == 0 {
		return 0
	}
	return b.GrowTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	GrowCount      int64
	GrowErrors     int64
	GrowAvgNanos   int64
	InsertCount    int64
	InsertErrors   int64
	RemoveCount    int64
	RemovedItems   int64
	RemoveErrors   int64
	ConstructCount int64
	CopyCount      int64
	DestroyCount   int64
	HookErrors     int64
}
