// Package resource implements a shared memory budget for container storage.
//
// A Controller tracks the bytes held by every container attached to it and,
// when a hard limit is configured, refuses reservations that would exceed it.
// Reservations are non-blocking and fail fast with ErrMemoryLimitExceeded so a
// container can report an out-of-memory condition and keep its prior state.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20, // 64MB across all attached containers
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded - nothing was reserved
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so one budget may be
// shared by containers owned by different goroutines.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully: reservations always succeed
// and nothing is tracked.
package resource
