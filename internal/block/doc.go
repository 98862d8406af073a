// Package block implements the exclusively owned byte region behind a
// stride-based container.
//
// A Block holds capacity*stride bytes obtained from an Allocator. Resizing
// always allocates the new region first and only releases the old one after
// the surviving prefix has been copied, so a failed allocation leaves the
// block exactly as it was.
//
// Stage splits a resize in two: the grown region can be filled while the
// current one is still mapped, then installed with Commit or dropped with
// Abort.
//
// # Allocators
//
//   - Heap: cache-line aligned Go heap slices (default)
//   - Mmap: anonymous off-heap mappings, invisible to the garbage collector
//   - Limited: charges every region against a resource.Controller budget
//
// Allocators compose: NewLimited(Mmap{}, controller) yields budgeted
// off-heap storage.
package block
