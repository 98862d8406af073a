// Package mmap provides anonymous memory mappings for off-heap element storage.
//
// # Overview
//
// Anonymous mappings hand out zeroed, page-backed memory that lives outside the
// Go heap. The garbage collector never scans it, which makes it a good home for
// large stride-based containers whose elements are opaque bytes.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc/VirtualFree (Advise is a no-op)
//
// # Safety
//
// Never store Go pointers inside a mapping: the collector cannot see them.
// Bytes() must not be used after Close() returns.
package mmap
