// Package vstack provides growable, stack-shaped containers with explicit
// control over storage growth and element lifecycle.
//
// Two containers share one model:
//
//   - Stack[T]: the element type is fixed at compile time.
//   - Raw: elements are opaque stride-sized byte slots, for boundaries where
//     unrelated element types must cross one API.
//
// # Quick Start
//
//	s, _ := vstack.New[int](vstack.WithCapacity(8))
//	defer s.Close()
//
//	s.Push(1)
//	s.Push(2)
//	top, _ := s.Top() // 2
//	s.Pop()
//
// # Layout
//
// Elements are stored contiguously from index 0 (the bottom) upward. The top
// is index Len()-1. Erase(n) removes the n topmost elements; All iterates from
// the top down, Ascending from the bottom up.
//
// # Growth
//
// When an insertion finds Len() == Cap(), capacity grows to
//
//	max(ceil(Cap() * (1 + ScalePercent()/100)), Len()+1)
//
// so growth always progresses. The new storage is allocated before the old is
// released; if allocation fails the call returns ErrOutOfMemory and the
// container is unchanged. Pop, Erase and Clear never shrink capacity; SetCap
// does.
//
// # Versions and Hooks
//
// A Version0 container copies values and runs nothing on removal. A Version1
// container (NewWithHooks, NewRawExtended) carries a lifecycle policy:
//
//	s, _ := vstack.NewWithHooks(vstack.Hooks[*os.File]{
//	    Destroy: func(f **os.File) { (*f).Close() },
//	})
//
// Construct runs on Emplace, Copy on Push, Destroy on Pop, Erase, Clear and
// Close. A failing Construct or Copy leaves the length unchanged and returns an
// error wrapping ErrConstructionFailed. Swap never runs hooks.
//
// # Memory Budgets
//
// Containers may share a resource.Controller; every reallocation reserves its
// bytes from the budget first:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
//	r, _ := vstack.NewRaw(64, vstack.WithMemoryController(rc))
//
// Raw storage may also live off-heap with WithAllocator(MmapAllocator()).
//
// # Ownership
//
// A container exclusively owns its storage. Pointers and slices returned by
// Peek, At, Data and the iterators are borrows, invalid after the next call
// that may reallocate. Destroy(&s) closes s and nils the reference; a second
// Destroy is a no-op. Every operation on a closed container returns ErrClosed.
//
// # Thread Safety
//
// Containers are not safe for concurrent use. Serialize access externally.
// Loggers, metrics collectors and resource controllers may be shared.
package vstack
