// Package testutil provides testing utilities for vstack.
//
// This package is intended for use in tests and benchmarks only.
//
// # Counting Hooks
//
//	c := &testutil.Counter{}
//	s, _ := vstack.NewWithHooks(testutil.CountingHooks[int](c))
//	...
//	c.Copies()   // Push invocations
//	c.Destroys() // Pop/Erase/Clear/Close invocations
//
// # Allocation Failure
//
//	fa := testutil.NewFailingAllocator(2) // third allocation fails
//	r, _ := vstack.NewRaw(16, vstack.WithAllocator(fa))
//
// # Byte Patterns
//
//	item := testutil.Pattern(16, 7) // deterministic, distinct per seed
package testutil
