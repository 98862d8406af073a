package vstack

import "iter"

// All returns a sequence of (index, element) pairs from the top (index Len()-1)
// down to the bottom (index 0).
//
// The sequence is lazy and restartable. Elements removed while iterating are
// not yielded; elements added while iterating are not visited.
func (s *Stack[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := s.length - 1; i >= 0; i-- {
			if i >= s.length {
				i = s.length
				continue
			}
			if !yield(i, &s.items[i]) {
				return
			}
		}
	}
}

// Ascending returns a sequence of (index, element) pairs from the bottom to the top.
func (s *Stack[T]) Ascending() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < s.length; i++ {
			if !yield(i, &s.items[i]) {
				return
			}
		}
	}
}

// All returns a sequence of (index, slot) pairs from the top (index Len()-1)
// down to the bottom (index 0). Each slot aliases storage.
//
// The sequence is lazy and restartable. Elements removed while iterating are
// not yielded; elements added while iterating are not visited.
func (r *Raw) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := r.length - 1; i >= 0; i-- {
			if i >= r.length {
				i = r.length
				continue
			}
			if !yield(i, r.block.Slot(i)) {
				return
			}
		}
	}
}

// Ascending returns a sequence of (index, slot) pairs from the bottom to the top.
func (r *Raw) Ascending() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := 0; i < r.length; i++ {
			if !yield(i, r.block.Slot(i)) {
				return
			}
		}
	}
}
