// Package conv provides checked integer conversion and size arithmetic.
//
// Element counts travel as int inside the container and as uint64 across the
// field accessor surface; byte sizes are count*stride products that must never
// wrap. Every helper here reports ErrOverflow instead of silently truncating.
//
// For conversions that are provably safe by construction (loop indices,
// already-validated counts), use direct type casts instead.
package conv
