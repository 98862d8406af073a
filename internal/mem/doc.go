// Package mem provides aligned heap allocation for byte storage blocks.
//
// # Aligned Allocation
//
// Blocks start on a cache-line boundary so that element slots of power-of-two
// strides never straddle more cache lines than necessary.
package mem
