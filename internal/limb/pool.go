package limb

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scratch Pools
// ─────────────────────────────────────────────────────────────────────────────

// scratchPools pools partial-product buffers by size class.
// Size classes are powers of 4 from 64 to 1M limbs.
var scratchPools = [...]sync.Pool{
	{New: func() any { return make([]Limb, 64) }},
	{New: func() any { return make([]Limb, 256) }},
	{New: func() any { return make([]Limb, 1024) }},
	{New: func() any { return make([]Limb, 4096) }},
	{New: func() any { return make([]Limb, 16384) }},
	{New: func() any { return make([]Limb, 65536) }},
	{New: func() any { return make([]Limb, 262144) }},
	{New: func() any { return make([]Limb, 1048576) }}, // 1M limbs = 4MB
}

var scratchSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}

// poolIndex returns the pool index for a given size, or -1 when the size is
// too large to pool. Index i holds slices of 4^(i+3) limbs.
func poolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > scratchSizes[len(scratchSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// acquire returns a zeroed scratch slice of exactly size limbs.
// Release it with release once the caller is done:
//
//	buf := acquire(n)
//	defer release(buf)
func acquire(size int) []Limb {
	idx := poolIndex(size)
	if idx < 0 {
		return make([]Limb, size)
	}
	buf := scratchPools[idx].Get().([]Limb)
	clear(buf)
	return buf[:size]
}

// release returns a slice obtained from acquire to its pool. Slices whose
// capacity does not match a size class are dropped.
func release(buf []Limb) {
	if buf == nil {
		return
	}
	c := cap(buf)
	idx := poolIndex(c)
	if idx >= 0 && scratchSizes[idx] == c {
		scratchPools[idx].Put(buf[:c])
	}
}
