package limb

import (
	"errors"
	"fmt"
)

// Limb is one radix-2^32 digit.
type Limb = uint32

// Wide is the double-width accumulator used to detect carries.
type Wide = uint64

// SWide is the signed double-width accumulator used to detect borrows.
type SWide = int64

const (
	// Bits is the width of a limb.
	Bits = 32
	// Radix is the positional base of a limb sequence.
	Radix Wide = 1 << Bits
	// lowMask selects the result half of a wide accumulator.
	lowMask Wide = Radix - 1
)

// ErrBufferTooSmall is returned when a destination or source slice is
// shorter than the limb count an operation needs.
var ErrBufferTooSmall = errors.New("limb buffer too small")

// checkLen reports ErrBufferTooSmall when any buffer is shorter than n.
func checkLen(op string, n int, bufs ...[]Limb) error {
	if n < 0 {
		return fmt.Errorf("%s: negative count %d: %w", op, n, ErrBufferTooSmall)
	}
	for i, b := range bufs {
		if len(b) < n {
			return fmt.Errorf("%s: operand %d has %d limbs, need %d: %w", op, i, len(b), n, ErrBufferTooSmall)
		}
	}
	return nil
}
