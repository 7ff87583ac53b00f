// Package limb provides the fixed-width buffer primitives of the rational
// engine: carry-propagating add, subtract, negate and multiply over raw limb
// slices.
//
// Slices are stored most-significant limb first. Every primitive walks them
// by index from the last element to the first, so carries and borrows move
// from the least significant limb toward the most significant one.
//
// The primitives never allocate result storage and never normalize. Buffer
// lengths are checked up front and a short buffer is reported as
// ErrBufferTooSmall instead of being written past its end.
package limb
