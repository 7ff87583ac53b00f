package limb

import "context"

// ─────────────────────────────────────────────────────────────────────────────
// Carry-Propagating Primitives
// ─────────────────────────────────────────────────────────────────────────────

// Add computes dst[:n] = a[:n] + b[:n] + carry and returns the outgoing carry.
//
// Parameters:
//   - dst: Destination buffer, may alias a or b.
//   - a, b: Operands, most-significant limb first.
//   - n: Number of limbs to process.
//   - carry: Incoming carry (0 or 1).
//
// Returns:
//   - Limb: The carry out of the most significant limb (0 or 1).
//   - error: ErrBufferTooSmall if any buffer holds fewer than n limbs.
func Add(dst, a, b []Limb, n int, carry Limb) (Limb, error) {
	if err := checkLen("add", n, dst, a, b); err != nil {
		return 0, err
	}
	c := Wide(carry)
	for i := n - 1; i >= 0; i-- {
		sum := Wide(a[i]) + Wide(b[i]) + c
		dst[i] = Limb(sum & lowMask)
		c = sum >> Bits
	}
	return Limb(c), nil
}

// Sub computes dst[:n] = a[:n] - b[:n] - borrow and returns the outgoing
// borrow. When the result underflows, dst holds its two's-complement low
// part and the returned borrow is 1.
func Sub(dst, a, b []Limb, n int, borrow Limb) (Limb, error) {
	if err := checkLen("sub", n, dst, a, b); err != nil {
		return 0, err
	}
	br := SWide(borrow)
	for i := n - 1; i >= 0; i-- {
		diff := SWide(a[i]) - SWide(b[i]) - br
		br = 0
		if diff < 0 {
			br = 1
		}
		dst[i] = Limb(Wide(diff) & lowMask)
	}
	return Limb(br), nil
}

// Accumulate adds src[:n] onto dst[:n] in place and returns the carry.
// Multiplication uses it to sum shifted partial products.
func Accumulate(dst, src []Limb, n int, carry Limb) (Limb, error) {
	return Add(dst, dst, src, n, carry)
}

// Negate replaces buf[:n] with its two's-complement negation. It turns the
// wrapped result of an underflowing Sub back into a magnitude.
func Negate(buf []Limb, n int, borrow Limb) error {
	if err := checkLen("negate", n, buf); err != nil {
		return err
	}
	br := SWide(borrow)
	for i := n - 1; i >= 0; i-- {
		v := -SWide(buf[i]) - br
		br = 0
		if v < 0 {
			br = 1
		}
		buf[i] = Limb(Wide(v) & lowMask)
	}
	return nil
}

// ScaleMulLimb computes dst[:n] = src[:n] * scalar + carry and returns the
// limb that overflows past the most significant position.
func ScaleMulLimb(dst, src []Limb, n int, scalar, carry Limb) (Limb, error) {
	if err := checkLen("scale", n, dst, src); err != nil {
		return 0, err
	}
	c := Wide(carry)
	s := Wide(scalar)
	for i := n - 1; i >= 0; i-- {
		prod := Wide(src[i])*s + c
		dst[i] = Limb(prod & lowMask)
		c = prod >> Bits
	}
	return Limb(c), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Buffer Multiplication
// ─────────────────────────────────────────────────────────────────────────────

// ProductLen returns the destination length MulBuffers needs for operands of
// the given lengths.
func ProductLen(biggerLen, smallerLen int) int {
	return biggerLen + smallerLen + 1
}

// MulBuffers computes the grade-school product of bigger and smaller into
// dst. The product is right-aligned in dst[:ProductLen(len(bigger),
// len(smaller))], leaving the leading limb of that window zero.
//
// For every limb of smaller, least significant first, the partial product
// bigger*limb is formed in a pooled scratch buffer and accumulated into dst
// one limb further toward the most significant end than the previous one.
// A carry out of the accumulation moves into the next-higher limbs of dst.
//
// Parameters:
//   - dst: Destination, at least ProductLen(len(bigger), len(smaller)) limbs.
//     It must not alias either operand.
//   - bigger: The longer operand.
//   - smaller: The shorter operand.
//
// Returns:
//   - error: ErrBufferTooSmall if dst cannot hold the product.
func MulBuffers(dst, bigger, smaller []Limb) error {
	return MulBuffersContext(context.Background(), dst, bigger, smaller)
}

// cancelStride is the number of limb products between checks of ctx.
const cancelStride = 1 << 20

// MulBuffersContext is MulBuffers that stops with ctx.Err() once ctx is
// done. It checks ctx about every cancelStride limb products; dst holds a
// partial sum after cancellation.
func MulBuffersContext(ctx context.Context, dst, bigger, smaller []Limb) error {
	nb, ns := len(bigger), len(smaller)
	width := ProductLen(nb, ns)
	if err := checkLen("mul", width, dst); err != nil {
		return err
	}
	clear(dst[:width])
	if nb == 0 || ns == 0 {
		return nil
	}

	scratch := acquire(nb + 1)
	defer release(scratch)

	work := 0
	for j := ns - 1; j >= 0; j-- {
		if work += nb; work >= cancelStride {
			work = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		shift := ns - 1 - j
		if smaller[j] == 0 {
			continue
		}
		over, err := ScaleMulLimb(scratch[1:], bigger, nb, smaller[j], 0)
		if err != nil {
			return err
		}
		scratch[0] = over

		end := width - shift
		start := end - (nb + 1)
		carry, err := Accumulate(dst[start:end], scratch, nb+1, 0)
		if err != nil {
			return err
		}
		for i := start - 1; carry != 0 && i >= 0; i-- {
			sum := Wide(dst[i]) + Wide(carry)
			dst[i] = Limb(sum & lowMask)
			carry = Limb(sum >> Bits)
		}
	}
	return nil
}
