// Package rational implements signed arbitrary-precision fractions on top of
// positional limb vectors, with Zero, NaN and Undefined as ordinary values.
//
// A Number is immutable. Every operation returns a new Number, and the only
// unary transformation, Neg, returns a copy with its sign flipped.
//
// Fractions are never reduced to lowest terms. Denominators grow with every
// operation and equality is decided by cross multiplication, so two
// structurally different Numbers may compare equal.
//
// Special values follow a fixed propagation algebra:
//
//	Undefined  any operation involving it yields Undefined
//	Zero       additive identity, absorbing for multiplication
//	NaN        a signed quantity with an empty denominator
//
// Comparisons involving Undefined are false for every relation except
// NotEqual.
package rational
