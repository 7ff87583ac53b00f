package positional

// Compare orders two magnitudes and returns -1, 0 or +1.
//
// Operands are truncated first. The empty vector is the smallest value.
// Otherwise the larger exponent wins; at equal exponents the limbs are
// compared most significant first and, when one vector is a prefix of the
// other, the longer one is larger because its last limb is non-zero.
func Compare(a, b Vector) int {
	a, b = Truncate(a), Truncate(b)
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	case a.Exp != b.Exp:
		if a.Exp > b.Exp {
			return 1
		}
		return -1
	}

	n := min(a.Len(), b.Len())
	for i := 0; i < n; i++ {
		if a.Limbs[i] != b.Limbs[i] {
			if a.Limbs[i] > b.Limbs[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case a.Len() > b.Len():
		return 1
	case a.Len() < b.Len():
		return -1
	}
	return 0
}

// Equal reports whether a and b hold the same value.
func Equal(a, b Vector) bool {
	return Compare(a, b) == 0
}
