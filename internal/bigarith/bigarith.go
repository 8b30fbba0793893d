// Package bigarith provides exact arithmetic helpers on nonnegative
// arbitrary-precision integers.
//
// Every helper allocates and returns a fresh *big.Int and never mutates its
// operands, so values can be shared between goroutines as long as nobody
// writes to them. The combinatorics code builds all rank and count
// arithmetic on top of these helpers; nothing in the rank path goes through
// floating point.
package bigarith

import "math/big"

// Add returns a + b.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Sub returns a - b. The result may be negative; callers in this module only
// subtract a smaller value from a larger one.
func Sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

// divFloor returns floor(a / b) for a >= 0 and b > 0. It panics on a zero
// or negative divisor and on a negative dividend.
func divFloor(a, b *big.Int) *big.Int {
	mustNonNegative(a, "MulDivFloor dividend")
	mustPositive(b, "MulDivFloor divisor")
	return new(big.Int).Quo(a, b)
}

// DivCeil returns ceil(a / b) for a >= 0 and b > 0.
//
// Panics:
//   - If b is zero.
//   - If a or b is negative.
func DivCeil(a, b *big.Int) *big.Int {
	mustNonNegative(a, "DivCeil dividend")
	mustPositive(b, "DivCeil divisor")
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// MulDivFloor returns floor(a * num / den), multiplying before dividing so
// that no truncation happens on the intermediate value.
//
// Parameters:
//   - a: The value to scale (nonnegative).
//   - num: The numerator of the scale factor (nonnegative).
//   - den: The denominator of the scale factor (strictly positive).
//
// Returns:
//   - *big.Int: The exact floored quotient.
func MulDivFloor(a *big.Int, num, den int64) *big.Int {
	if num < 0 {
		panic("bigarith: MulDivFloor numerator is negative")
	}
	product := new(big.Int).Mul(a, big.NewInt(num))
	return divFloor(product, big.NewInt(den))
}

// Less reports whether a < b.
func Less(a, b *big.Int) bool {
	return a.Cmp(b) < 0
}

func mustNonNegative(v *big.Int, what string) {
	if v.Sign() < 0 {
		panic("bigarith: " + what + " is negative")
	}
}

func mustPositive(v *big.Int, what string) {
	if v.Sign() <= 0 {
		panic("bigarith: " + what + " must be strictly positive")
	}
}
