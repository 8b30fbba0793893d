// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file contains the exact and approximate binomial coefficient counters.
package combin

import (
	"math/big"

	gonumcombin "gonum.org/v1/gonum/stat/combin"
)

// Count returns the binomial coefficient C(n, k) exactly.
//
// The value is built with the multiplicative formula
//
//	C(n, k) = prod_{i=0}^{k-1} (n - i) / (i + 1)
//
// multiplying before each division so that every partial result is itself a
// binomial coefficient and therefore an integer. When k > n/2 the symmetric
// C(n, n-k) is computed instead, which needs fewer steps.
//
// Parameters:
//   - n: The universe size.
//   - k: The selection size.
//
// Returns:
//   - *big.Int: C(n, k). The caller owns the returned value.
//   - error: An error wrapping ErrInvalidArgument if n < k or either is negative.
func Count(n, k int) (*big.Int, error) {
	if err := validateSpace(n, k); err != nil {
		return nil, err
	}
	return binomial(n, k), nil
}

// CountApprox returns a floating-point estimate of C(n, k) computed from
// log-gamma differences. It is meant for display and sizing estimates only;
// rank arithmetic and partition boundaries never use it. The result is +Inf
// when the coefficient exceeds the float64 range.
func CountApprox(n, k int) (float64, error) {
	if err := validateSpace(n, k); err != nil {
		return 0, err
	}
	return gonumcombin.GeneralizedBinomial(float64(n), float64(k)), nil
}

// binomial returns C(n, k), or zero when k is negative or greater than n.
// The zero convention lets the codec evaluate tail counts at the edge of
// the space without special cases.
func binomial(n, k int) *big.Int {
	if k < 0 || n < 0 || k > n {
		return new(big.Int)
	}
	if k > n-k {
		k = n - k
	}
	result := big.NewInt(1)
	factor := new(big.Int)
	for i := 0; i < k; i++ {
		result.Mul(result, factor.SetInt64(int64(n-i)))
		result.Quo(result, factor.SetInt64(int64(i+1)))
	}
	return result
}
