//go:build gmp

// This file provides a GMP-backed exact counter, compiled only with the
// "gmp" build tag (go build -tags=gmp) and requiring libgmp on the host.
// Default builds use math/big exclusively.

package combin

import (
	"math/big"

	"github.com/ncw/gmp"
)

func init() {
	_ = RegisterCounter("gmp", func() Counter { return GMPCounter{} })
}

// GMPCounter computes C(n, k) with the same multiplicative formula as Count
// but on gmp.Int values. It is useful as a cross-check and for very large k,
// where GMP's multiplication outperforms math/big.
type GMPCounter struct{}

// Name returns "gmp".
func (GMPCounter) Name() string { return "gmp" }

// Count returns C(n, k).
func (GMPCounter) Count(n, k int) (*big.Int, error) {
	if err := validateSpace(n, k); err != nil {
		return nil, err
	}
	if k > n-k {
		k = n - k
	}
	result := gmp.NewInt(1)
	factor := gmp.NewInt(0)
	for i := 0; i < k; i++ {
		result.Mul(result, factor.SetInt64(int64(n-i)))
		result.Quo(result, factor.SetInt64(int64(i+1)))
	}
	return new(big.Int).SetBytes(result.Bytes()), nil
}
