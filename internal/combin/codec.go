// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file implements the rank <-> combination bijection.
package combin

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/agbru/combicalc/internal/bigarith"
)

// Rank returns the zero-based position of c among all k-combinations of
// [0, n) in lexicographic order.
//
// Positions are visited left to right. At position i, with every earlier
// position held fixed and lo the smallest value still allowed there, the
// combinations that sort before c are those whose i-th entry lies in
// [lo, c[i]). Their number telescopes to C(n-lo, k-i) - C(n-c[i], k-i).
//
// Parameters:
//   - n: The universe size.
//   - k: The selection size.
//   - c: The combination to rank.
//
// Returns:
//   - *big.Int: The rank, in [0, C(n, k)).
//   - error: ErrInvalidArgument for a bad (n, k), ErrInvalidCombination if c
//     is not a member of the space.
func Rank(n, k int, c Combination) (*big.Int, error) {
	if err := validateSpace(n, k); err != nil {
		return nil, err
	}
	if err := validateCombination(n, k, c); err != nil {
		return nil, err
	}
	return rankOf(n, k, c), nil
}

func rankOf(n, k int, c Combination) *big.Int {
	rank := new(big.Int)
	lo := 0
	for i, v := range c {
		m := k - i
		if v > lo {
			rank = bigarith.Add(rank, bigarith.Sub(binomial(n-lo, m), binomial(n-v, m)))
		}
		lo = v + 1
	}
	return rank
}

// Unrank returns the combination at the given lexicographic rank without
// enumerating any preceding combination.
//
// Each position is resolved with an exact binary search: with m entries
// still to place, lo the smallest allowed value and r the remaining rank,
// the chosen value v is the largest one for which C(n-v, m) is at least
// C(n-lo, m) - r. Only integer counts are compared, so the result is exact
// for every n and k; the cost is O(k log n) counter evaluations.
//
// Parameters:
//   - n: The universe size.
//   - k: The selection size.
//   - rank: The rank to decode, in [0, C(n, k)). It is not modified.
//
// Returns:
//   - Combination: The combination at rank.
//   - error: ErrInvalidArgument for a bad (n, k), ErrOutOfRange if rank is
//     nil, negative, or not below C(n, k).
func Unrank(n, k int, rank *big.Int) (Combination, error) {
	total, err := Count(n, k)
	if err != nil {
		return nil, err
	}
	if rank == nil {
		return nil, fmt.Errorf("%w: nil rank", ErrOutOfRange)
	}
	if rank.Sign() < 0 || rank.Cmp(total) >= 0 {
		return nil, fmt.Errorf("%w: rank %s not in [0, %s) for %d choose %d", ErrOutOfRange, rank, total, n, k)
	}
	return unrankOf(n, k, rank), nil
}

func unrankOf(n, k int, rank *big.Int) Combination {
	c := make(Combination, k)
	remaining := new(big.Int).Set(rank)
	lo := 0
	block := binomial(n, k)
	for i := 0; i < k; i++ {
		m := k - i
		target := bigarith.Sub(block, remaining)
		v, tail := searchValue(n, m, lo, block, target)
		remaining = bigarith.Sub(remaining, bigarith.Sub(block, tail))
		c[i] = v
		lo = v + 1
		// C(n-v-1, m-1) = C(n-v, m) * m / (n-v), exact.
		block = new(big.Int).Mul(tail, big.NewInt(int64(m)))
		block.Quo(block, big.NewInt(int64(n-v)))
	}
	return c
}

// searchValue returns the largest v in [lo, n-m] with C(n-v, m) >= target,
// together with C(n-v, m). block is C(n-lo, m), which is never below target.
// C(n-v, m) is non-increasing in v, so sort.Search locates the first value
// that falls below target and the answer is the one just before it. Counts
// evaluated by the search are kept so the answer's count is not rebuilt.
func searchValue(n, m, lo int, block, target *big.Int) (int, *big.Int) {
	seen := map[int]*big.Int{0: block}
	count := func(j int) *big.Int {
		if c, ok := seen[j]; ok {
			return c
		}
		c := binomial(n-lo-j, m)
		seen[j] = c
		return c
	}
	idx := sort.Search(n-m-lo+1, func(j int) bool {
		return bigarith.Less(count(j), target)
	})
	return lo + idx - 1, count(idx - 1)
}
