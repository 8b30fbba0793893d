// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file defines the Space and Combination value types.
package combin

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// Combination is a strictly increasing sequence of indices drawn from
// [0, n). Equality and ordering are structural.
type Combination []int

// Compare orders two combinations lexicographically. It returns -1 if c
// precedes other, +1 if it follows, and 0 if both hold the same entries.
func (c Combination) Compare(other Combination) int {
	return slices.Compare(c, other)
}

// Equal reports whether c and other hold the same entries.
func (c Combination) Equal(other Combination) bool {
	return slices.Equal(c, other)
}

// Clone returns an independent copy of c. The copy of an empty combination
// is an empty, non-nil slice.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// String renders the combination as "[a b c]".
func (c Combination) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range c {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseCombination parses a comma or space separated list of indices such as
// "0,1,3" or "[0 1 3]". It only checks syntax; membership in a space is
// checked by Rank and SeekTo.
func ParseCombination(s string) (Combination, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	c := make(Combination, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidCombination, f)
		}
		c = append(c, v)
	}
	return c, nil
}

// Space is the immutable pair (N, K) describing all K-combinations of an
// N-element universe. The zero value is the space 0 choose 0, which holds
// exactly one empty combination.
type Space struct {
	// N is the universe size.
	N int
	// K is the selection size.
	K int
}

// NewSpace validates n and k and returns the corresponding space.
//
// Parameters:
//   - n: The universe size (n >= 0).
//   - k: The selection size (0 <= k <= n).
//
// Returns:
//   - Space: The validated space.
//   - error: An error wrapping ErrInvalidArgument if n or k is invalid.
func NewSpace(n, k int) (Space, error) {
	if err := validateSpace(n, k); err != nil {
		return Space{}, err
	}
	return Space{N: n, K: k}, nil
}

// String renders the space as "n choose k".
func (s Space) String() string {
	return fmt.Sprintf("%d choose %d", s.N, s.K)
}

// Count returns C(N, K).
func (s Space) Count() *big.Int {
	return binomial(s.N, s.K)
}

// First returns the lexicographically smallest combination [0, 1, ..., K-1].
func (s Space) First() Combination {
	c := make(Combination, s.K)
	for i := range c {
		c[i] = i
	}
	return c
}

// Last returns the lexicographically largest combination [N-K, ..., N-1].
func (s Space) Last() Combination {
	c := make(Combination, s.K)
	for i := range c {
		c[i] = s.N - s.K + i
	}
	return c
}

// Contains reports whether c is a member of the space.
func (s Space) Contains(c Combination) bool {
	return validateCombination(s.N, s.K, c) == nil
}

// Rank returns the lexicographic rank of c within the space.
func (s Space) Rank(c Combination) (*big.Int, error) {
	return Rank(s.N, s.K, c)
}

// Unrank returns the combination at the given rank within the space.
func (s Space) Unrank(rank *big.Int) (Combination, error) {
	return Unrank(s.N, s.K, rank)
}

func validateSpace(n, k int) error {
	if n < 0 || k < 0 {
		return fmt.Errorf("%w: n and k must be nonnegative (n=%d, k=%d)", ErrInvalidArgument, n, k)
	}
	if n < k {
		return fmt.Errorf("%w: n must be at least k (n=%d, k=%d)", ErrInvalidArgument, n, k)
	}
	return nil
}

func validateCombination(n, k int, c Combination) error {
	if len(c) != k {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidCombination, len(c), k)
	}
	for i, v := range c {
		if v < 0 || v >= n {
			return fmt.Errorf("%w: entry %d at position %d is outside [0, %d)", ErrInvalidCombination, v, i, n)
		}
		if i > 0 && v <= c[i-1] {
			return fmt.Errorf("%w: entries must be strictly increasing (%d after %d at position %d)", ErrInvalidCombination, v, c[i-1], i)
		}
	}
	return nil
}
