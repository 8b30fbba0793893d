// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file implements the stateful lexicographic generator.
package combin

import (
	"fmt"
	"iter"
	"math/big"

	"github.com/agbru/combicalc/internal/bigarith"
)

type generatorState uint8

const (
	stateFresh generatorState = iota
	stateActive
	stateExhausted
)

func (s generatorState) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateActive:
		return "active"
	default:
		return "exhausted"
	}
}

// Generator produces the combinations of a space in strictly increasing
// lexicographic order, starting at a seed combination and optionally bounded
// to a rank range.
//
// A generator moves through three states. It is fresh after construction or
// Reset, active once it has emitted a combination, and exhausted after the
// last combination of its space or range. Exhaustion is terminal until Reset.
//
// Example usage:
//
//	g, _ := combin.NewGenerator(6, 3)
//	for c, ok := g.Next(); ok; c, ok = g.Next() {
//	    // use c
//	}
//
// A Generator is not safe for concurrent use. Each worker owns its own.
type Generator struct {
	space   Space
	start   Combination // nil for a generator over an empty range
	cur     Combination
	state   generatorState
	emitted uint64

	// Set for range generators only. The cursor never leaves [lo, hi) and
	// stops once it reaches last, the combination at rank hi-1.
	bounded bool
	lo, hi  *big.Int
	last    Combination
}

// NewGenerator returns a generator over every k-combination of [0, n),
// starting at [0, 1, ..., k-1].
//
// Parameters:
//   - n: The universe size.
//   - k: The selection size.
//
// Returns:
//   - *Generator: A fresh generator.
//   - error: An error wrapping ErrInvalidArgument for a bad (n, k).
func NewGenerator(n, k int) (*Generator, error) {
	s, err := NewSpace(n, k)
	if err != nil {
		return nil, err
	}
	return &Generator{space: s, start: s.First()}, nil
}

// NewGeneratorAt returns an unbounded generator whose first emission is
// seed. It runs to the last combination of the space.
func NewGeneratorAt(n, k int, seed Combination) (*Generator, error) {
	s, err := NewSpace(n, k)
	if err != nil {
		return nil, err
	}
	if err := validateCombination(n, k, seed); err != nil {
		return nil, err
	}
	return &Generator{space: s, start: seed.Clone()}, nil
}

// NewRangeGenerator returns a generator that emits exactly the combinations
// whose ranks lie in the half-open interval [start, end). The first and last
// combinations of the interval are obtained with one Unrank each; every
// other combination comes from the successor rule. An empty interval yields
// a generator that is already exhausted.
//
// The bounds hold for the lifetime of the generator: SeekTo and Skip reject
// targets outside [start, end), so a worker resumed from a saved position
// never crosses into a neighbouring range.
//
// Parameters:
//   - n: The universe size.
//   - k: The selection size.
//   - start: The first rank, inclusive.
//   - end: The last rank, exclusive. Must satisfy start <= end <= C(n, k).
//
// Returns:
//   - *Generator: The bounded generator.
//   - error: ErrInvalidArgument for a bad (n, k) or nil bounds, ErrOutOfRange
//     when the interval does not fit the space.
func NewRangeGenerator(n, k int, start, end *big.Int) (*Generator, error) {
	total, err := Count(n, k)
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, fmt.Errorf("%w: range bounds must not be nil", ErrInvalidArgument)
	}
	if start.Sign() < 0 || bigarith.Less(end, start) || bigarith.Less(total, end) {
		return nil, fmt.Errorf("%w: range [%s, %s) not within [0, %s]", ErrOutOfRange, start, end, total)
	}
	g := &Generator{
		space:   Space{N: n, K: k},
		bounded: true,
		lo:      new(big.Int).Set(start),
		hi:      new(big.Int).Set(end),
	}
	if start.Cmp(end) == 0 {
		g.state = stateExhausted
		return g, nil
	}
	g.start = unrankOf(n, k, start)
	g.last = unrankOf(n, k, bigarith.Sub(end, big.NewInt(1)))
	return g, nil
}

// Space returns the space the generator enumerates.
func (g *Generator) Space() Space { return g.space }

// Emitted returns how many combinations have been emitted since the last
// Start, Reset, SeekTo or Skip. SeekTo and Skip count the seek target as
// emitted.
func (g *Generator) Emitted() uint64 { return g.emitted }

// Exhausted reports whether the generator has no further combinations.
func (g *Generator) Exhausted() bool { return g.state == stateExhausted }

// Current returns a copy of the most recently emitted combination, or nil
// if the generator is not active.
func (g *Generator) Current() Combination {
	if g.state != stateActive {
		return nil
	}
	return g.cur.Clone()
}

// Reset rewinds the generator to its start combination. A generator over an
// empty range stays exhausted.
func (g *Generator) Reset() {
	g.cur = nil
	g.emitted = 0
	if g.start == nil {
		g.state = stateExhausted
		return
	}
	g.state = stateFresh
}

// Start rewinds the generator and returns its start combination, or nil if
// the generator covers an empty range.
func (g *Generator) Start() Combination {
	g.Reset()
	c, _ := g.Next()
	return c
}

// Next returns the next combination and true, or nil and false once the
// generator is exhausted. The first call on a fresh generator returns the
// start combination. Calls after exhaustion keep returning nil and false.
// The returned slice is a copy owned by the caller.
func (g *Generator) Next() (Combination, bool) {
	switch g.state {
	case stateFresh:
		if g.start == nil {
			g.state = stateExhausted
			return nil, false
		}
		g.cur = g.start.Clone()
		g.state = stateActive
		g.emitted = 1
		return g.cur.Clone(), true
	case stateActive:
		if g.bounded && g.cur.Equal(g.last) {
			g.exhaust()
			return nil, false
		}
		if !successor(g.cur, g.space.N) {
			g.exhaust()
			return nil, false
		}
		g.emitted++
		return g.cur.Clone(), true
	default:
		return nil, false
	}
}

// SeekTo positions the cursor on c without deriving its rank, except on a
// range generator, where the rank is checked against the range. The
// generator becomes active with c counted as emitted, so the following Next
// returns the successor of c.
//
// Returns:
//   - error: An error wrapping ErrInvalidCombination if c is not a member
//     of the space, or ErrOutOfRange if c lies outside the generator's
//     range. The generator is unchanged on error.
func (g *Generator) SeekTo(c Combination) error {
	if err := validateCombination(g.space.N, g.space.K, c); err != nil {
		return err
	}
	if g.bounded {
		if err := g.checkRank(rankOf(g.space.N, g.space.K, c)); err != nil {
			return err
		}
	}
	g.seek(c.Clone())
	return nil
}

// Skip positions the cursor on the combination at rank, as if it had just
// been emitted. It is an Unrank followed by SeekTo. On a range generator the
// rank must lie in the range.
func (g *Generator) Skip(rank *big.Int) error {
	if g.bounded {
		if err := g.checkRank(rank); err != nil {
			return err
		}
		g.seek(unrankOf(g.space.N, g.space.K, rank))
		return nil
	}
	c, err := Unrank(g.space.N, g.space.K, rank)
	if err != nil {
		return err
	}
	g.seek(c)
	return nil
}

func (g *Generator) seek(c Combination) {
	g.cur = c
	g.state = stateActive
	g.emitted = 1
}

// checkRank reports ErrOutOfRange unless rank lies in the generator's range.
func (g *Generator) checkRank(rank *big.Int) error {
	if rank == nil || rank.Cmp(g.lo) < 0 || rank.Cmp(g.hi) >= 0 {
		return fmt.Errorf("%w: rank %v not in the generator range [%s, %s)", ErrOutOfRange, rank, g.lo, g.hi)
	}
	return nil
}

// All returns an iterator over the remaining combinations. On a fresh
// generator it starts at the start combination; on an active one it
// continues after the current combination.
func (g *Generator) All() iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for c, ok := g.Next(); ok; c, ok = g.Next() {
			if !yield(c) {
				return
			}
		}
	}
}

// String describes the generator state for logs and debugging.
func (g *Generator) String() string {
	return fmt.Sprintf("generator(%s, %s, emitted=%d)", g.space, g.state, g.emitted)
}

func (g *Generator) exhaust() {
	g.state = stateExhausted
	g.cur = nil
}

// successor advances c in place to its lexicographic successor in the space
// of len(c)-combinations of [0, n). It reports false when c is the last
// combination, leaving c unchanged.
func successor(c Combination, n int) bool {
	k := len(c)
	for i := k - 1; i >= 0; i-- {
		if c[i] < n-k+i {
			c[i]++
			for j := i + 1; j < k; j++ {
				c[j] = c[j-1] + 1
			}
			return true
		}
	}
	return false
}
