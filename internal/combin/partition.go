// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file splits a space into contiguous rank ranges for parallel workers.
package combin

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/agbru/combicalc/internal/bigarith"
)

// Range is the half-open rank interval [Start, End) assigned to one worker.
type Range struct {
	// Worker is the zero-based index of the owning worker.
	Worker int
	// Start is the first rank of the range, inclusive.
	Start *big.Int
	// End is the last rank of the range, exclusive.
	End *big.Int
}

// Size returns End - Start.
func (r Range) Size() *big.Int { return bigarith.Sub(r.End, r.Start) }

// Empty reports whether the range carries no work.
func (r Range) Empty() bool { return r.Start.Cmp(r.End) >= 0 }

// Contains reports whether rank lies in [Start, End).
func (r Range) Contains(rank *big.Int) bool {
	return rank != nil && rank.Cmp(r.Start) >= 0 && rank.Cmp(r.End) < 0
}

// Partition divides the rank space [0, Total) of a Space into one
// contiguous range per worker. Ranges are ordered by worker index, cover the
// space without gaps or overlaps, and preserve lexicographic order: every
// combination of worker w precedes every combination of worker w+1.
//
// Boundaries are floor(Total*w/W) for w = 0..W, so range sizes differ by at
// most one. When W exceeds Total some ranges are empty.
type Partition struct {
	Space  Space
	Total  *big.Int
	Ranges []Range
}

// NewPartition computes the partition of the k-combinations of [0, n) for
// the given number of workers. It performs no unranking; generators are
// seeded lazily by Generator.
//
// Parameters:
//   - n: The universe size.
//   - k: The selection size.
//   - workers: The number of workers, at least 1.
//
// Returns:
//   - *Partition: The partition.
//   - error: An error wrapping ErrInvalidArgument for a bad (n, k) or a
//     non-positive worker count.
func NewPartition(n, k, workers int) (*Partition, error) {
	total, err := Count(n, k)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidArgument, workers)
	}

	w64 := int64(workers)
	ranges := make([]Range, workers)
	start := new(big.Int)
	for w := range workers {
		end := bigarith.MulDivFloor(total, int64(w+1), w64)
		ranges[w] = Range{Worker: w, Start: new(big.Int).Set(start), End: end}
		start = end
	}
	return &Partition{Space: Space{N: n, K: k}, Total: total, Ranges: ranges}, nil
}

// Workers returns the number of ranges.
func (p *Partition) Workers() int { return len(p.Ranges) }

// MaxRangeSize returns ceil(Total / W), an upper bound on every range size.
func (p *Partition) MaxRangeSize() *big.Int {
	return bigarith.DivCeil(p.Total, big.NewInt(int64(len(p.Ranges))))
}

// Range returns the range of worker w.
func (p *Partition) Range(w int) (Range, error) {
	if w < 0 || w >= len(p.Ranges) {
		return Range{}, fmt.Errorf("%w: worker %d not in [0, %d)", ErrInvalidArgument, w, len(p.Ranges))
	}
	return p.Ranges[w], nil
}

// First returns the first combination of worker w's range, or nil when the
// range is empty.
func (p *Partition) First(w int) (Combination, error) {
	r, err := p.Range(w)
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}
	return unrankOf(p.Space.N, p.Space.K, r.Start), nil
}

// Generator returns a fresh generator for worker w, seeded at the first
// combination of its range and confined to that range. Each call returns
// a new, independent generator.
func (p *Partition) Generator(w int) (*Generator, error) {
	r, err := p.Range(w)
	if err != nil {
		return nil, err
	}
	return NewRangeGenerator(p.Space.N, p.Space.K, r.Start, r.End)
}

// Generators returns one generator per worker, in worker order.
func (p *Partition) Generators() ([]*Generator, error) {
	gens := make([]*Generator, len(p.Ranges))
	for w := range p.Ranges {
		g, err := p.Generator(w)
		if err != nil {
			return nil, err
		}
		gens[w] = g
	}
	return gens, nil
}

// Owner returns the index of the worker whose range contains rank.
func (p *Partition) Owner(rank *big.Int) (int, error) {
	if rank == nil || rank.Sign() < 0 || rank.Cmp(p.Total) >= 0 {
		return 0, fmt.Errorf("%w: rank %v not in [0, %s)", ErrOutOfRange, rank, p.Total)
	}
	w := sort.Search(len(p.Ranges), func(i int) bool {
		return rank.Cmp(p.Ranges[i].End) < 0
	})
	return w, nil
}

// Split partitions the k-combinations of [0, n) across workers and returns
// one bounded generator per worker. Concatenating the output of the
// generators in order yields exactly the output of NewGenerator(n, k).
func Split(n, k, workers int) ([]*Generator, error) {
	p, err := NewPartition(n, k, workers)
	if err != nil {
		return nil, err
	}
	return p.Generators()
}
