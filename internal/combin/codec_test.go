package combin

import (
	"errors"
	"math/big"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	gonumcombin "gonum.org/v1/gonum/stat/combin"
)

// lexicographicOracle returns every k-combination of [0, n) in
// lexicographic order, built by gonum and sorted independently.
func lexicographicOracle(n, k int) []Combination {
	raw := gonumcombin.Combinations(n, k)
	slices.SortFunc(raw, func(a, b []int) int { return slices.Compare(a, b) })
	out := make([]Combination, len(raw))
	for i, c := range raw {
		out[i] = Combination(c)
	}
	return out
}

func TestRankKnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, k int
		c    Combination
		want int64
	}{
		{6, 3, Combination{0, 1, 2}, 0},
		{6, 3, Combination{0, 1, 3}, 1},
		{6, 3, Combination{0, 2, 5}, 6},
		{6, 3, Combination{1, 2, 3}, 10},
		{6, 3, Combination{3, 4, 5}, 19},
		{5, 2, Combination{1, 3}, 5},
		{5, 0, Combination{}, 0},
		{4, 4, Combination{0, 1, 2, 3}, 0},
	}

	for _, tc := range tests {
		got, err := Rank(tc.n, tc.k, tc.c)
		if err != nil {
			t.Fatalf("Rank(%d, %d, %v): %v", tc.n, tc.k, tc.c, err)
		}
		if got.Int64() != tc.want {
			t.Errorf("Rank(%d, %d, %v) = %s, want %d", tc.n, tc.k, tc.c, got, tc.want)
		}
	}
}

func TestRankUnrankExhaustiveAgainstOracle(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 9; n++ {
		for k := 1; k <= n; k++ {
			oracle := lexicographicOracle(n, k)
			for i, want := range oracle {
				r := big.NewInt(int64(i))
				got, err := Unrank(n, k, r)
				if err != nil {
					t.Fatalf("Unrank(%d, %d, %d): %v", n, k, i, err)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("Unrank(%d, %d, %d) mismatch (-want +got):\n%s", n, k, i, diff)
				}
				rank, err := Rank(n, k, want)
				if err != nil {
					t.Fatalf("Rank(%d, %d, %v): %v", n, k, want, err)
				}
				if rank.Int64() != int64(i) {
					t.Fatalf("Rank(%d, %d, %v) = %s, want %d", n, k, want, rank, i)
				}
			}
		}
	}
}

func TestUnrankBoundaries(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ n, k int }{{0, 0}, {7, 0}, {7, 7}, {20000, 3}, {100, 50}, {1000, 12}} {
		s := Space{N: tc.n, K: tc.k}
		total := s.Count()

		first, err := s.Unrank(big.NewInt(0))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(s.First(), first); diff != "" {
			t.Errorf("%s: Unrank(0) mismatch (-want +got):\n%s", s, diff)
		}

		last, err := s.Unrank(new(big.Int).Sub(total, big.NewInt(1)))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(s.Last(), last); diff != "" {
			t.Errorf("%s: Unrank(count-1) mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestUnrankOutOfRange(t *testing.T) {
	t.Parallel()

	total, _ := Count(6, 3)
	for name, r := range map[string]*big.Int{
		"nil":      nil,
		"negative": big.NewInt(-1),
		"count":    total,
		"beyond":   new(big.Int).Add(total, big.NewInt(1000)),
	} {
		if _, err := Unrank(6, 3, r); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: Unrank error = %v, want ErrOutOfRange", name, err)
		}
	}
	if _, err := Unrank(2, 3, big.NewInt(0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Unrank on invalid space error = %v, want ErrInvalidArgument", err)
	}
}

func TestUnrankDoesNotMutateRank(t *testing.T) {
	t.Parallel()

	r := big.NewInt(13)
	if _, err := Unrank(6, 3, r); err != nil {
		t.Fatal(err)
	}
	if r.Int64() != 13 {
		t.Errorf("Unrank mutated its rank argument to %s", r)
	}
}

func TestRankInvalidCombination(t *testing.T) {
	t.Parallel()

	cases := map[string]Combination{
		"too short":      {0, 1},
		"too long":       {0, 1, 2, 3},
		"negative entry": {-1, 1, 2},
		"entry too big":  {0, 1, 6},
		"not increasing": {0, 2, 1},
		"duplicate":      {0, 2, 2},
		"nil":            nil,
	}
	for name, c := range cases {
		if _, err := Rank(6, 3, c); !errors.Is(err, ErrInvalidCombination) {
			t.Errorf("%s: Rank error = %v, want ErrInvalidCombination", name, err)
		}
	}
	if _, err := Rank(3, 4, Combination{0, 1, 2, 3}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Rank on invalid space error = %v, want ErrInvalidArgument", err)
	}
}

func TestSearchValueReturnsCountOfAnswer(t *testing.T) {
	t.Parallel()

	const n = 14
	for m := 1; m <= 5; m++ {
		for lo := 0; lo <= n-m; lo++ {
			block := binomial(n-lo, m)
			for target := int64(1); target <= block.Int64(); target++ {
				v, tail := searchValue(n, m, lo, block, big.NewInt(target))
				if v < lo || v > n-m {
					t.Fatalf("m=%d lo=%d target=%d: value %d outside [%d, %d]", m, lo, target, v, lo, n-m)
				}
				if tail.Cmp(binomial(n-v, m)) != 0 {
					t.Fatalf("m=%d lo=%d target=%d: count %s, want C(%d, %d) = %s", m, lo, target, tail, n-v, m, binomial(n-v, m))
				}
				if tail.Int64() < target {
					t.Fatalf("m=%d lo=%d target=%d: count %s below target", m, lo, target, tail)
				}
				if v < n-m && binomial(n-v-1, m).Int64() >= target {
					t.Fatalf("m=%d lo=%d target=%d: %d is not the largest value", m, lo, target, v)
				}
				// The next block used by unrankOf.
				next := new(big.Int).Mul(tail, big.NewInt(int64(m)))
				next.Quo(next, big.NewInt(int64(n-v)))
				if next.Cmp(binomial(n-v-1, m-1)) != 0 {
					t.Fatalf("m=%d v=%d: next block %s, want %s", m, v, next, binomial(n-v-1, m-1))
				}
			}
		}
	}
}

func TestLargeSpaceRoundTrip(t *testing.T) {
	t.Parallel()

	// C(20000, 3) - 1 is the last rank; its combination is the last one.
	s := Space{N: 20000, K: 3}
	r, err := s.Rank(Combination{19997, 19998, 19999})
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "1333133339999" {
		t.Errorf("rank of last combination = %s, want 1333133339999", r)
	}

	c, err := s.Unrank(big.NewInt(1333133339998))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Combination{19996, 19998, 19999}, c); diff != "" {
		t.Errorf("Unrank mismatch (-want +got):\n%s", diff)
	}
}

// TestRoundTrip_PropertyBased checks Rank(Unrank(r)) == r on spaces far too
// large to enumerate.
func TestRoundTrip_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("rank inverts unrank for n=20000, k=3", prop.ForAll(
		func(seed uint64) bool {
			total, _ := Count(20000, 3)
			r := new(big.Int).Mod(new(big.Int).SetUint64(seed), total)
			c, err := Unrank(20000, 3, r)
			if err != nil {
				return false
			}
			back, err := Rank(20000, 3, c)
			return err == nil && back.Cmp(r) == 0
		},
		gen.UInt64(),
	))

	properties.Property("rank inverts unrank for k up to 12", prop.ForAll(
		func(n, k int, seed uint64) bool {
			if k > n {
				k = n
			}
			total, _ := Count(n, k)
			r := new(big.Int).Mod(new(big.Int).SetUint64(seed), total)
			c, err := Unrank(n, k, r)
			if err != nil {
				return false
			}
			back, err := Rank(n, k, c)
			return err == nil && back.Cmp(r) == 0
		},
		gen.IntRange(1, 5000),
		gen.IntRange(0, 12),
		gen.UInt64(),
	))

	properties.Property("unrank preserves order", prop.ForAll(
		func(a, b uint64) bool {
			total, _ := Count(300, 7)
			ra := new(big.Int).Mod(new(big.Int).SetUint64(a), total)
			rb := new(big.Int).Mod(new(big.Int).SetUint64(b), total)
			ca, _ := Unrank(300, 7, ra)
			cb, _ := Unrank(300, 7, rb)
			return ca.Compare(cb) == ra.Cmp(rb)
		},
		gen.UInt64(),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func FuzzRankUnrankRoundTrip(f *testing.F) {
	f.Add(uint16(6), uint8(3), uint64(0))
	f.Add(uint16(6), uint8(3), uint64(19))
	f.Add(uint16(20000), uint8(3), uint64(1333133339999))
	f.Add(uint16(100), uint8(40), uint64(1)<<63)
	f.Add(uint16(0), uint8(0), uint64(0))

	f.Fuzz(func(t *testing.T, n16 uint16, k8 uint8, seed uint64) {
		n, k := int(n16), int(k8)
		if k > n || k > 40 {
			return
		}
		total, err := Count(n, k)
		if err != nil {
			t.Fatalf("Count(%d, %d): %v", n, k, err)
		}
		r := new(big.Int).Mod(new(big.Int).SetUint64(seed), total)
		c, err := Unrank(n, k, r)
		if err != nil {
			t.Fatalf("Unrank(%d, %d, %s): %v", n, k, r, err)
		}
		if !(Space{N: n, K: k}).Contains(c) {
			t.Fatalf("Unrank(%d, %d, %s) = %v is not a member of the space", n, k, r, c)
		}
		back, err := Rank(n, k, c)
		if err != nil {
			t.Fatalf("Rank(%d, %d, %v): %v", n, k, c, err)
		}
		if back.Cmp(r) != 0 {
			t.Fatalf("Rank(Unrank(%s)) = %s for %d choose %d", r, back, n, k)
		}
	})
}

func TestParseCombination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Combination
	}{
		{"0,1,3", Combination{0, 1, 3}},
		{"[0 1 3]", Combination{0, 1, 3}},
		{" 4, 7 ,9 ", Combination{4, 7, 9}},
		{"", Combination{}},
		{"[]", Combination{}},
	}
	for _, tc := range tests {
		got, err := ParseCombination(tc.in)
		if err != nil {
			t.Fatalf("ParseCombination(%q): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseCombination(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}

	if _, err := ParseCombination("1,x,3"); !errors.Is(err, ErrInvalidCombination) {
		t.Errorf("ParseCombination with a non-integer error = %v, want ErrInvalidCombination", err)
	}
}

func TestCombinationHelpers(t *testing.T) {
	t.Parallel()

	a := Combination{0, 2, 5}
	b := a.Clone()
	b[0] = 1
	if a[0] != 0 {
		t.Error("Clone shares storage with the original")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare returned an unexpected ordering")
	}
	if !a.Equal(Combination{0, 2, 5}) || a.Equal(b) {
		t.Error("Equal returned an unexpected result")
	}
	if a.String() != "[0 2 5]" {
		t.Errorf("String() = %q, want %q", a.String(), "[0 2 5]")
	}
	if c := Combination(nil).Clone(); c == nil || len(c) != 0 {
		t.Errorf("Clone of nil = %#v, want empty non-nil", c)
	}
	if s := (Space{N: 6, K: 3}).String(); s != "6 choose 3" {
		t.Errorf("Space.String() = %q", s)
	}
}
