package combin

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drain(g *Generator) []Combination {
	var out []Combination
	for c, ok := g.Next(); ok; c, ok = g.Next() {
		out = append(out, c)
	}
	return out
}

func TestGeneratorSixChooseThree(t *testing.T) {
	t.Parallel()

	want := []Combination{
		{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {0, 1, 5}, {0, 2, 3},
		{0, 2, 4}, {0, 2, 5}, {0, 3, 4}, {0, 3, 5}, {0, 4, 5},
		{1, 2, 3}, {1, 2, 4}, {1, 2, 5}, {1, 3, 4}, {1, 3, 5},
		{1, 4, 5}, {2, 3, 4}, {2, 3, 5}, {2, 4, 5}, {3, 4, 5},
	}

	g, err := NewGenerator(6, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := drain(g)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("enumeration mismatch (-want +got):\n%s", diff)
	}
	if g.Emitted() != 20 {
		t.Errorf("Emitted() = %d, want 20", g.Emitted())
	}
}

func TestGeneratorMatchesOracle(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 9; n++ {
		for k := 1; k <= n; k++ {
			g, _ := NewGenerator(n, k)
			if diff := cmp.Diff(lexicographicOracle(n, k), drain(g)); diff != "" {
				t.Fatalf("%d choose %d mismatch (-want +got):\n%s", n, k, diff)
			}
		}
	}
}

func TestGeneratorBoundaryK(t *testing.T) {
	t.Parallel()

	t.Run("k=0", func(t *testing.T) {
		t.Parallel()
		g, _ := NewGenerator(5, 0)
		got := drain(g)
		if len(got) != 1 || len(got[0]) != 0 {
			t.Fatalf("5 choose 0 produced %v, want exactly one empty combination", got)
		}
	})

	t.Run("k=n", func(t *testing.T) {
		t.Parallel()
		g, _ := NewGenerator(4, 4)
		if diff := cmp.Diff([]Combination{{0, 1, 2, 3}}, drain(g)); diff != "" {
			t.Fatalf("4 choose 4 mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("n=0", func(t *testing.T) {
		t.Parallel()
		g, _ := NewGenerator(0, 0)
		if got := drain(g); len(got) != 1 {
			t.Fatalf("0 choose 0 produced %d combinations, want 1", len(got))
		}
	})
}

func TestGeneratorExhaustionIsIdempotent(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(4, 2)
	drain(g)
	if !g.Exhausted() {
		t.Fatal("generator not exhausted after draining")
	}
	for i := 0; i < 5; i++ {
		if c, ok := g.Next(); ok || c != nil {
			t.Fatalf("Next after exhaustion returned (%v, %v)", c, ok)
		}
	}
	if g.Current() != nil {
		t.Error("Current() on an exhausted generator is not nil")
	}
}

func TestGeneratorStartAndReset(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(6, 3)
	if c := g.Current(); c != nil {
		t.Fatalf("Current() on a fresh generator = %v, want nil", c)
	}

	first := g.Start()
	if diff := cmp.Diff(Combination{0, 1, 2}, first); diff != "" {
		t.Fatalf("Start() mismatch (-want +got):\n%s", diff)
	}
	g.Next()
	g.Next()
	if diff := cmp.Diff(Combination{0, 1, 4}, g.Current()); diff != "" {
		t.Fatalf("Current() mismatch (-want +got):\n%s", diff)
	}

	// Start rewinds from any state.
	drain(g)
	if diff := cmp.Diff(Combination{0, 1, 2}, g.Start()); diff != "" {
		t.Fatalf("Start() after exhaustion mismatch (-want +got):\n%s", diff)
	}

	g.Reset()
	if g.Emitted() != 0 || g.Current() != nil {
		t.Fatalf("Reset left emitted=%d current=%v", g.Emitted(), g.Current())
	}
	if got := drain(g); len(got) != 20 {
		t.Errorf("after Reset the generator produced %d combinations, want 20", len(got))
	}
}

func TestGeneratorReturnsCopies(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(6, 3)
	c, _ := g.Next()
	c[2] = 5
	next, _ := g.Next()
	if diff := cmp.Diff(Combination{0, 1, 3}, next); diff != "" {
		t.Fatalf("mutating an emitted combination changed the cursor (-want +got):\n%s", diff)
	}
	cur := g.Current()
	cur[0] = 4
	if g.Current()[0] != 0 {
		t.Error("mutating Current() changed the cursor")
	}
}

func TestNewGeneratorAt(t *testing.T) {
	t.Parallel()

	g, err := NewGeneratorAt(6, 3, Combination{2, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	want := []Combination{{2, 4, 5}, {3, 4, 5}}
	if diff := cmp.Diff(want, drain(g)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewGeneratorAt(6, 3, Combination{2, 2, 5}); !errors.Is(err, ErrInvalidCombination) {
		t.Errorf("invalid seed error = %v, want ErrInvalidCombination", err)
	}
	if _, err := NewGeneratorAt(2, 3, Combination{0, 1, 2}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("invalid space error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewGenerator(-1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewGenerator(-1, 0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestGeneratorSeekTo(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(6, 3)
	if err := g.SeekTo(Combination{1, 4, 5}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Combination{1, 4, 5}, g.Current()); diff != "" {
		t.Fatalf("Current() after SeekTo mismatch (-want +got):\n%s", diff)
	}
	next, ok := g.Next()
	if !ok {
		t.Fatal("Next after SeekTo reported exhaustion")
	}
	if diff := cmp.Diff(Combination{2, 3, 4}, next); diff != "" {
		t.Fatalf("Next after SeekTo mismatch (-want +got):\n%s", diff)
	}

	// Seeking to the last combination exhausts on the following Next.
	if err := g.SeekTo(Combination{3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Next(); ok {
		t.Error("Next after seeking to the last combination returned a value")
	}

	before := g.Emitted()
	if err := g.SeekTo(Combination{0, 6, 7}); !errors.Is(err, ErrInvalidCombination) {
		t.Errorf("SeekTo invalid error = %v, want ErrInvalidCombination", err)
	}
	if g.Emitted() != before || !g.Exhausted() {
		t.Error("a failed SeekTo changed the generator")
	}
}

func TestGeneratorSkip(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(6, 3)
	if err := g.Skip(big.NewInt(10)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Combination{1, 2, 3}, g.Current()); diff != "" {
		t.Fatalf("Current() after Skip mismatch (-want +got):\n%s", diff)
	}
	rest := drain(g)
	if len(rest) != 9 {
		t.Errorf("after Skip(10) %d combinations remained, want 9", len(rest))
	}

	if err := g.Skip(big.NewInt(20)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Skip(20) error = %v, want ErrOutOfRange", err)
	}
}

func TestGeneratorSkipLargeSpace(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(20000, 3)
	if err := g.Skip(big.NewInt(1333133339997)); err != nil {
		t.Fatal(err)
	}
	want := []Combination{{19996, 19998, 19999}, {19997, 19998, 19999}}
	if diff := cmp.Diff(want, drain(g)); diff != "" {
		t.Fatalf("tail mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeGenerator(t *testing.T) {
	t.Parallel()

	g, err := NewRangeGenerator(6, 3, big.NewInt(4), big.NewInt(8))
	if err != nil {
		t.Fatal(err)
	}
	want := []Combination{{0, 2, 3}, {0, 2, 4}, {0, 2, 5}, {0, 3, 4}}
	if diff := cmp.Diff(want, drain(g)); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
	if g.Emitted() != 4 {
		t.Errorf("Emitted() = %d, want 4", g.Emitted())
	}

	// Restarting replays the same range.
	if diff := cmp.Diff(Combination{0, 2, 3}, g.Start()); diff != "" {
		t.Fatalf("Start() mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeGeneratorEmptyAndInvalid(t *testing.T) {
	t.Parallel()

	g, err := NewRangeGenerator(6, 3, big.NewInt(5), big.NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	if !g.Exhausted() {
		t.Error("empty range generator is not exhausted")
	}
	if c := g.Start(); c != nil {
		t.Errorf("Start() on an empty range = %v, want nil", c)
	}
	if _, ok := g.Next(); ok {
		t.Error("empty range generator emitted a combination")
	}

	for name, bounds := range map[string][2]*big.Int{
		"negative start": {big.NewInt(-1), big.NewInt(3)},
		"end past count": {big.NewInt(0), big.NewInt(21)},
		"end before":     {big.NewInt(4), big.NewInt(3)},
	} {
		if _, err := NewRangeGenerator(6, 3, bounds[0], bounds[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: error = %v, want ErrOutOfRange", name, err)
		}
	}
	if _, err := NewRangeGenerator(6, 3, nil, big.NewInt(1)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil bound error = %v, want ErrInvalidArgument", err)
	}
}

func TestRangeGeneratorSeekStaysInRange(t *testing.T) {
	t.Parallel()

	// 6 choose 3 over two workers: [0, 10) and [10, 20).
	p, _ := NewPartition(6, 3, 2)
	g0, _ := p.Generator(0)

	if err := g0.Skip(big.NewInt(9)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Combination{0, 4, 5}, g0.Current()); diff != "" {
		t.Fatalf("Current() after Skip(9) mismatch (-want +got):\n%s", diff)
	}
	if c, ok := g0.Next(); ok {
		t.Fatalf("worker 0 emitted %v past the end of its range", c)
	}

	g0.Reset()
	for _, rank := range []int64{10, 19, -1} {
		if err := g0.Skip(big.NewInt(rank)); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Skip(%d) on worker 0 error = %v, want ErrOutOfRange", rank, err)
		}
	}
	if err := g0.SeekTo(Combination{1, 2, 3}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SeekTo(worker 1 first) error = %v, want ErrOutOfRange", err)
	}
	if g0.Emitted() != 0 || g0.Current() != nil {
		t.Error("a rejected seek changed the generator")
	}

	g1, _ := p.Generator(1)
	if err := g1.SeekTo(Combination{0, 4, 5}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SeekTo(worker 0 last) error = %v, want ErrOutOfRange", err)
	}
	if err := g1.Skip(big.NewInt(15)); err != nil {
		t.Fatal(err)
	}
	want := []Combination{{1, 4, 5}, {2, 3, 4}, {2, 3, 5}, {2, 4, 5}, {3, 4, 5}}
	if diff := cmp.Diff(want[1:], drain(g1)); diff != "" {
		t.Fatalf("tail after Skip(15) mismatch (-want +got):\n%s", diff)
	}
	if err := g1.SeekTo(want[0]); err != nil {
		t.Fatalf("SeekTo inside the range: %v", err)
	}
}

func TestRangeGeneratorBeyondUint64(t *testing.T) {
	t.Parallel()

	// Each half of 100 choose 50 holds about 5*10^28 ranks.
	p, _ := NewPartition(100, 50, 2)
	r0 := p.Ranges[0]
	if r0.Size().IsUint64() {
		t.Fatalf("range size %s fits in uint64", r0.Size())
	}
	g0, _ := p.Generator(0)

	if err := g0.Skip(new(big.Int).Sub(r0.End, big.NewInt(2))); err != nil {
		t.Fatal(err)
	}
	wantLast, _ := Unrank(100, 50, new(big.Int).Sub(r0.End, big.NewInt(1)))
	if diff := cmp.Diff([]Combination{wantLast}, drain(g0)); diff != "" {
		t.Fatalf("tail of worker 0 mismatch (-want +got):\n%s", diff)
	}
	if !g0.Exhausted() {
		t.Error("worker 0 is not exhausted at the end of its range")
	}

	if err := g0.Skip(r0.End); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Skip(end) error = %v, want ErrOutOfRange", err)
	}
	first1, _ := p.First(1)
	if err := g0.SeekTo(first1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SeekTo(worker 1 first) error = %v, want ErrOutOfRange", err)
	}
}

func TestGeneratorAllIterator(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(5, 2)
	var got []Combination
	for c := range g.All() {
		got = append(got, c)
		if len(got) == 3 {
			break
		}
	}
	if diff := cmp.Diff([]Combination{{0, 1}, {0, 2}, {0, 3}}, got); diff != "" {
		t.Fatalf("prefix mismatch (-want +got):\n%s", diff)
	}

	// The iterator resumes after the last consumed combination.
	rest := 0
	for range g.All() {
		rest++
	}
	if rest != 7 {
		t.Errorf("resumed iteration produced %d combinations, want 7", rest)
	}
}

func TestGeneratorStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	g, _ := NewGenerator(12, 5)
	prev, _ := g.Next()
	count := 1
	for c, ok := g.Next(); ok; c, ok = g.Next() {
		if prev.Compare(c) >= 0 {
			t.Fatalf("%v does not precede %v", prev, c)
		}
		prev = c
		count++
	}
	if count != 792 {
		t.Errorf("12 choose 5 produced %d combinations, want 792", count)
	}
}
