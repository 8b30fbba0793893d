package bigarith

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mustParse(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("invalid integer literal %q", s)
	}
	return v
}

func TestDivCeil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"exact", 12, 4, 3},
		{"remainder", 13, 4, 4},
		{"zero dividend", 0, 7, 0},
		{"divisor larger", 3, 10, 1},
		{"one", 1, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DivCeil(big.NewInt(tc.a), big.NewInt(tc.b)); got.Int64() != tc.want {
				t.Errorf("DivCeil(%d, %d) = %s, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestHelpersDoNotMutateOperands(t *testing.T) {
	t.Parallel()

	a := big.NewInt(17)
	b := big.NewInt(5)

	_ = Add(a, b)
	_ = Sub(a, b)
	_ = DivCeil(a, b)
	_ = MulDivFloor(a, 3, 4)
	_ = Less(a, b)

	if a.Int64() != 17 || b.Int64() != 5 {
		t.Fatalf("operands were mutated: a=%s b=%s", a, b)
	}
}

func TestLargeOperands(t *testing.T) {
	t.Parallel()

	// Well beyond 10^30.
	a := mustParse(t, "123456789012345678901234567890123456789")
	b := mustParse(t, "1000000000000000000000000000000")

	sum := Add(a, b)
	if got := Sub(sum, b); got.Cmp(a) != 0 {
		t.Errorf("(a+b)-b = %s, want %s", got, a)
	}
	if got := MulDivFloor(a, 7, 7); got.Cmp(a) != 0 {
		t.Errorf("floor(a*7/7) = %s, want %s", got, a)
	}
	// a lies strictly between 123456789*b and 123456790*b.
	if got := DivCeil(a, b); got.Int64() != 123456790 {
		t.Errorf("ceil(a/b) = %s, want 123456790", got)
	}
}

func TestMulDivFloorMultipliesFirst(t *testing.T) {
	t.Parallel()

	// floor(20*2/3) = 13, while dividing first gives floor(20/3)*2 = 12.
	total := big.NewInt(20)
	got := MulDivFloor(total, 2, 3)
	if got.Int64() != 13 {
		t.Errorf("MulDivFloor(20, 2, 3) = %s, want 13", got)
	}
}

func TestLess(t *testing.T) {
	t.Parallel()

	small, large := big.NewInt(2), big.NewInt(9)
	if !Less(small, large) || Less(large, small) || Less(small, big.NewInt(2)) {
		t.Error("Less returned an unexpected result")
	}
}

func TestDivisionPanicsOnInvalidOperands(t *testing.T) {
	t.Parallel()

	cases := map[string]func(){
		"zero denominator":   func() { MulDivFloor(big.NewInt(1), 1, 0) },
		"zero divisor ceil":  func() { DivCeil(big.NewInt(1), big.NewInt(0)) },
		"negative dividend":  func() { MulDivFloor(big.NewInt(-1), 1, 2) },
		"negative divisor":   func() { DivCeil(big.NewInt(1), big.NewInt(-2)) },
		"negative numerator": func() { MulDivFloor(big.NewInt(1), -1, 2) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", name)
				}
			}()
			fn()
		})
	}
}

// TestFloorCeilRelation_PropertyBased checks floor <= a/b <= ceil and that the
// two differ by at most one, with equality exactly when b divides a.
func TestFloorCeilRelation_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("floor and ceil bracket the quotient", prop.ForAll(
		func(a, b uint64) bool {
			x := new(big.Int).SetUint64(a)
			y := new(big.Int).SetUint64(b)
			floor := divFloor(x, y)
			ceil := DivCeil(x, y)

			lo := new(big.Int).Mul(floor, y)
			hi := new(big.Int).Mul(ceil, y)
			if lo.Cmp(x) > 0 || hi.Cmp(x) < 0 {
				return false
			}
			diff := Sub(ceil, floor)
			divides := new(big.Int).Rem(x, y).Sign() == 0
			if divides {
				return diff.Sign() == 0
			}
			return diff.Cmp(big.NewInt(1)) == 0
		},
		gen.UInt64(),
		gen.UInt64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}
