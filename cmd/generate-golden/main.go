// Command generate-golden writes the golden file used by the combin tests.
// Counts come from math/big's Binomial and combinations from a linear scan
// that shares no code with the combin package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenSample is one rank and its combination.
type GoldenSample struct {
	Rank        string `json:"rank"`
	Combination []int  `json:"combination"`
}

// GoldenData is one space of the golden file.
type GoldenData struct {
	N       int            `json:"n"`
	K       int            `json:"k"`
	Count   string         `json:"count"`
	Samples []GoldenSample `json:"samples"`
}

func main() {
	outputDir := flag.String("out", "internal/combin/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "combin_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// Boundary spaces, small spaces that tests can enumerate, and large ones
	// whose counts exceed 64 bits.
	spaces := [][2]int{
		{0, 0}, {5, 2}, {6, 3}, {7, 0}, {7, 7}, {10, 3}, {52, 5},
		{60, 30}, {100, 50}, {200, 12}, {1000, 10}, {20000, 3},
	}

	fmt.Println("Generating golden data...")
	data := make([]GoldenData, 0, len(spaces))
	for _, s := range spaces {
		n, k := s[0], s[1]
		total := new(big.Int).Binomial(int64(n), int64(k))
		entry := GoldenData{N: n, K: k, Count: total.String()}
		for _, rank := range sampleRanks(total) {
			entry.Samples = append(entry.Samples, GoldenSample{
				Rank:        rank.String(),
				Combination: scanUnrank(n, k, rank),
			})
		}
		data = append(data, entry)
		fmt.Printf("Generated C(%d, %d)\n", n, k)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// sampleRanks returns 0, 1, total/3, total/2, 2*total/3 and total-1,
// without duplicates and in that order.
func sampleRanks(total *big.Int) []*big.Int {
	last := new(big.Int).Sub(total, big.NewInt(1))
	candidates := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		new(big.Int).Div(total, big.NewInt(3)),
		new(big.Int).Div(total, big.NewInt(2)),
		new(big.Int).Div(new(big.Int).Mul(total, big.NewInt(2)), big.NewInt(3)),
		last,
	}
	var out []*big.Int
	for _, c := range candidates {
		if c.Cmp(last) > 0 {
			continue
		}
		dup := false
		for _, o := range out {
			if o.Cmp(c) == 0 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// scanUnrank returns the combination at rank by trying each candidate value
// in turn and skipping the block of combinations that start with it.
func scanUnrank(n, k int, rank *big.Int) []int {
	remaining := new(big.Int).Set(rank)
	c := make([]int, 0, k)
	v := 0
	for i := 0; i < k; i++ {
		for ; ; v++ {
			block := new(big.Int).Binomial(int64(n-v-1), int64(k-i-1))
			if remaining.Cmp(block) < 0 {
				break
			}
			remaining.Sub(remaining, block)
		}
		c = append(c, v)
		v++
	}
	return c
}
