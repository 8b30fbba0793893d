// Package orchestration drives the engine concurrently on the caller side:
// it fans counters out for cross-checking and sweeps a partitioned space
// with one goroutine per worker.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/combicalc/internal/cli"
	"github.com/agbru/combicalc/internal/combin"
	apperrors "github.com/agbru/combicalc/internal/errors"
	"github.com/agbru/combicalc/internal/ui"
)

// CountResult encapsulates the outcome of a single counter run.
// It serves as a standardized container for results from different counters,
// facilitating comparison and reporting.
type CountResult struct {
	// Name is the registry name of the counter.
	Name string
	// Result is C(n, k). It is nil if an error occurred.
	Result *big.Int
	// Duration is the time taken by the counter.
	Duration time.Duration
	// Err contains any error returned by the counter.
	Err error
}

// ExecuteCounts runs every counter on the same space concurrently and
// collects their results in input order.
//
// Counters are synchronous, so cancellation is observed only before each
// counter starts; a counter that starts after ctx is done records ctx.Err().
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - counters: The counters to execute.
//   - n: The universe size.
//   - k: The selection size.
//
// Returns:
//   - []CountResult: One result per counter.
func ExecuteCounts(ctx context.Context, counters []combin.Counter, n, k int) []CountResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CountResult, len(counters))

	for i, c := range counters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = CountResult{Name: c.Name(), Err: err}
				return nil
			}
			start := time.Now()
			res, err := c.Count(n, k)
			results[i] = CountResult{Name: c.Name(), Result: res, Duration: time.Since(start), Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AnalyzeCountResults prints a comparison table of the counters and checks
// that every successful counter agrees.
//
// The results are sorted in place: successes first, then by duration.
//
// Parameters:
//   - results: The counter results to analyze.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: ExitSuccess when all successful counters agree,
//     ExitErrorMismatch on disagreement, or the code of the first error if
//     no counter succeeded.
func AnalyzeCountResults(results []CountResult, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var reference *big.Int
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sCounter%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			successCount++
			if reference == nil {
				reference = res.Result
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No counter could complete.\n")
		return apperrors.HandleRunError(firstError, 0, out, ui.Colors{})
	}

	for _, res := range results {
		if res.Err == nil && res.Result.Cmp(reference) != 0 {
			fmt.Fprintf(out, "\nGlobal Status: %sCRITICAL ERROR!%s The counters disagree.\n", ui.ColorRed(), ui.ColorReset())
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	return apperrors.ExitSuccess
}
