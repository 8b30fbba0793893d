package orchestration

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"

	"github.com/agbru/combicalc/internal/cli"
	"github.com/agbru/combicalc/internal/combin"
	apperrors "github.com/agbru/combicalc/internal/errors"
	"github.com/agbru/combicalc/internal/ui"
	"github.com/agbru/combicalc/pkg/models"
)

// previewLimit is the combination length above which the summary table
// elides the middle of first and last combinations.
const previewLimit = 8

// Problems checks a sweep report against the partition guarantees and
// returns one message per violation:
//   - every worker emitted exactly the size of its range;
//   - each worker's first combination is the unranked start of its range;
//   - each worker's last combination precedes the next worker's first;
//   - the emitted counts sum to the size of the space.
//
// Worker errors are reported as problems too.
func Problems(report SweepReport) []string {
	var problems []string
	sum := new(big.Int)
	var prev *WorkerReport

	for i := range report.Workers {
		w := &report.Workers[i]
		if w.Err != nil {
			problems = append(problems, fmt.Sprintf("worker %d stopped: %v", w.Worker, w.Err))
		}
		sum.Add(sum, new(big.Int).SetUint64(w.Emitted))

		size := w.Range.Size()
		if !size.IsUint64() || size.Uint64() != w.Emitted {
			problems = append(problems, fmt.Sprintf("worker %d emitted %d combinations for a range of %s", w.Worker, w.Emitted, size))
		}
		if w.Emitted == 0 {
			continue
		}

		want, err := combin.Unrank(report.Space.N, report.Space.K, w.Range.Start)
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("worker %d: cannot unrank start %s: %v", w.Worker, w.Range.Start, err))
		case !want.Equal(w.First):
			problems = append(problems, fmt.Sprintf("worker %d started at %s, want %s", w.Worker, w.First, want))
		}
		if prev != nil && prev.Last.Compare(w.First) >= 0 {
			problems = append(problems, fmt.Sprintf("worker %d ended at %s, not before worker %d's first %s", prev.Worker, prev.Last, w.Worker, w.First))
		}
		prev = w
	}

	if report.Total != nil && sum.Cmp(report.Total) != 0 {
		problems = append(problems, fmt.Sprintf("workers emitted %s combinations, want %s", sum, report.Total))
	}
	return problems
}

// Summary converts a sweep report into its JSON form.
func Summary(report SweepReport) models.SweepSummary {
	emitted := new(big.Int)
	workers := make([]models.WorkerSummary, len(report.Workers))
	for i, w := range report.Workers {
		emitted.Add(emitted, new(big.Int).SetUint64(w.Emitted))
		workers[i] = models.WorkerSummary{
			Worker:   w.Worker,
			Emitted:  w.Emitted,
			First:    w.First,
			Last:     w.Last,
			Duration: w.Duration.String(),
		}
		if w.Err != nil {
			workers[i].Error = w.Err.Error()
		}
	}
	total := ""
	if report.Total != nil {
		total = report.Total.String()
	}
	problems := Problems(report)
	return models.SweepSummary{
		N:        report.Space.N,
		K:        report.Space.K,
		Total:    total,
		Emitted:  emitted.String(),
		Workers:  workers,
		Duration: report.Duration.String(),
		Valid:    len(problems) == 0,
		Problems: problems,
	}
}

// AnalyzeSweep prints a per-worker summary table of a sweep and checks it
// with Problems.
//
// Parameters:
//   - report: The report returned by ExecuteSweep.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: ExitSuccess for a complete and consistent sweep, the timeout or
//     cancellation code when the context stopped it, ExitErrorMismatch
//     otherwise.
func AnalyzeSweep(report SweepReport, out io.Writer) int {
	fmt.Fprintf(out, "\n--- Sweep Summary: C(%d, %d) ---\n", report.Space.N, report.Space.K)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sWorker%s\t%sRanks%s\t%sEmitted%s\t%sFirst%s\t%sLast%s\t%sDuration%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	for _, w := range report.Workers {
		first, last := "-", "-"
		if w.Emitted > 0 {
			first, last = preview(w.First), preview(w.Last)
		}
		fmt.Fprintf(tw, "%s%d%s\t[%s, %s)\t%d\t%s\t%s\t%s%s%s\n",
			ui.ColorBlue(), w.Worker, ui.ColorReset(),
			w.Range.Start, w.Range.End, w.Emitted, first, last,
			ui.ColorYellow(), cli.FormatExecutionDuration(w.Duration), ui.ColorReset())
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if apperrors.IsContextError(report.Err) {
		fmt.Fprintln(out)
		return apperrors.HandleRunError(report.Err, report.Duration, out, ui.Colors{})
	}

	problems := Problems(report)
	if len(problems) > 0 {
		fmt.Fprintf(out, "\nGlobal Status: %sCRITICAL ERROR!%s The sweep is inconsistent:\n", ui.ColorRed(), ui.ColorReset())
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. %s combinations swept in order in %s.\n",
		report.Total, cli.FormatExecutionDuration(report.Duration))
	return apperrors.ExitSuccess
}

// preview renders a combination, eliding the middle of long ones.
func preview(c combin.Combination) string {
	if len(c) <= previewLimit {
		return c.String()
	}
	head := combin.Combination(c[:3]).String()
	tail := combin.Combination(c[len(c)-3:]).String()
	return strings.TrimSuffix(head, "]") + " ... " + strings.TrimPrefix(tail, "[")
}
