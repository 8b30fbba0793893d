// The cli package renders the combicalc command line: asynchronous sweep
// progress on the terminal and the formatted results of every operation.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/internal/ui"
	"github.com/agbru/combicalc/pkg/models"
)

// FormatExecutionDuration formats a time.Duration for display: microseconds
// below a millisecond, milliseconds below a second, and the default
// representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// TruncationLimit is the digit count from which a count or rank is
	// truncated on standard output.
	TruncationLimit = 100
	// DisplayEdges is the number of digits kept at each end of a truncated
	// number.
	DisplayEdges = 25
	// CombinationPreviewLimit is the number of indices from which a
	// combination is truncated on standard output.
	CombinationPreviewLimit = 32
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// isTerminal reports whether w is an interactive terminal. Progress is only
// animated on terminals; piped output stays free of control sequences.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ProgressState holds the latest progress of each sweep worker.
type ProgressState struct {
	progresses []float64
	numWorkers int
}

// NewProgressState creates a progress state for numWorkers workers.
func NewProgressState(numWorkers int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, numWorkers),
		numWorkers: numWorkers,
	}
}

// Update records a worker's progress, ignoring indices out of range.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress across workers.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numWorkers == 0 {
		return 0.0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numWorkers)
}

// progressBar renders progress, clamped to [0, 1], as a bar of length runes.
func progressBar(progress float64, length int) string {
	progress = max(0.0, min(progress, 1.0))
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress shows a spinner with the average progress and ETA of the
// sweep workers until progressChan is closed. It is meant to run in its own
// goroutine. When out is not a terminal the updates are drained silently.
//
// Parameters:
//   - wg: Signaled when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - numWorkers: The number of workers contributing to the progress.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan combin.ProgressUpdate, numWorkers int, out io.Writer) {
	defer wg.Done()
	if numWorkers <= 0 || !isTerminal(out) {
		for range progressChan {
		}
		return
	}

	label := "Progress"
	if numWorkers > 1 {
		label = "Avg progress"
	}

	state := NewProgressWithETA(numWorkers)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s: %s\n", label, FormatProgressBarWithETA(1.0, time.Millisecond, ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.WorkerIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth)))
		}
	}
}

// truncateDigits shortens a long decimal string unless verbose is set. The
// second result reports whether truncation happened.
func truncateDigits(s string, verbose bool) (string, bool) {
	if verbose || len(s) <= TruncationLimit {
		return formatNumberString(s), false
	}
	return s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:], true
}

// formatCombination renders a combination as "[0 1 2]", eliding the middle
// of very long combinations unless verbose is set.
func formatCombination(c []int, verbose bool) string {
	if verbose || len(c) <= CombinationPreviewLimit {
		return combin.Combination(c).String()
	}
	half := CombinationPreviewLimit / 2
	head := combin.Combination(c[:half]).String()
	tail := combin.Combination(c[len(c)-half:]).String()
	return fmt.Sprintf("%s ... %s (%d indices)", strings.TrimSuffix(head, "]"), strings.TrimPrefix(tail, "["), len(c))
}

// DisplayCount prints C(n, k) with its size and floating point estimate.
//
// Parameters:
//   - resp: The count to display.
//   - verbose: If true, prints the full number regardless of size.
//   - out: The io.Writer for the output.
func DisplayCount(resp models.CountResponse, verbose bool, out io.Writer) {
	value, truncated := truncateDigits(resp.Count, verbose)
	fmt.Fprintf(out, "C(%s%d%s, %s%d%s) = %s%s%s\n",
		ui.ColorMagenta(), resp.N, ui.ColorReset(), ui.ColorMagenta(), resp.K, ui.ColorReset(),
		ui.ColorGreen(), value, ui.ColorReset())
	fmt.Fprintf(out, "Number of digits      : %s%s%s\n", ui.ColorCyan(), formatNumberString(fmt.Sprint(resp.Digits)), ui.ColorReset())
	if resp.Digits > 6 {
		fmt.Fprintf(out, "Scientific notation   : %s%.6e%s\n", ui.ColorCyan(), resp.Approx, ui.ColorReset())
	}
	if truncated {
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ui.ColorYellow(), ui.ColorReset())
	}
}

// DisplayRank prints the rank of a combination.
func DisplayRank(resp models.RankResponse, verbose bool, out io.Writer) {
	value, _ := truncateDigits(resp.Rank, verbose)
	fmt.Fprintf(out, "rank(%s%s%s) in C(%d, %d) = %s%s%s\n",
		ui.ColorGreen(), formatCombination(resp.Combination, verbose), ui.ColorReset(),
		resp.N, resp.K, ui.ColorCyan(), value, ui.ColorReset())
}

// DisplayUnrank prints the combination found at a rank.
func DisplayUnrank(resp models.UnrankResponse, verbose bool, out io.Writer) {
	value, _ := truncateDigits(resp.Rank, verbose)
	fmt.Fprintf(out, "unrank(%s%s%s) in C(%d, %d) = %s%s%s\n",
		ui.ColorCyan(), value, ui.ColorReset(), resp.N, resp.K,
		ui.ColorGreen(), formatCombination(resp.Combination, verbose), ui.ColorReset())
}

// DisplayPartition prints a partition plan as a table, one row per worker.
func DisplayPartition(plan models.PartitionPlan, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "%s--- Partition of C(%d, %d) = %s across %d workers ---%s\n",
		ui.ColorBold(), plan.N, plan.K, formatNumberString(plan.Total), plan.Workers, ui.ColorReset())
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sWorker%s\t%sStart%s\t%sEnd%s\t%sSize%s\t%sFirst%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, r := range plan.Ranges {
		first := ui.Paint(ui.ColorYellow(), "(empty)")
		if r.Size != "0" {
			first = ui.Paint(ui.ColorGreen(), formatCombination(r.First, verbose))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ui.Paint(ui.ColorMagenta(), fmt.Sprint(r.Worker)),
			formatNumberString(r.Start), formatNumberString(r.End), formatNumberString(r.Size), first)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
	fmt.Fprintf(out, "Largest range: %s%s%s combinations.\n", ui.ColorCyan(), formatNumberString(plan.MaxRangeSize), ui.ColorReset())
}

// formatNumberString inserts thousand separators into a numeric string.
//
// Parameters:
//   - s: The numeric string to format.
//
// Returns:
//   - string: The formatted string with comma separators.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	var builder strings.Builder
	builder.Grow(len(prefix) + n + (n-1)/3)
	builder.WriteString(prefix)

	firstGroupLen := n % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}
	builder.WriteString(s[:firstGroupLen])
	for i := firstGroupLen; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}
