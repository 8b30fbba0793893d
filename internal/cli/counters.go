package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/internal/config"
	"github.com/agbru/combicalc/internal/ui"
)

// GetCountersToRun returns the counters selected by cfg.Algo: every
// registered counter in name order for "all", otherwise the named one.
//
// Parameters:
//   - cfg: The application configuration containing the counter selection.
//   - factory: The counter factory to retrieve implementations from.
//
// Returns:
//   - []combin.Counter: The counters to run, empty if the name is unknown.
func GetCountersToRun(cfg config.AppConfig, factory combin.CounterFactory) []combin.Counter {
	if cfg.Algo == "all" {
		keys := factory.List()
		counters := make([]combin.Counter, 0, len(keys))
		for _, k := range keys {
			if c, err := factory.Get(k); err == nil {
				counters = append(counters, c)
			}
		}
		return counters
	}
	if c, err := factory.Get(cfg.Algo); err == nil {
		return []combin.Counter{c}
	}
	return nil
}

// PrintExecutionConfig displays the operation, space and environment of a
// run.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Operation %s%s%s on %sC(%d, %d)%s with a timeout of %s%s%s.\n",
		ui.ColorBold(), cfg.Op, ui.ColorReset(),
		ui.ColorMagenta(), cfg.N, cfg.K, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	if cfg.Op == config.OpPartition || cfg.Op == config.OpSweep {
		fmt.Fprintf(out, "Workers: %s%d%s.\n", ui.ColorCyan(), cfg.Workers, ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// PrintExecutionMode states whether one counter runs or all are compared.
//
// Parameters:
//   - counters: The counters that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(counters []combin.Counter, out io.Writer) {
	var modeDesc string
	switch len(counters) {
	case 0:
		modeDesc = "No counter selected"
	case 1:
		modeDesc = fmt.Sprintf("Single count with the %s%s%s counter",
			ui.ColorGreen(), counters[0].Name(), ui.ColorReset())
	default:
		modeDesc = "Parallel comparison of all counters"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
