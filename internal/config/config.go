// Package config provides the configuration management for the combicalc
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/agbru/combicalc/internal/combin"
	apperrors "github.com/agbru/combicalc/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by combicalc.
	// Environment variables provide an alternative to CLI flags for
	// configuration.
	EnvPrefix = "COMBICALC_"
)

// Operations selectable with -op.
const (
	OpCount     = "count"
	OpRank      = "rank"
	OpUnrank    = "unrank"
	OpPartition = "partition"
	OpSweep     = "sweep"
)

// Operations lists every value accepted by -op.
var Operations = []string{OpCount, OpRank, OpUnrank, OpPartition, OpSweep}

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultOp is the default operation.
	DefaultOp = OpCount
	// DefaultN is the default universe size.
	DefaultN = 20000
	// DefaultK is the default selection size.
	DefaultK = 3
	// DefaultWorkers is the default number of workers for partition and sweep.
	DefaultWorkers = 4
	// DefaultTimeout is the default execution timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo is the default counter selection.
	DefaultAlgo = "all"
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags and COMBICALC_ environment variables.
type AppConfig struct {
	// Op is the operation to run: count, rank, unrank, partition or sweep.
	Op string
	// N is the universe size.
	N int
	// K is the selection size.
	K int
	// Workers is the number of ranges for partition and sweep.
	Workers int
	// Rank is the decimal rank decoded by the unrank operation.
	Rank string
	// Combination is the comma separated combination ranked by the rank
	// operation, e.g. "0,1,3".
	Combination string
	// Algo selects the counter: "all" (compare every registered counter) or
	// one registered name.
	Algo string
	// Verbose, if true, prints every combination of a sweep and enables debug
	// logs.
	Verbose bool
	// Timeout sets the maximum duration of a run.
	Timeout time.Duration
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// OutputFile, if specified, receives the partition plan as JSON.
	OutputFile string
	// Quiet mode prints only the bare result, for scripting.
	Quiet bool
	// Completion, if set, generates a shell completion script for the given
	// shell: "bash", "zsh", "fish" or "powershell".
	Completion string
}

// Space returns the configured space.
func (c AppConfig) Space() (combin.Space, error) {
	return combin.NewSpace(c.N, c.K)
}

// ParsedRank returns the Rank field as an integer.
func (c AppConfig) ParsedRank() (*big.Int, error) {
	r, ok := new(big.Int).SetString(strings.TrimSpace(c.Rank), 10)
	if !ok {
		return nil, apperrors.NewValidationError("rank", "must be a decimal integer", c.Rank)
	}
	return r, nil
}

// ParsedCombination returns the Combination field as a combination.
func (c AppConfig) ParsedCombination() (combin.Combination, error) {
	return combin.ParseCombination(c.Combination)
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges, that the chosen
// operation has its inputs, and that the chosen counter is registered.
// Membership of the combination and range of the rank are left to the
// engine, which reports them with its own errors.
//
// Parameters:
//   - availableAlgos: The registered counter names.
//
// Returns:
//   - error: A ConfigError if the configuration is invalid, nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Completion != "" || c.ServerMode {
		return nil
	}
	if !slices.Contains(Operations, c.Op) {
		return apperrors.NewConfigError("unrecognized operation: '%s'. Valid operations are: [%s]", c.Op, strings.Join(Operations, ", "))
	}
	if c.N < 0 || c.K < 0 {
		return apperrors.NewConfigError("n and k must be nonnegative (n=%d, k=%d)", c.N, c.K)
	}
	if c.K > c.N {
		return apperrors.NewConfigError("k cannot exceed n (n=%d, k=%d)", c.N, c.K)
	}
	if (c.Op == OpPartition || c.Op == OpSweep) && c.Workers <= 0 {
		return apperrors.NewConfigError("workers must be strictly positive: %d", c.Workers)
	}
	if c.Op == OpRank && strings.TrimSpace(c.Combination) == "" && c.K > 0 {
		return apperrors.NewConfigError("the rank operation needs -combination")
	}
	if c.Op == OpUnrank {
		if strings.TrimSpace(c.Rank) == "" {
			return apperrors.NewConfigError("the unrank operation needs -rank")
		}
		if _, err := c.ParsedRank(); err != nil {
			return apperrors.NewConfigError("invalid rank %q: must be a decimal integer", c.Rank)
		}
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized counter: '%s'. Valid counters are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.OutputFile != "" && c.Op != OpPartition {
		return apperrors.NewConfigError("-o is only supported with -op partition")
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, applies environment
// overrides for flags not given on the command line, and validates the
// result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableAlgos: The registered counter names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: flag.ErrHelp for -h, a parse error, or a wrapped ConfigError
//     (see IsConfigError).
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Counter to use: 'all' (default, cross-checks every counter) or one of [%s].", strings.Join(availableAlgos, ", "))
	opHelp := fmt.Sprintf("Operation to run: one of [%s].", strings.Join(Operations, ", "))

	config := AppConfig{}
	fs.StringVar(&config.Op, "op", DefaultOp, opHelp)
	fs.IntVar(&config.N, "n", DefaultN, "Universe size n.")
	fs.IntVar(&config.K, "k", DefaultK, "Selection size k.")
	fs.IntVar(&config.Workers, "workers", DefaultWorkers, "Number of workers for partition and sweep.")
	fs.IntVar(&config.Workers, "w", DefaultWorkers, "Number of workers (shorthand).")
	fs.StringVar(&config.Rank, "rank", "", "Rank to decode with -op unrank (decimal, any size).")
	fs.StringVar(&config.Combination, "combination", "", "Combination to rank with -op rank, e.g. 0,1,3.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.BoolVar(&config.Verbose, "v", false, "Verbose output: list swept combinations and enable debug logs.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the partition plan to this JSON file.")
	fs.StringVar(&config.OutputFile, "o", "", "Partition plan file (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Op = strings.ToLower(strings.TrimSpace(config.Op))
	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// IsConfigError reports whether err came from configuration validation.
func IsConfigError(err error) bool {
	var cfgErr apperrors.ConfigError
	return errors.As(err, &cfgErr)
}
