package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/combicalc/internal/combin"
)

// ColorProvider defines the interface for obtaining terminal color codes.
// This abstraction breaks the import cycle with cli.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// IsInputError reports whether err stems from an invalid space, combination,
// rank or worker count rather than from a failure of the program.
func IsInputError(err error) bool {
	var verr ValidationError
	return errors.Is(err, combin.ErrInvalidArgument) ||
		errors.Is(err, combin.ErrInvalidCombination) ||
		errors.Is(err, combin.ErrOutOfRange) ||
		errors.As(err, &verr)
}

// HandleRunError formats and prints the error of a failed run and maps it to
// an exit code. It distinguishes timeouts, cancellations, invalid input and
// generic failures so the user gets specific feedback.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: How long the run lasted before it failed.
//   - out: The io.Writer to which the error message will be written.
//   - colors: Provider for terminal color codes (can be nil for no colors).
//
// Returns:
//   - int: The appropriate exit code for the error type.
func HandleRunError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	if colors == nil {
		colors = noColors{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	var cfgErr ConfigError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &cfgErr):
		fmt.Fprintf(out, "Status: Configuration error. %v\n", err)
		return ExitErrorConfig
	case IsInputError(err):
		fmt.Fprintf(out, "Status: Invalid input. %v\n", err)
		return ExitErrorInput
	}
	fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	return ExitErrorGeneric
}
