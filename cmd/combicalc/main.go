// Command combicalc counts, ranks, unranks, partitions and sweeps the
// k-combinations of {0..n-1}, from the command line or as an HTTP server.
package main

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agbru/combicalc/internal/app"
	"github.com/agbru/combicalc/internal/combin"
	apperrors "github.com/agbru/combicalc/internal/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run is main without the process exit, so it can be tested.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) > 1 && app.HasVersionFlag(args[1:]) {
		asJSON := slices.Contains(args[1:], "-json") || slices.Contains(args[1:], "--json")
		if err := app.PrintVersion(out, combin.GlobalFactory().List(), asJSON); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, errOut)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		return apperrors.ExitErrorConfig
	}

	// Service debug logs go through the global zerolog logger.
	if !application.Config.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return application.Run(ctx, out)
}
