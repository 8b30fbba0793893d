// Package cli provides output utilities for exporting results.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/agbru/combicalc/internal/errors"
	"github.com/agbru/combicalc/internal/ui"
	"github.com/agbru/combicalc/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save a partition plan (empty for no file).
	OutputFile string
	// JSON writes results as JSON instead of text.
	JSON bool
	// Quiet prints only the bare result, one value per line.
	Quiet bool
	// Verbose prints numbers and combinations in full.
	Verbose bool
}

// WriteJSON writes v to out as indented JSON.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WritePlanToFile saves a partition plan as JSON, creating the parent
// directory if needed. The plan's Generated field is set to the current time.
//
// Parameters:
//   - plan: The plan to save.
//   - path: The destination file.
//
// Returns:
//   - error: An error if the file cannot be written.
func WritePlanToFile(plan models.PartitionPlan, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "failed to create directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "failed to create output file %s", path)
	}
	defer file.Close()

	plan.Generated = time.Now().UTC().Format(time.RFC3339)
	if err := WriteJSON(file, plan); err != nil {
		return apperrors.WrapError(err, "failed to write plan to %s", path)
	}
	return file.Close()
}

// ReadPlanFile loads a partition plan written by WritePlanToFile.
func ReadPlanFile(path string) (models.PartitionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.PartitionPlan{}, err
	}
	var plan models.PartitionPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.PartitionPlan{}, apperrors.WrapError(err, "invalid plan file %s", path)
	}
	return plan, nil
}

// FormatQuietResult formats a result for quiet mode: the count, the rank, the
// comma separated combination, or one "worker start end" line per range.
//
// Parameters:
//   - result: One of the models response types.
//
// Returns:
//   - string: The formatted result, without a trailing newline.
func FormatQuietResult(result any) string {
	switch r := result.(type) {
	case models.CountResponse:
		return r.Count
	case models.RankResponse:
		return r.Rank
	case models.UnrankResponse:
		return joinIndices(r.Combination)
	case models.PartitionPlan:
		lines := make([]string, len(r.Ranges))
		for i, rg := range r.Ranges {
			lines[i] = fmt.Sprintf("%d %s %s", rg.Worker, rg.Start, rg.End)
		}
		return strings.Join(lines, "\n")
	case models.SweepSummary:
		return r.Emitted
	default:
		return fmt.Sprint(result)
	}
}

// joinIndices renders a combination as "0,1,3", the -combination flag syntax.
func joinIndices(c []int) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

// DisplayResultWithConfig displays a result according to the output
// configuration and saves partition plans when OutputFile is set.
//
// Parameters:
//   - out: The output writer.
//   - result: One of the models response types.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if encoding or file output fails.
func DisplayResultWithConfig(out io.Writer, result any, config OutputConfig) error {
	switch {
	case config.JSON:
		if err := WriteJSON(out, result); err != nil {
			return err
		}
	case config.Quiet:
		fmt.Fprintln(out, FormatQuietResult(result))
	default:
		switch r := result.(type) {
		case models.CountResponse:
			DisplayCount(r, config.Verbose, out)
		case models.RankResponse:
			DisplayRank(r, config.Verbose, out)
		case models.UnrankResponse:
			DisplayUnrank(r, config.Verbose, out)
		case models.PartitionPlan:
			DisplayPartition(r, config.Verbose, out)
		default:
			fmt.Fprintf(out, "%v\n", result)
		}
	}

	plan, isPlan := result.(models.PartitionPlan)
	if config.OutputFile == "" || !isPlan {
		return nil
	}
	if err := WritePlanToFile(plan, config.OutputFile); err != nil {
		return err
	}
	if !config.Quiet && !config.JSON {
		fmt.Fprintf(out, "\n%s✓ Plan saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}
