// =============================================================================
// CAMEO to CSV Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which runs the conversion
// pipeline. The root command runs the same pipeline when called with no
// subcommand.
//
// COMMAND USAGE:
//   cameo2csv convert [flags]
//
// PROCESSING PIPELINE:
//   1. Open the listing (local file, else HTTP download)
//   2. Open the destination (stdout, or an atomic file)
//   3. Convert line by line, writing each row as it is produced
//   4. Move the output file into place on success, discard it on failure
//   5. Log a summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ginjaninja78/cameo-to-csv/internal/config"
	"github.com/ginjaninja78/cameo-to-csv/internal/converter"
	"github.com/ginjaninja78/cameo-to-csv/internal/csvwriter"
	"github.com/ginjaninja78/cameo-to-csv/internal/source"
	"github.com/ginjaninja78/cameo-to-csv/internal/xlsxwriter"
	"github.com/ginjaninja78/cameo-to-csv/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the CAMEO listing (default command)",
	Long: `The convert command reads the CAMEO event-code listing and writes one record
per code definition. Lines without both a numeric code and a description are
skipped.

On success:
  - The output is complete at the destination
  - A summary is logged to stderr

On error:
  - The error is logged and the command exits non-zero
  - A file destination is left untouched (stdout may hold partial output)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), cmd.OutOrStdout())
	},
}

// init registers the convert command with the root command.
func init() {
	rootCmd.AddCommand(convertCmd)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert runs the pipeline with the loaded configuration.
//
// PARAMETERS:
//   - ctx: Cancels the download and the line loop.
//   - stdout: Destination when the output path is "-".
//
// RETURNS:
//   - An error wrapping converter.ErrSourceUnavailable or
//     converter.ErrWriteFailure, or nil.
func runConvert(ctx context.Context, stdout io.Writer) error {
	log := logger.With(zap.String("run_id", uuid.NewString()))

	lines, err := source.Load(ctx, cfg.Source, log)
	if err != nil {
		log.Error("cannot read CAMEO listing", zap.Error(err))
		return err
	}
	defer lines.Close()

	out, err := openOutput(cfg.Output, stdout)
	if err != nil {
		log.Error("cannot open output", zap.Error(err))
		return err
	}

	stats, err := converter.Run(ctx, lines, out.rows, log)
	if err != nil {
		out.abort()
		return err
	}

	if err := out.commit(); err != nil {
		log.Error("cannot finish output", zap.Error(err))
		return err
	}

	log.Info("conversion complete",
		zap.String("source", lines.Origin()),
		zap.String("output", out.dest),
		zap.String("format", cfg.Output.Format),
		zap.Int("lines_read", stats.LinesRead),
		zap.Int("rows_written", stats.RowsWritten),
		zap.Duration("elapsed", stats.Elapsed))

	return nil
}

// =============================================================================
// OUTPUT HANDLING
// =============================================================================

// output is an opened destination.
type output struct {
	rows converter.RowWriter

	// file is nil when writing to stdout.
	file *utils.AtomicFile

	// dest is the file path, or "-".
	dest string
}

// openOutput opens the destination named by the output settings.
func openOutput(oc config.OutputConfig, stdout io.Writer) (*output, error) {
	out := &output{dest: config.StdoutPath}
	w := stdout

	if oc.Path != config.StdoutPath {
		f, err := utils.CreateAtomic(utils.GenerateOutputFileName(oc.Path, nil))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", converter.ErrWriteFailure, err)
		}
		out.file = f
		out.dest = f.Dest()
		w = f
	}

	switch oc.Format {
	case config.FormatXLSX:
		xw, err := xlsxwriter.New(w)
		if err != nil {
			out.abort()
			return nil, fmt.Errorf("%w: %w", converter.ErrWriteFailure, err)
		}
		out.rows = xw
	default:
		out.rows = csvwriter.New(w)
	}

	return out, nil
}

// commit moves a file destination into place.
func (o *output) commit() error {
	if o.file == nil {
		return nil
	}
	if err := o.file.Commit(); err != nil {
		return fmt.Errorf("%w: %w", converter.ErrWriteFailure, err)
	}
	return nil
}

// abort discards a partially written file destination.
func (o *output) abort() {
	if o.file != nil {
		_ = o.file.Abort()
	}
}
