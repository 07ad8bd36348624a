// =============================================================================
// CAMEO to CSV Converter - Pipeline Runner
// =============================================================================
//
// This file drives the conversion for a whole listing. It pulls lines from a
// LineSource, converts each one, and hands the rows to a RowWriter in input
// order. Nothing is buffered beyond the current line.
//
// FAILURES:
//   - A read error aborts the run with ErrSourceUnavailable.
//   - A write or flush error aborts the run with ErrWriteFailure.
//   - Lines without a code or description are skipped silently.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/cameo-to-csv/internal/types"
	"go.uber.org/zap"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSourceUnavailable means the listing could not be obtained or read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrWriteFailure means the output sink stopped accepting data.
	ErrWriteFailure = errors.New("write failure")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// LineSource yields the lines of a listing one at a time.
type LineSource interface {
	Next() bool
	Line() string
	Err() error
}

// RowWriter receives the output records.
type RowWriter interface {
	WriteHeader() error
	WriteRow(row types.Row) error
	Flush() error
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats describes a completed or aborted run.
type Stats struct {
	// LinesRead is the number of lines pulled from the source.
	LinesRead int

	// RowsWritten is the number of data rows handed to the writer.
	RowsWritten int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// =============================================================================
// RUN
// =============================================================================

// Run converts every line from lines and writes the rows to out.
//
// PARAMETERS:
//   - ctx: Cancels the run between lines.
//   - lines: The listing.
//   - out: The destination for the header and rows.
//   - logger: Receives progress and failure messages.
//
// RETURNS:
//   - Statistics for the run, filled in even when it fails.
//   - An error wrapping ErrSourceUnavailable or ErrWriteFailure, or the
//     context error.
func Run(ctx context.Context, lines LineSource, out RowWriter, logger *zap.Logger) (Stats, error) {
	start := time.Now()
	var stats Stats
	finish := func(err error) (Stats, error) {
		stats.Elapsed = time.Since(start)
		return stats, err
	}

	if err := out.WriteHeader(); err != nil {
		logger.Error("failed to write header", zap.Error(err))
		return finish(fmt.Errorf("%w: header: %w", ErrWriteFailure, err))
	}

	conv := NewLineConverter()
	for lines.Next() {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		stats.LinesRead++

		row, ok := conv.Convert(lines.Line())
		if !ok {
			continue
		}

		if err := out.WriteRow(row); err != nil {
			logger.Error("failed to write row",
				zap.Int("line", stats.LinesRead),
				zap.Error(err))
			return finish(fmt.Errorf("%w: line %d: %w", ErrWriteFailure, stats.LinesRead, err))
		}
		stats.RowsWritten++
	}

	if err := lines.Err(); err != nil {
		logger.Error("failed to read source", zap.Int("line", stats.LinesRead+1), zap.Error(err))
		return finish(fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}

	if err := out.Flush(); err != nil {
		logger.Error("failed to flush output", zap.Error(err))
		return finish(fmt.Errorf("%w: flush: %w", ErrWriteFailure, err))
	}

	logger.Debug("conversion finished",
		zap.Int("lines_read", stats.LinesRead),
		zap.Int("rows_written", stats.RowsWritten))

	return finish(nil)
}
