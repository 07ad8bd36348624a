// =============================================================================
// CAMEO to CSV Converter - Source Loader
// =============================================================================
//
// This module finds the CAMEO event-code listing and exposes it as a stream
// of lines.
//
// LOOKUP ORDER:
//   1. The local file named in the configuration (default cameocodes.txt)
//   2. A plain HTTP GET of the configured URL, used only when the local file
//      does not exist
//
// When cache_download is set, a fetched listing is saved to the local path
// first, so the next run does not touch the network.
//
// Every failure here is reported as converter.ErrSourceUnavailable.
//
// =============================================================================

package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/ginjaninja78/cameo-to-csv/internal/config"
	"github.com/ginjaninja78/cameo-to-csv/internal/converter"
	"github.com/ginjaninja78/cameo-to-csv/pkg/utils"
	"go.uber.org/zap"
)

// maxLineSize bounds a single line of the listing.
const maxLineSize = 1 << 20

// utf8BOM is stripped from the start of the first line.
const utf8BOM = "\uFEFF"

// =============================================================================
// LOADING
// =============================================================================

// Load opens the listing described by cfg.
//
// PARAMETERS:
//   - ctx: Cancels the HTTP fallback.
//   - cfg: The source settings.
//   - logger: Receives the chosen origin.
//
// RETURNS:
//   - A LineReader positioned before the first line. The caller must Close it.
//   - An error wrapping converter.ErrSourceUnavailable.
func Load(ctx context.Context, cfg config.SourceConfig, logger *zap.Logger) (*LineReader, error) {
	file, err := os.Open(cfg.File)
	if err == nil {
		logger.Debug("using local listing", zap.String("path", cfg.File))
		return NewLineReader(file, cfg.File), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: open %s: %w", converter.ErrSourceUnavailable, cfg.File, err)
	}

	logger.Info("local listing not found, downloading",
		zap.String("path", cfg.File),
		zap.String("url", cfg.URL))

	body, err := fetch(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", converter.ErrSourceUnavailable, err)
	}

	if !cfg.CacheDownload {
		return NewLineReader(body, cfg.URL), nil
	}

	defer body.Close()
	if err := utils.WriteFileAtomic(cfg.File, body); err != nil {
		return nil, fmt.Errorf("%w: cache download: %w", converter.ErrSourceUnavailable, err)
	}
	logger.Info("cached downloaded listing", zap.String("path", cfg.File))

	file, err = os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("%w: open cached listing: %w", converter.ErrSourceUnavailable, err)
	}
	return NewLineReader(file, cfg.File), nil
}

// fetch performs the GET request and returns the response body.
func fetch(ctx context.Context, cfg config.SourceConfig) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", cfg.URL, err)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cfg.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", cfg.URL, resp.Status)
	}

	return resp.Body, nil
}

// =============================================================================
// LINE READER
// =============================================================================

// LineReader streams lines from a listing.
//
// USAGE:
//   lines, err := source.Load(ctx, cfg.Source, logger)
//   if err != nil {
//       return err
//   }
//   defer lines.Close()
//
//   for lines.Next() {
//       line := lines.Line()
//       // Process the line...
//   }
//
//   if err := lines.Err(); err != nil {
//       return err
//   }
type LineReader struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
	origin  string
	line    string
	count   int
}

// NewLineReader wraps rc. Lines end at "\n", "\r" or "\r\n"; the terminator
// is not part of the line.
func NewLineReader(rc io.ReadCloser, origin string) *LineReader {
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLines)

	return &LineReader{
		rc:      rc,
		scanner: scanner,
		origin:  origin,
	}
}

// Next advances to the next line. It returns false at the end of input or on
// a read error.
func (r *LineReader) Next() bool {
	if !r.scanner.Scan() {
		return false
	}

	r.line = r.scanner.Text()
	if r.count == 0 {
		r.line = strings.TrimPrefix(r.line, utf8BOM)
	}
	r.count++

	return true
}

// Line returns the current line.
func (r *LineReader) Line() string {
	return r.line
}

// Err returns the first read error, if any.
func (r *LineReader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", r.origin, err)
	}
	return nil
}

// Origin returns the file path or URL the lines come from.
func (r *LineReader) Origin() string {
	return r.origin
}

// Close releases the underlying file or response body.
func (r *LineReader) Close() error {
	return r.rc.Close()
}

// scanLines is a bufio.SplitFunc that accepts "\n", "\r" and "\r\n" as line
// terminators.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if !atEOF {
			// Need one more byte to tell "\r" from "\r\n".
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
