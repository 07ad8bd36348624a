// =============================================================================
// CAMEO to CSV Converter - CSV Writer Module
// =============================================================================
//
// This module writes converted rows as CSV. The output layout is:
//
//   "tier1code","tier2code","tier3code","description"<CR><LF>
//   "01",,,"make public statement"<CR><LF>
//   "01","0",,"make statement, not specified below"<CR><LF>
//   "03","1","1","express intent to cooperate economically"<CR><LF>
//
// RULES:
//   - Every present value is quoted, whether or not it needs it
//   - Embedded quote characters are doubled
//   - Leading and trailing control/space characters are trimmed per value
//   - A tier the code was too short to fill is written as an empty,
//     unquoted field
//
// encoding/csv only quotes fields that need it and cannot tell an absent
// value from an empty one, so this writer emits the records itself.
//
// =============================================================================

package csvwriter

import (
	"bufio"
	"io"
	"strings"

	"github.com/ginjaninja78/cameo-to-csv/internal/types"
)

// =============================================================================
// WRITER OPTIONS
// =============================================================================

// Options controls the CSV dialect.
type Options struct {
	// Delimiter separates fields.
	// Default: ','
	Delimiter rune

	// Quote wraps every present value.
	// Default: '"'
	Quote rune

	// RecordSeparator ends every record, including the last.
	// Default: "\r\n"
	RecordSeparator string

	// Trim strips characters at or below U+0020 from both ends of each value.
	// Default: true
	Trim bool
}

// DefaultOptions returns the dialect used for CAMEO output.
func DefaultOptions() Options {
	return Options{
		Delimiter:       ',',
		Quote:           '"',
		RecordSeparator: "\r\n",
		Trim:            true,
	}
}

// =============================================================================
// WRITER
// =============================================================================

// Writer writes rows to an io.Writer. Output is buffered until Flush.
// The first write error is kept and returned by every later call.
type Writer struct {
	w       *bufio.Writer
	options Options
	err     error
}

// New creates a Writer with the default options.
func New(w io.Writer) *Writer {
	return NewWithOptions(w, DefaultOptions())
}

// NewWithOptions creates a Writer with a custom dialect.
func NewWithOptions(w io.Writer, options Options) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		options: options,
	}
}

// WriteHeader writes the header record.
func (w *Writer) WriteHeader() error {
	present := make([]bool, len(types.Header))
	for i := range present {
		present[i] = true
	}
	return w.writeRecord(types.Header, present)
}

// WriteRow writes one data record.
func (w *Writer) WriteRow(row types.Row) error {
	values, present := row.Fields()
	return w.writeRecord(values, present)
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// writeRecord writes a record field by field.
func (w *Writer) writeRecord(values []string, present []bool) error {
	if w.err != nil {
		return w.err
	}

	for i, value := range values {
		if i > 0 {
			w.writeRune(w.options.Delimiter)
		}
		if !present[i] {
			continue
		}
		if w.options.Trim {
			value = types.TrimField(value)
		}
		w.writeQuoted(value)
	}
	w.writeString(w.options.RecordSeparator)

	return w.err
}

// writeQuoted writes value between quote characters, doubling any quote
// character inside it.
func (w *Writer) writeQuoted(value string) {
	quote := string(w.options.Quote)
	w.writeString(quote)
	w.writeString(strings.ReplaceAll(value, quote, quote+quote))
	w.writeString(quote)
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

func (w *Writer) writeRune(r rune) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteRune(r)
}
