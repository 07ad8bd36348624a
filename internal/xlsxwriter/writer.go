// =============================================================================
// CAMEO to CSV Converter - XLSX Writer
// =============================================================================
//
// This module writes converted rows into an Excel workbook as an alternative
// to CSV. The workbook has a single sheet:
//
//   | Column A  | Column B  | Column C  | Column D                    |
//   |-----------|-----------|-----------|-----------------------------|
//   | tier1code | tier2code | tier3code | description                 |
//   | 01        |           |           | make public statement       |
//   | 03        | 1         | 1         | express intent to cooperate |
//
// All cells are strings so codes keep their leading zeros. Absent tiers are
// left as empty cells.
//
// Rows go through excelize's StreamWriter, which keeps memory flat for
// large listings. The finished workbook is written to the io.Writer on Flush.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/cameo-to-csv/internal/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the only sheet in the workbook.
const SheetName = "cameo"

// descriptionWidth is the width of column D in characters.
const descriptionWidth = 60

// =============================================================================
// WRITER
// =============================================================================

// Writer streams rows into a workbook.
type Writer struct {
	out    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// New creates a Writer that will write the workbook to out on Flush.
//
// RETURNS:
//   - The Writer.
//   - An error if the workbook or its stream cannot be set up.
func New(out io.Writer) (*Writer, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	stream, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open stream writer: %w", err)
	}

	// Column widths must be set before the first row is written.
	if err := stream.SetColWidth(len(types.Header), len(types.Header), descriptionWidth); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	return &Writer{
		out:    out,
		file:   f,
		stream: stream,
	}, nil
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	cells := make([]interface{}, len(types.Header))
	for i, h := range types.Header {
		cells[i] = h
	}
	return w.writeCells(cells)
}

// WriteRow writes one data row.
func (w *Writer) WriteRow(row types.Row) error {
	values, present := row.Fields()

	cells := make([]interface{}, len(values))
	for i, value := range values {
		if present[i] {
			cells[i] = types.TrimField(value)
		}
	}

	return w.writeCells(cells)
}

// Flush finishes the sheet, writes the workbook and releases it.
// The Writer cannot be used afterwards.
func (w *Writer) Flush() error {
	defer w.file.Close()

	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("failed to finish sheet: %w", err)
	}
	if err := w.file.Write(w.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// writeCells appends one row of cells. Nil cells are left empty.
func (w *Writer) writeCells(cells []interface{}) error {
	w.row++

	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.stream.SetRow(cell, cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.row, err)
	}

	return nil
}
