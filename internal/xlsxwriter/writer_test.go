package xlsxwriter

import (
	"bytes"
	"testing"

	"github.com/ginjaninja78/cameo-to-csv/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriter_Workbook(t *testing.T) {
	var buf bytes.Buffer

	w, err := New(&buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRow(types.NewRow([]string{"01"}, " make public statement ")))
	require.NoError(t, w.WriteRow(types.NewRow([]string{"03", "1", "1"}, "express intent to cooperate economically")))
	require.NoError(t, w.Flush())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, types.Header, rows[0])
	assert.Equal(t, []string{"01", "", "", "make public statement"}, rows[1])
	assert.Equal(t, []string{"03", "1", "1", "express intent to cooperate economically"}, rows[2])
}

func TestWriter_LeadingZerosKept(t *testing.T) {
	var buf bytes.Buffer

	w, err := New(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(types.NewRow([]string{"01", "0"}, "make statement")))
	require.NoError(t, w.Flush())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "01", value)

	value, err = f.GetCellValue(SheetName, "B1")
	require.NoError(t, err)
	assert.Equal(t, "0", value)
}
