package converter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ginjaninja78/cameo-to-csv/internal/csvwriter"
	"github.com/ginjaninja78/cameo-to-csv/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sliceSource serves lines from memory and optionally fails at the end.
type sliceSource struct {
	lines []string
	pos   int
	err   error
}

func (s *sliceSource) Next() bool {
	if s.pos >= len(s.lines) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Line() string { return s.lines[s.pos-1] }
func (s *sliceSource) Err() error   { return s.err }

// recordingWriter keeps rows in memory and can fail on demand.
type recordingWriter struct {
	header   bool
	rows     []types.Row
	failRow  int
	flushErr error
}

func (w *recordingWriter) WriteHeader() error {
	w.header = true
	return nil
}

func (w *recordingWriter) WriteRow(row types.Row) error {
	if w.failRow > 0 && len(w.rows)+1 == w.failRow {
		return errors.New("broken pipe")
	}
	w.rows = append(w.rows, row)
	return nil
}

func (w *recordingWriter) Flush() error { return w.flushErr }

var listing = []string{
	"CAMEOEVENTCODE\tEVENTDESCRIPTION",
	"01\tMAKE PUBLIC STATEMENT",
	"010\tMake statement, not specified below",
	"",
	"0311\tExpress intent to cooperate economically",
	"-----",
	"031175 Deep Hierarchy",
}

func TestRun_CSV(t *testing.T) {
	var buf bytes.Buffer

	stats, err := Run(context.Background(), &sliceSource{lines: listing}, csvwriter.New(&buf), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, len(listing), stats.LinesRead)
	assert.Equal(t, 4, stats.RowsWritten)

	want := `"tier1code","tier2code","tier3code","description"` + "\r\n" +
		`"01",,,"make public statement"` + "\r\n" +
		`"01","0",,"make statement, not specified below"` + "\r\n" +
		`"03","1","1","express intent to cooperate economically"` + "\r\n" +
		`"03","1","1","deep hierarchy"` + "\r\n"
	assert.Equal(t, want, buf.String())
}

func TestRun_Idempotent(t *testing.T) {
	run := func() []byte {
		var buf bytes.Buffer
		_, err := Run(context.Background(), &sliceSource{lines: listing}, csvwriter.New(&buf), zap.NewNop())
		require.NoError(t, err)
		return buf.Bytes()
	}

	assert.Equal(t, run(), run())
}

func TestRun_EmptySourceWritesHeaderOnly(t *testing.T) {
	w := &recordingWriter{}

	stats, err := Run(context.Background(), &sliceSource{}, w, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, w.header)
	assert.Empty(t, w.rows)
	assert.Zero(t, stats.LinesRead)
}

func TestRun_ReadError(t *testing.T) {
	src := &sliceSource{lines: listing[:2], err: errors.New("connection reset")}
	w := &recordingWriter{}

	stats, err := Run(context.Background(), src, w, zap.NewNop())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, stats.RowsWritten)
}

func TestRun_WriteError(t *testing.T) {
	w := &recordingWriter{failRow: 2}

	stats, err := Run(context.Background(), &sliceSource{lines: listing}, w, zap.NewNop())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.Equal(t, 1, stats.RowsWritten)
	assert.Equal(t, 3, stats.LinesRead)
}

func TestRun_FlushError(t *testing.T) {
	w := &recordingWriter{flushErr: errors.New("no space left on device")}

	_, err := Run(context.Background(), &sliceSource{lines: listing}, w, zap.NewNop())

	assert.ErrorIs(t, err, ErrWriteFailure)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &recordingWriter{}

	_, err := Run(ctx, &sliceSource{lines: listing}, w, zap.NewNop())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.rows)
}
