package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ginjaninja78/cameo-to-csv/internal/config"
	"github.com/ginjaninja78/cameo-to-csv/internal/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listing = "CAMEOEVENTCODE\tEVENTDESCRIPTION\n01\tMAKE PUBLIC STATEMENT\n010\tMake statement, not specified below\n"

func readAll(t *testing.T, r *LineReader) []string {
	t.Helper()
	var lines []string
	for r.Next() {
		lines = append(lines, r.Line())
	}
	require.NoError(t, r.Err())
	return lines
}

func sourceConfig(dir, url string) config.SourceConfig {
	return config.SourceConfig{
		File:    filepath.Join(dir, "cameocodes.txt"),
		URL:     url,
		Timeout: 5 * time.Second,
	}
}

func TestLineReader_Terminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lf", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr", "a\rb\rc", []string{"a", "b", "c"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb\n", []string{"a", "", "", "b"}},
		{"trailing cr at eof", "a\r", []string{"a"}},
		{"bom stripped", "\uFEFF01\tX\n\uFEFF02\tY\n", []string{"01\tX", "\uFEFF02\tY"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(io.NopCloser(strings.NewReader(tt.input)), "test")
			assert.Equal(t, tt.want, readAll(t, r))
		})
	}
}

func TestLineReader_LineTooLong(t *testing.T) {
	r := NewLineReader(io.NopCloser(strings.NewReader(strings.Repeat("9", maxLineSize+1))), "huge")

	assert.False(t, r.Next())
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "read huge")
}

func TestLoad_PrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	cfg := sourceConfig(dir, srv.URL)
	require.NoError(t, os.WriteFile(cfg.File, []byte(listing), 0o644))

	r, err := Load(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, cfg.File, r.Origin())
	assert.Len(t, readAll(t, r), 3)
	assert.Zero(t, hits.Load())
}

func TestLoad_FallsBackToHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		io.WriteString(w, listing)
	}))
	defer srv.Close()

	cfg := sourceConfig(t.TempDir(), srv.URL+"/CAMEO.eventcodes.txt")

	r, err := Load(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, cfg.URL, r.Origin())
	assert.Equal(t, []string{
		"CAMEOEVENTCODE\tEVENTDESCRIPTION",
		"01\tMAKE PUBLIC STATEMENT",
		"010\tMake statement, not specified below",
	}, readAll(t, r))
	assert.NoFileExists(t, cfg.File)
}

func TestLoad_CachesDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listing)
	}))
	defer srv.Close()

	cfg := sourceConfig(t.TempDir(), srv.URL)
	cfg.CacheDownload = true

	r, err := Load(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, cfg.File, r.Origin())
	assert.Len(t, readAll(t, r), 3)

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, listing, string(data))
}

func TestLoad_Unavailable(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"http 404", notFound.URL},
		{"connection refused", closedURL},
		{"malformed url", "http://bad host/\x7f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), sourceConfig(t.TempDir(), tt.url), zap.NewNop())
			require.Error(t, err)
			assert.ErrorIs(t, err, converter.ErrSourceUnavailable)
		})
	}
}

func TestLoad_LocalPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := sourceConfig(dir, "http://127.0.0.1:1/")
	cfg.File = dir

	r, err := Load(context.Background(), cfg, zap.NewNop())
	if err == nil {
		// Opening a directory succeeds on some platforms; reading it fails.
		defer r.Close()
		assert.False(t, r.Next())
		assert.Error(t, r.Err())
		return
	}
	assert.ErrorIs(t, err, converter.ErrSourceUnavailable)
}
