package binance_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/hindsight/internal/adapters/binance"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const klinesCSV = `open_time,open,high,low,close,volume,close_time,quote_volume,count,taker_buy_volume,taker_buy_quote_volume,ignore
1764547200000,91000.0,91010.0,90990.0,91005.5,12.3,1764547259999,1119000.1,321,6.1,555000.2,0
`

func zipped(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestClient(srv *httptest.Server, dir string) *binance.Client {
	return binance.NewClient(binance.Config{
		BaseURL:    srv.URL,
		DataDir:    dir,
		RatePerSec: 1000,
		RetryWait:  time.Millisecond,
	})
}

var dec1 = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

func TestDownloadDay_ExtractsZip(t *testing.T) {
	payload := zipped(t, "BTCUSDT-1m-2025-12-01.csv", klinesCSV)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/BTCUSDT/1m/BTCUSDT-1m-2025-12-01.zip", r.URL.Path)
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	ok, err := newTestClient(srv, dir).DownloadDay(context.Background(), "BTCUSDT", dec1)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(dir, "BTCUSDT", "BTCUSDT-1m-2025-12-01.csv"))
	require.NoError(t, err)
	assert.Equal(t, klinesCSV, string(data))
}

func TestDownloadDay_MissingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ok, err := newTestClient(srv, t.TempDir()).DownloadDay(context.Background(), "BTCUSDT", dec1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDownloadDay_RetriesServerErrors(t *testing.T) {
	payload := zipped(t, "BTCUSDT-1m-2025-12-01.csv", klinesCSV)
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	ok, err := newTestClient(srv, t.TempDir()).DownloadDay(context.Background(), "BTCUSDT", dec1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownloadDay_PersistentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, t.TempDir()).DownloadDay(context.Background(), "BTCUSDT", dec1)
	assert.Error(t, err)
}

func TestDownloadDay_CorruptZip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a zip"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, t.TempDir()).DownloadDay(context.Background(), "BTCUSDT", dec1)
	assert.Error(t, err)
}

func TestDownloadRange_CountsOutcomes(t *testing.T) {
	payload := zipped(t, "x.csv", klinesCSV)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch filepath.Base(r.URL.Path) {
		case "BTCUSDT-1m-2025-12-02.zip":
			w.WriteHeader(http.StatusNotFound)
		case "ETHUSDT-1m-2025-12-01.zip":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.Write(payload)
		}
	}))
	defer srv.Close()

	stats, err := newTestClient(srv, t.TempDir()).DownloadRange(context.Background(),
		[]string{"BTCUSDT", "ETHUSDT"}, dec1, dec1.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Downloaded)
	assert.Equal(t, 1, stats.Missing)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 4, stats.Total())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ETHUSDT-1m-2025-12-31.zip",
		binance.FileName("ETHUSDT", "1m", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}
