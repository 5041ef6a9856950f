package binance

// download.go — descarga de klines diarios de Binance Futures (UM).
//
// Cada archivo remoto es {symbol}-{interval}-{YYYY-MM-DD}.zip con un único CSV dentro,
// que se extrae en {DataDir}/{symbol}/. Los días que faltan en el servidor (404)
// no son error: se registran como "missing" y el backtest los saltará.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/klauspost/compress/zip"
)

// DownloadStats cuenta el resultado de una descarga por rango.
type DownloadStats struct {
	Downloaded int
	Missing    int
	Failed     int
}

// Total devuelve el número de archivos intentados.
func (s DownloadStats) Total() int {
	return s.Downloaded + s.Missing + s.Failed
}

// FileName devuelve el nombre del archivo remoto de un símbolo y día.
func FileName(symbol, interval string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s.zip", symbol, interval, date.Format(domain.DateLayout))
}

// DownloadDay descarga y extrae el archivo de un símbolo y día.
// Devuelve false, nil si el servidor no tiene ese día.
func (c *Client) DownloadDay(ctx context.Context, symbol string, date time.Time) (bool, error) {
	name := FileName(symbol, c.cfg.Interval, date)
	url := fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(c.cfg.BaseURL, "/"), symbol, c.cfg.Interval, name)

	body, err := c.get(ctx, url)
	if errors.Is(err, errNotFound) {
		slog.Info("missing remote file", "file", name)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("binance.DownloadDay %s: %w", name, err)
	}

	dir := filepath.Join(c.cfg.DataDir, symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("binance.DownloadDay: mkdir %q: %w", dir, err)
	}
	if err := extract(body, dir); err != nil {
		return false, fmt.Errorf("binance.DownloadDay %s: %w", name, err)
	}
	return true, nil
}

// DownloadRange descarga todos los símbolos para cada día del rango [from, to].
// Los fallos se registran y se cuentan; solo la cancelación del contexto corta el bucle.
func (c *Client) DownloadRange(ctx context.Context, symbols []string, from, to time.Time) (DownloadStats, error) {
	var stats DownloadStats
	total := len(symbols) * (int(to.Sub(from).Hours()/24) + 1)

	for _, symbol := range symbols {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			ok, err := c.DownloadDay(ctx, symbol, d)
			switch {
			case err != nil:
				stats.Failed++
				slog.Warn("download failed", "symbol", symbol, "date", d.Format(domain.DateLayout), "err", err)
			case ok:
				stats.Downloaded++
			default:
				stats.Missing++
			}

			slog.Debug("download progress",
				"n", fmt.Sprintf("%d/%d", stats.Total(), total),
				"symbol", symbol,
				"date", d.Format(domain.DateLayout),
			)
		}
	}
	return stats, nil
}

// extract descomprime el zip en dir. Solo se usan nombres base para no escribir fuera de dir.
func extract(data []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(f, filepath.Join(dir, filepath.Base(f.Name))); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write %q: %w", dest, err)
	}
	return out.Close()
}
