package klines

// loader.go — lee los CSV de klines descargados ({dataDir}/{symbol}/{symbol}-1m-{fecha}.csv).
//
// Un archivo ilegible no tumba el día: se avisa y ese símbolo no participa.
// Un día sin ningún archivo devuelve un DayData vacío y el runner lo salta.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/gocarina/gocsv"
)

const defaultInterval = "1m"

// klineRow es una fila del CSV de klines de Binance. Las columnas que no
// aparecen aquí (close_time, quote_volume, count...) se ignoran.
type klineRow struct {
	OpenTime int64   `csv:"open_time"`
	Open     float64 `csv:"open"`
	High     float64 `csv:"high"`
	Low      float64 `csv:"low"`
	Close    float64 `csv:"close"`
	Volume   float64 `csv:"volume"`
}

// Loader implementa ports.PriceSource sobre el directorio de datos local.
type Loader struct {
	dataDir  string
	interval string
}

// NewLoader crea un Loader para dataDir. interval vacío usa "1m".
func NewLoader(dataDir, interval string) *Loader {
	if interval == "" {
		interval = defaultInterval
	}
	return &Loader{dataDir: dataDir, interval: interval}
}

// LoadDay lee el CSV del día de cada símbolo (cada subdirectorio del directorio de datos).
func (l *Loader) LoadDay(ctx context.Context, date time.Time) (domain.DayData, error) {
	symbols, err := l.symbols()
	if err != nil {
		return nil, fmt.Errorf("klines.LoadDay: %w", err)
	}

	day := make(domain.DayData)
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := fmt.Sprintf("%s-%s-%s.csv", symbol, l.interval, date.Format(domain.DateLayout))
		path := filepath.Join(l.dataDir, symbol, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		bars, err := readBars(path)
		if err != nil {
			slog.Warn("error loading klines file", "file", path, "err", err)
			continue
		}
		day[symbol] = bars
	}
	return day, nil
}

// LoadAll concatena todos los CSV de cada símbolo en una sola serie ordenada por tiempo.
func (l *Loader) LoadAll(ctx context.Context) (domain.DayData, error) {
	if _, err := os.Stat(l.dataDir); err != nil {
		return nil, fmt.Errorf("klines.LoadAll: data directory %q does not exist: %w", l.dataDir, err)
	}
	symbols, err := l.symbols()
	if err != nil {
		return nil, fmt.Errorf("klines.LoadAll: %w", err)
	}

	all := make(domain.DayData)
	for _, symbol := range symbols {
		files, err := filepath.Glob(filepath.Join(l.dataDir, symbol, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("klines.LoadAll: glob %s: %w", symbol, err)
		}
		if len(files) == 0 {
			slog.Warn("no CSV files found", "symbol", symbol)
			continue
		}
		slices.Sort(files)

		var bars []domain.Bar
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			b, err := readBars(f)
			if err != nil {
				slog.Warn("error reading klines file", "file", f, "err", err)
				continue
			}
			bars = append(bars, b...)
		}
		if len(bars) == 0 {
			slog.Warn("no valid data loaded", "symbol", symbol)
			continue
		}

		slices.SortStableFunc(bars, func(a, b domain.Bar) int {
			return a.OpenTime.Compare(b.OpenTime)
		})
		all[symbol] = bars
		slog.Info("loaded klines", "symbol", symbol, "rows", len(bars))
	}
	return all, nil
}

// symbols devuelve los subdirectorios del directorio de datos, en orden alfabético.
func (l *Loader) symbols() ([]string, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %q: %w", l.dataDir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func readBars(path string) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []*klineRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	bars := make([]domain.Bar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, domain.Bar{
			OpenTime: parseOpenTime(r.OpenTime),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			Volume:   r.Volume,
		})
	}
	return bars, nil
}

// parseOpenTime interpreta open_time por magnitud: Binance usa milisegundos
// en futuros y microsegundos en spot desde 2025.
func parseOpenTime(v int64) time.Time {
	switch {
	case v > 1e14:
		return time.UnixMicro(v).UTC()
	case v > 1e11:
		return time.UnixMilli(v).UTC()
	default:
		return time.Unix(v, 0).UTC()
	}
}
