package storage

// csv.go — salida en disco compatible con el análisis offline:
//
//	{dir}/trade_sequences/{YYYY-MM-DD}_trades.csv  secuencia de cada día (solo si tiene trades)
//	{dir}/daily_results_summary.csv                 una fila por día procesado

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/gocarina/gocsv"
)

const (
	sequencesDir = "trade_sequences"
	summaryFile  = "daily_results_summary.csv"
	timeLayout   = "2006-01-02 15:04:05"
)

type tradeRow struct {
	TradeNum     int     `csv:"trade_num"`
	Ticker       string  `csv:"ticker"`
	Type         string  `csv:"type"`
	EntryTime    string  `csv:"entry_time"`
	ExitTime     string  `csv:"exit_time"`
	EntryPrice   float64 `csv:"entry_price"`
	ExitPrice    float64 `csv:"exit_price"`
	Quantity     float64 `csv:"quantity"`
	Profit       float64 `csv:"profit"`
	BalanceAfter float64 `csv:"balance_after"`
}

type summaryRow struct {
	Date           string  `csv:"date"`
	InitialBalance float64 `csv:"initial_balance"`
	FinalBalance   float64 `csv:"final_balance"`
	ProfitLoss     float64 `csv:"profit_loss"`
	ProfitPct      float64 `csv:"profit_pct"`
	TotalTrades    int     `csv:"total_trades"`
	AchievedTarget bool    `csv:"achieved_1m_target"`
}

// CSVStore implementa ports.ResultStore y ports.SummaryReader sobre el directorio de resultados.
type CSVStore struct {
	dir string
}

// NewCSVStore crea el directorio de resultados si no existe.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, sequencesDir), 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewCSVStore: mkdir %q: %w", dir, err)
	}
	return &CSVStore{dir: dir}, nil
}

// SequencePath devuelve la ruta del CSV de la secuencia de un día.
func (s *CSVStore) SequencePath(date time.Time) string {
	return filepath.Join(s.dir, sequencesDir, date.Format(domain.DateLayout)+"_trades.csv")
}

// SummaryPath devuelve la ruta del CSV de resumen.
func (s *CSVStore) SummaryPath() string {
	return filepath.Join(s.dir, summaryFile)
}

// SaveDay escribe la secuencia del día. Un día sin trades no genera archivo.
func (s *CSVStore) SaveDay(_ context.Context, result domain.DayResult, trades []domain.FormattedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	rows := make([]*tradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, &tradeRow{
			TradeNum:     t.TradeNum,
			Ticker:       t.Ticker,
			Type:         t.Type,
			EntryTime:    t.EntryTime.UTC().Format(timeLayout),
			ExitTime:     t.ExitTime.UTC().Format(timeLayout),
			EntryPrice:   t.EntryPrice,
			ExitPrice:    t.ExitPrice,
			Quantity:     t.Quantity,
			Profit:       t.Profit,
			BalanceAfter: t.BalanceAfter,
		})
	}

	if err := writeRows(s.SequencePath(result.Date), &rows); err != nil {
		return fmt.Errorf("storage.CSVStore.SaveDay %s: %w", result.Date.Format(domain.DateLayout), err)
	}
	return nil
}

// SaveSummary reescribe el CSV de resumen. Sin días no se escribe nada.
func (s *CSVStore) SaveSummary(_ context.Context, dailies []domain.DailySummary) error {
	if len(dailies) == 0 {
		return nil
	}

	rows := make([]*summaryRow, 0, len(dailies))
	for _, d := range dailies {
		rows = append(rows, &summaryRow{
			Date:           d.Date.Format(domain.DateLayout),
			InitialBalance: d.InitialBalance,
			FinalBalance:   d.FinalBalance,
			ProfitLoss:     d.ProfitLoss,
			ProfitPct:      d.ProfitPct,
			TotalTrades:    d.TotalTrades,
			AchievedTarget: d.AchievedTarget,
		})
	}

	if err := writeRows(s.SummaryPath(), &rows); err != nil {
		return fmt.Errorf("storage.CSVStore.SaveSummary: %w", err)
	}
	return nil
}

// GetDailies lee el CSV de resumen y filtra por [from, to]. Fechas cero no filtran.
func (s *CSVStore) GetDailies(_ context.Context, from, to time.Time) ([]domain.DailySummary, error) {
	all, err := ReadSummary(s.SummaryPath())
	if err != nil {
		return nil, fmt.Errorf("storage.CSVStore.GetDailies: %w", err)
	}

	var out []domain.DailySummary
	for _, d := range all {
		if !from.IsZero() && d.Date.Before(from) {
			continue
		}
		if !to.IsZero() && d.Date.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ReadSummary lee un daily_results_summary.csv y devuelve las filas ordenadas por fecha.
func ReadSummary(path string) ([]domain.DailySummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open summary %q: %w", path, err)
	}
	defer f.Close()

	var rows []*summaryRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse summary %q: %w", path, err)
	}

	out := make([]domain.DailySummary, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse(domain.DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse summary date %q: %w", r.Date, err)
		}
		out = append(out, domain.DailySummary{
			Date:           date,
			InitialBalance: r.InitialBalance,
			FinalBalance:   r.FinalBalance,
			ProfitLoss:     r.ProfitLoss,
			ProfitPct:      r.ProfitPct,
			TotalTrades:    r.TotalTrades,
			AchievedTarget: r.AchievedTarget,
		})
	}
	slices.SortStableFunc(out, func(a, b domain.DailySummary) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

func writeRows(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	return f.Close()
}
