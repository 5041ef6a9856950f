package storage

// sqlite.go — histórico de ejecuciones del backtest.
//
// Estrategia:
//   - `runs`: una fila por ejecución (uuid), con parámetros y rango de fechas.
//   - `days`: resumen por (run, fecha). Re-ejecutar un día en el mismo run lo sobreescribe.
//   - `day_trades`: la secuencia óptima formateada de cada día.
//   - El roll-up de compounding lee los días del último run.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    started_at      DATETIME NOT NULL,
    from_date       TEXT     NOT NULL,
    to_date         TEXT     NOT NULL,
    initial_balance REAL     NOT NULL,
    target_balance  REAL     NOT NULL
);

CREATE TABLE IF NOT EXISTS days (
    run_id          TEXT    NOT NULL,
    date            TEXT    NOT NULL,
    initial_balance REAL    NOT NULL,
    final_balance   REAL    NOT NULL,
    profit_loss     REAL    NOT NULL,
    profit_pct      REAL    NOT NULL,
    total_trades    INTEGER NOT NULL,
    achieved_target INTEGER NOT NULL DEFAULT 0,
    events          INTEGER NOT NULL DEFAULT 0,
    candidates      INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, date)
);

CREATE TABLE IF NOT EXISTS day_trades (
    run_id        TEXT    NOT NULL,
    date          TEXT    NOT NULL,
    trade_num     INTEGER NOT NULL,
    ticker        TEXT    NOT NULL,
    type          TEXT    NOT NULL,
    entry_time    DATETIME NOT NULL,
    exit_time     DATETIME NOT NULL,
    entry_price   REAL    NOT NULL,
    exit_price    REAL    NOT NULL,
    quantity      REAL    NOT NULL,
    profit        REAL    NOT NULL,
    balance_after REAL    NOT NULL,
    PRIMARY KEY (run_id, date, trade_num)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`

// Run describe una ejecución del backtest.
type Run struct {
	ID             string
	StartedAt      time.Time
	From, To       time.Time
	InitialBalance float64
	TargetBalance  float64
}

// SQLiteStore implementa ports.ResultStore y ports.SummaryReader usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db    *sql.DB
	runID string
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// BeginRun registra la ejecución; los SaveDay siguientes se asocian a ella.
func (s *SQLiteStore) BeginRun(ctx context.Context, run Run) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, from_date, to_date, initial_balance, target_balance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.From.Format(domain.DateLayout), run.To.Format(domain.DateLayout),
		run.InitialBalance, run.TargetBalance,
	); err != nil {
		return fmt.Errorf("storage.BeginRun: insert run: %w", err)
	}
	s.runID = run.ID
	return nil
}

// SaveDay persiste el resumen del día y su secuencia en una transacción.
func (s *SQLiteStore) SaveDay(ctx context.Context, result domain.DayResult, trades []domain.FormattedTrade) error {
	if s.runID == "" {
		return fmt.Errorf("storage.SaveDay: no active run")
	}
	date := result.Date.Format(domain.DateLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveDay: begin tx: %w", err)
	}
	defer tx.Rollback()

	achieved := 0
	if result.AchievedTarget {
		achieved = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO days
			(run_id, date, initial_balance, final_balance, profit_loss, profit_pct,
			 total_trades, achieved_target, events, candidates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, date) DO UPDATE SET
			initial_balance = excluded.initial_balance,
			final_balance   = excluded.final_balance,
			profit_loss     = excluded.profit_loss,
			profit_pct      = excluded.profit_pct,
			total_trades    = excluded.total_trades,
			achieved_target = excluded.achieved_target,
			events          = excluded.events,
			candidates      = excluded.candidates
	`,
		s.runID, date, result.InitialBalance, result.FinalBalance, result.Profit(), result.ProfitPct(),
		len(result.Trades), achieved, result.Events, result.Candidates,
	); err != nil {
		return fmt.Errorf("storage.SaveDay: upsert day %s: %w", date, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM day_trades WHERE run_id = ? AND date = ?`, s.runID, date,
	); err != nil {
		return fmt.Errorf("storage.SaveDay: clear trades %s: %w", date, err)
	}

	if len(trades) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO day_trades
				(run_id, date, trade_num, ticker, type, entry_time, exit_time,
				 entry_price, exit_price, quantity, profit, balance_after)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("storage.SaveDay: prepare: %w", err)
		}
		defer stmt.Close()

		for _, t := range trades {
			if _, err := stmt.ExecContext(ctx,
				s.runID, date, t.TradeNum, t.Ticker, t.Type,
				t.EntryTime.UTC(), t.ExitTime.UTC(),
				t.EntryPrice, t.ExitPrice, t.Quantity, t.Profit, t.BalanceAfter,
			); err != nil {
				return fmt.Errorf("storage.SaveDay: insert trade %d of %s: %w", t.TradeNum, date, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveDay: commit: %w", err)
	}
	return nil
}

// SaveSummary no hace nada: en SQLite el resumen ya queda en `days` con cada SaveDay.
func (s *SQLiteStore) SaveSummary(_ context.Context, _ []domain.DailySummary) error {
	return nil
}

// LatestRun devuelve el id de la ejecución más reciente, o "" si no hay ninguna.
func (s *SQLiteStore) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage.LatestRun: %w", err)
	}
	return id, nil
}

// GetDailies devuelve los resúmenes del run activo (o del último, si no hay activo)
// con fecha en [from, to], ordenados por fecha. Fechas cero no filtran.
func (s *SQLiteStore) GetDailies(ctx context.Context, from, to time.Time) ([]domain.DailySummary, error) {
	runID := s.runID
	if runID == "" {
		id, err := s.LatestRun(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage.GetDailies: %w", err)
		}
		if id == "" {
			return nil, nil
		}
		runID = id
	}

	lo, hi := "0000-00-00", "9999-99-99"
	if !from.IsZero() {
		lo = from.Format(domain.DateLayout)
	}
	if !to.IsZero() {
		hi = to.Format(domain.DateLayout)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, initial_balance, final_balance, profit_loss, profit_pct,
		       total_trades, achieved_target
		FROM days
		WHERE run_id = ? AND date BETWEEN ? AND ?
		ORDER BY date ASC
	`, runID, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("storage.GetDailies: query: %w", err)
	}
	defer rows.Close()

	var out []domain.DailySummary
	for rows.Next() {
		var d domain.DailySummary
		var date string
		var achieved int
		if err := rows.Scan(&date, &d.InitialBalance, &d.FinalBalance, &d.ProfitLoss,
			&d.ProfitPct, &d.TotalTrades, &achieved); err != nil {
			return nil, fmt.Errorf("storage.GetDailies: scan row: %w", err)
		}
		d.Date, err = time.Parse(domain.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("storage.GetDailies: parse date %q: %w", date, err)
		}
		d.AchievedTarget = achieved == 1
		out = append(out, d)
	}
	return out, rows.Err()
}

// TradeCount devuelve cuántos trades hay persistidos para un día del run activo.
func (s *SQLiteStore) TradeCount(ctx context.Context, date time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM day_trades WHERE run_id = ? AND date = ?`,
		s.runID, date.Format(domain.DateLayout),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage.TradeCount: %w", err)
	}
	return n, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
