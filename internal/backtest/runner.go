package backtest

// runner.go — recorre el rango de fechas y optimiza cada día.
//
// Los días son independientes (cada uno arranca con el balance inicial), así que se
// optimizan en paralelo con un errgroup limitado a Workers. El reporte y la
// persistencia se hacen después, en orden de fecha, para que la salida sea estable.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/alejandrodnm/hindsight/internal/optimizer"
	"github.com/alejandrodnm/hindsight/internal/ports"
	"golang.org/x/sync/errgroup"
)

// ErrVerification se devuelve cuando la simulación de cartera no reproduce el balance de la DP.
var ErrVerification = errors.New("simulated balance disagrees with optimizer")

// defaultWorkers es conservador: cada día en vuelo retiene O(N²·M) trades candidatos.
const defaultWorkers = 2

// Config contiene los parámetros del backtest.
type Config struct {
	InitialBalance float64
	TargetBalance  float64
	Workers        int  // días optimizados en paralelo (0 = defaultWorkers)
	Verify         bool // contrastar cada día con optimizer.Simulate
}

// Runner orquesta carga → optimización → persistencia → reporte.
type Runner struct {
	cfg       Config
	prices    ports.PriceSource
	optimizer ports.DayOptimizer
	stores    []ports.ResultStore
	reporter  ports.Reporter
}

// New crea un Runner. stores puede estar vacío.
func New(
	cfg Config,
	prices ports.PriceSource,
	opt ports.DayOptimizer,
	reporter ports.Reporter,
	stores ...ports.ResultStore,
) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Runner{
		cfg:       cfg,
		prices:    prices,
		optimizer: opt,
		stores:    stores,
		reporter:  reporter,
	}
}

// dayOutcome es el resultado de un día antes de reportarlo.
type dayOutcome struct {
	date   time.Time
	noData bool
	result domain.DayResult
}

// Run procesa cada día de [from, to] y devuelve los resúmenes de los días con datos,
// en orden de fecha. Un día con datos malformados o que no supera la verificación
// aborta la ejecución; los días sin datos se reportan y se saltan.
func (r *Runner) Run(ctx context.Context, from, to time.Time) ([]domain.DailySummary, error) {
	dates := DateRange(from, to)
	outcomes := make([]dayOutcome, len(dates))

	slog.Info("backtest starting",
		"from", from.Format(domain.DateLayout),
		"to", to.Format(domain.DateLayout),
		"days", len(dates),
		"workers", r.cfg.Workers,
		"verify", r.cfg.Verify,
	)
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for i, date := range dates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := r.runDay(gctx, date)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("backtest.Run: %w", err)
	}

	dailies := make([]domain.DailySummary, 0, len(outcomes))
	for _, out := range outcomes {
		if out.noData {
			r.reporter.NoData(out.date)
			continue
		}
		trades := domain.FormatSequence(out.result.Trades, out.result.InitialBalance)
		r.save(ctx, out.result, trades)
		r.reporter.DayResult(out.result, trades)
		dailies = append(dailies, out.result.Summary())
	}

	if len(dailies) > 0 {
		for _, s := range r.stores {
			if err := s.SaveSummary(ctx, dailies); err != nil {
				slog.Warn("storage error", "op", "save_summary", "err", err)
			}
		}
	}
	r.reporter.FinalSummary(dailies, r.cfg.TargetBalance)

	slog.Info("backtest complete",
		"days_with_data", len(dailies),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return dailies, nil
}

// runDay carga y optimiza un día. Un fallo al cargar se trata como día sin datos.
func (r *Runner) runDay(ctx context.Context, date time.Time) (dayOutcome, error) {
	out := dayOutcome{date: date}

	day, err := r.prices.LoadDay(ctx, date)
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		slog.Warn("load day failed", "date", date.Format(domain.DateLayout), "err", err)
		out.noData = true
		return out, nil
	}
	if day.Instruments() == 0 {
		out.noData = true
		return out, nil
	}

	result, err := r.optimizer.Optimize(date, day, r.cfg.InitialBalance, r.cfg.TargetBalance)
	if err != nil {
		return out, fmt.Errorf("backtest.runDay: %w", err)
	}

	if r.cfg.Verify {
		ok, simulated := optimizer.Agrees(result)
		if !ok {
			slog.Warn("verification failed",
				"date", date.Format(domain.DateLayout),
				"dp_balance", result.FinalBalance,
				"simulated", simulated.StringFixed(2),
			)
			return out, fmt.Errorf("backtest.runDay %s: %w (dp=%.2f simulated=%s)",
				date.Format(domain.DateLayout), ErrVerification, result.FinalBalance, simulated.StringFixed(2))
		}
	}

	out.result = result
	return out, nil
}

// save persiste el día en todos los stores; los errores de storage no abortan el backtest.
func (r *Runner) save(ctx context.Context, result domain.DayResult, trades []domain.FormattedTrade) {
	for _, s := range r.stores {
		if err := s.SaveDay(ctx, result, trades); err != nil {
			slog.Warn("storage error",
				"op", "save_day",
				"date", result.Date.Format(domain.DateLayout),
				"err", err,
			)
		}
	}
}

// DateRange devuelve los días de [from, to] ambos incluidos, a medianoche UTC.
func DateRange(from, to time.Time) []time.Time {
	from = truncateDay(from)
	to = truncateDay(to)

	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
