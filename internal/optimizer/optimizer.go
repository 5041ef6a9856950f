package optimizer

// optimizer.go — cota superior de un día de trading con conocimiento perfecto del futuro.
//
// Pipeline: BuildTimeline → EnumerateTrades → Schedule.
//   - Tiempo: O(N²·M) para enumerar (N = minutos, M = tickers), O(T) para la DP.
//   - Memoria: O(N + T), T = trades rentables enumerados.
//
// No hay estado compartido entre días: cada llamada construye y descarta su tabla,
// así que el runner puede optimizar varios días en paralelo.

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
)

// DP implementa ports.DayOptimizer con la programación dinámica exacta.
type DP struct{}

// New crea el optimizador DP.
func New() *DP {
	return &DP{}
}

// Optimize calcula la secuencia no solapada de trades que maximiza el balance del día.
// El objetivo (target) no altera la optimización: solo se compara con el resultado.
func (o *DP) Optimize(date time.Time, day domain.DayData, initialBalance, target float64) (domain.DayResult, error) {
	result := domain.DayResult{
		Date:           date,
		InitialBalance: initialBalance,
		FinalBalance:   initialBalance,
		Multiplier:     1.0,
		TargetBalance:  target,
	}

	tl, err := BuildTimeline(day)
	if err != nil {
		return domain.DayResult{}, fmt.Errorf("optimizer.Optimize %s: %w", date.Format(domain.DateLayout), err)
	}
	if tl.Len() == 0 {
		// Sin eventos no hay oportunidad; tampoco se considera alcanzado el objetivo.
		return result, nil
	}

	started := time.Now()
	candidates := EnumerateTrades(tl)
	plan := Schedule(tl.Len(), candidates)

	result.Events = tl.Len()
	result.Candidates = candidates.Count
	result.Multiplier = plan.Multiplier()
	result.FinalBalance = initialBalance * result.Multiplier
	result.AchievedTarget = result.FinalBalance >= target
	result.Trades = plan.Sequence

	slog.Debug("day optimized",
		"date", date.Format(domain.DateLayout),
		"instruments", len(tl.Instruments),
		"events", result.Events,
		"candidates", result.Candidates,
		"trades", len(result.Trades),
		"multiplier", result.Multiplier,
		"elapsed", time.Since(started),
	)

	return result, nil
}
