package domain

import "time"

// DateLayout es el formato de fecha usado en nombres de archivo, CSV y SQLite.
const DateLayout = "2006-01-02"

// DayResult es el resultado del optimizador para un día de trading.
type DayResult struct {
	Date           time.Time
	InitialBalance float64
	FinalBalance   float64
	Multiplier     float64 // FinalBalance / InitialBalance
	TargetBalance  float64
	AchievedTarget bool
	Trades         []Trade // secuencia óptima, ordenada cronológicamente

	// Estadísticas del cálculo
	Events     int // N: eventos en la línea temporal global
	Candidates int // trades rentables enumerados
}

// Profit devuelve la ganancia absoluta del día.
func (r DayResult) Profit() float64 {
	return r.FinalBalance - r.InitialBalance
}

// ProfitPct devuelve la ganancia del día en porcentaje del balance inicial.
func (r DayResult) ProfitPct() float64 {
	if r.InitialBalance == 0 {
		return 0
	}
	return r.Profit() / r.InitialBalance * 100
}

// Summary resume el resultado en una fila del resumen diario.
func (r DayResult) Summary() DailySummary {
	return DailySummary{
		Date:           r.Date,
		InitialBalance: r.InitialBalance,
		FinalBalance:   r.FinalBalance,
		ProfitLoss:     r.Profit(),
		ProfitPct:      r.ProfitPct(),
		TotalTrades:    len(r.Trades),
		AchievedTarget: r.AchievedTarget,
	}
}

// DailySummary es una fila del resumen diario (daily_results_summary).
type DailySummary struct {
	Date           time.Time
	InitialBalance float64
	FinalBalance   float64
	ProfitLoss     float64
	ProfitPct      float64
	TotalTrades    int
	AchievedTarget bool
}

// DailyReturn devuelve el multiplicador del día (final / inicial).
func (s DailySummary) DailyReturn() float64 {
	if s.InitialBalance == 0 {
		return 1
	}
	return s.FinalBalance / s.InitialBalance
}
