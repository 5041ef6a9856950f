package optimizer

import (
	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// SimulationTolerance es la diferencia absoluta máxima (USD) entre el balance de
	// la DP y el de la simulación de cartera.
	SimulationTolerance = 0.01
	// simulationRelTolerance cubre el error de float64 cuando el balance crece mucho.
	simulationRelTolerance = 1e-9
)

// Simulate replica la secuencia como una cartera real: en cada trade compra (o vende
// en corto) balance/entry unidades y realiza la diferencia de precio en la salida.
// No usa Trade.Return, así que sirve para validar la DP de forma independiente.
func Simulate(trades []domain.Trade, initialBalance float64) decimal.Decimal {
	balance := decimal.NewFromFloat(initialBalance)

	for _, t := range trades {
		entry := decimal.NewFromFloat(t.EntryPrice)
		exit := decimal.NewFromFloat(t.ExitPrice)
		if entry.IsZero() {
			continue
		}

		quantity := balance.DivRound(entry, 18)

		var pnl decimal.Decimal
		if t.Direction == domain.Long {
			pnl = quantity.Mul(exit.Sub(entry))
		} else {
			pnl = quantity.Mul(entry.Sub(exit))
		}
		balance = balance.Add(pnl)
	}
	return balance
}

// Agrees devuelve true si el balance de la DP y la simulación coinciden dentro de la tolerancia.
func Agrees(result domain.DayResult) (bool, decimal.Decimal) {
	simulated := Simulate(result.Trades, result.InitialBalance)
	final := decimal.NewFromFloat(result.FinalBalance)
	diff := simulated.Sub(final).Abs()

	tolerance := decimal.NewFromFloat(SimulationTolerance)
	if rel := final.Abs().Mul(decimal.NewFromFloat(simulationRelTolerance)); rel.GreaterThan(tolerance) {
		tolerance = rel
	}
	return diff.LessThanOrEqual(tolerance), simulated
}
