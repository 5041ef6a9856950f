package domain

import "time"

// FormattedTrade es un trade de la secuencia óptima con el balance acumulado,
// listo para imprimir o persistir.
type FormattedTrade struct {
	TradeNum     int
	Ticker       string
	Type         string // "LONG" | "SHORT"
	EntryTime    time.Time
	ExitTime     time.Time
	EntryPrice   float64
	ExitPrice    float64
	Quantity     float64 // unidades compradas (o vendidas en corto) con todo el balance
	Profit       float64
	BalanceAfter float64
}

// FormatSequence recorre la secuencia invirtiendo todo el balance en cada trade.
// El balance final coincide con initialBalance × Compounded(trades).
func FormatSequence(trades []Trade, initialBalance float64) []FormattedTrade {
	out := make([]FormattedTrade, 0, len(trades))
	balance := initialBalance

	for i, t := range trades {
		quantity := balance / t.EntryPrice

		var profit float64
		if t.Direction == Long {
			profit = quantity * (t.ExitPrice - t.EntryPrice)
		} else {
			profit = quantity * (t.EntryPrice - t.ExitPrice)
		}

		balance *= t.Multiplier()

		out = append(out, FormattedTrade{
			TradeNum:     i + 1,
			Ticker:       t.Instrument,
			Type:         t.Direction.String(),
			EntryTime:    t.EntryTime,
			ExitTime:     t.ExitTime,
			EntryPrice:   t.EntryPrice,
			ExitPrice:    t.ExitPrice,
			Quantity:     quantity,
			Profit:       profit,
			BalanceAfter: balance,
		})
	}
	return out
}
