package domain

import "time"

// Direction es el sentido de un trade.
type Direction uint8

const (
	Long Direction = iota
	Short
)

// String devuelve "LONG" o "SHORT".
func (d Direction) String() string {
	if d == Short {
		return "SHORT"
	}
	return "LONG"
}

// Trade es una transición rentable entre dos eventos del mismo instrumento.
// Entry/ExitIndex son índices globales de la línea temporal, no locales al instrumento.
type Trade struct {
	EntryIndex int
	ExitIndex  int
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Instrument string
	Direction  Direction
	Return     float64 // fracción de beneficio sobre el precio de entrada, siempre > 0
}

// NewTrade construye el trade implícito entre entry y exit.
// Devuelve false si el precio no se movió (ningún sentido es rentable).
// No valida que ambos eventos sean del mismo instrumento: eso lo garantiza el enumerador.
func NewTrade(entry, exit PriceEvent) (Trade, bool) {
	t := Trade{
		EntryIndex: entry.Index,
		ExitIndex:  exit.Index,
		EntryTime:  entry.Time,
		ExitTime:   exit.Time,
		EntryPrice: entry.Close,
		ExitPrice:  exit.Close,
		Instrument: entry.Instrument,
	}
	switch {
	case exit.Close > entry.Close:
		t.Direction = Long
		t.Return = (exit.Close - entry.Close) / entry.Close
	case exit.Close < entry.Close:
		t.Direction = Short
		t.Return = (entry.Close - exit.Close) / entry.Close
	default:
		return Trade{}, false
	}
	return t, true
}

// Multiplier devuelve el factor por el que el trade multiplica el capital.
func (t Trade) Multiplier() float64 {
	return 1 + t.Return
}

// Compounded devuelve el producto de (1 + return) de una secuencia de trades.
func Compounded(trades []Trade) float64 {
	m := 1.0
	for _, t := range trades {
		m *= t.Multiplier()
	}
	return m
}
