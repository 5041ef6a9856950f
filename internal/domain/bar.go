package domain

import (
	"errors"
	"time"
)

// ErrMalformedInput indica datos de precios que el optimizador no puede usar
// sin arriesgar un resultado incorrecto (precio no numérico, timestamps duplicados...).
var ErrMalformedInput = errors.New("malformed price input")

// Bar es una vela de 1 minuto de un instrumento.
// Open/High/Low/Volume se conservan para los colaboradores; el optimizador solo usa Close.
type Bar struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// DayData agrupa las velas de un día por instrumento (ticker → velas).
type DayData map[string][]Bar

// Instruments devuelve el número de instrumentos con al menos una vela.
func (d DayData) Instruments() int {
	n := 0
	for _, bars := range d {
		if len(bars) > 0 {
			n++
		}
	}
	return n
}

// PriceEvent es una vela colocada en la línea temporal global del día.
// Index es la posición en esa línea temporal (GlobalEventIndex).
type PriceEvent struct {
	Index      int
	Instrument string
	Time       time.Time
	Close      float64
}
