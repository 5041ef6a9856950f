package optimizer

import (
	"fmt"
	"math"
	"slices"

	"github.com/alejandrodnm/hindsight/internal/domain"
)

// Timeline es la línea temporal global de un día.
type Timeline struct {
	// Events ordenados por tiempo; Events[i].Index == i.
	Events []domain.PriceEvent
	// ByInstrument conserva el orden cronológico propio de cada instrumento.
	ByInstrument map[string][]domain.PriceEvent
	// Instruments en orden de enumeración (orden alfabético, determinista).
	Instruments []string
}

// Len devuelve N, el número de eventos del día.
func (tl Timeline) Len() int {
	return len(tl.Events)
}

// BuildTimeline fusiona las series de cada instrumento en una sola línea temporal.
//
// Los empates de timestamp entre instrumentos se resuelven por orden de enumeración
// (ticker alfabético) para que dos ejecuciones con los mismos datos indexen igual.
// Un mapa vacío o con todas las series vacías produce una línea temporal vacía, no un error.
func BuildTimeline(day domain.DayData) (Timeline, error) {
	tl := Timeline{ByInstrument: make(map[string][]domain.PriceEvent)}

	for ticker, bars := range day {
		if len(bars) > 0 {
			tl.Instruments = append(tl.Instruments, ticker)
		}
	}
	slices.Sort(tl.Instruments)

	var events []domain.PriceEvent
	for _, ticker := range tl.Instruments {
		series, err := instrumentEvents(ticker, day[ticker])
		if err != nil {
			return Timeline{}, err
		}
		events = append(events, series...)
	}

	slices.SortStableFunc(events, func(a, b domain.PriceEvent) int {
		return a.Time.Compare(b.Time)
	})

	for i := range events {
		events[i].Index = i
		ev := events[i]
		tl.ByInstrument[ev.Instrument] = append(tl.ByInstrument[ev.Instrument], ev)
	}
	tl.Events = events
	return tl, nil
}

// instrumentEvents valida y ordena cronológicamente las velas de un instrumento.
func instrumentEvents(ticker string, bars []domain.Bar) ([]domain.PriceEvent, error) {
	out := make([]domain.PriceEvent, 0, len(bars))
	for i, b := range bars {
		if b.OpenTime.IsZero() {
			return nil, fmt.Errorf("optimizer.BuildTimeline: %s bar %d: missing open time: %w",
				ticker, i, domain.ErrMalformedInput)
		}
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			return nil, fmt.Errorf("optimizer.BuildTimeline: %s bar %d: invalid close %v: %w",
				ticker, i, b.Close, domain.ErrMalformedInput)
		}
		out = append(out, domain.PriceEvent{
			Instrument: ticker,
			Time:       b.OpenTime,
			Close:      b.Close,
		})
	}

	slices.SortStableFunc(out, func(a, b domain.PriceEvent) int {
		return a.Time.Compare(b.Time)
	})

	for i := 1; i < len(out); i++ {
		if out[i].Time.Equal(out[i-1].Time) {
			return nil, fmt.Errorf("optimizer.BuildTimeline: %s: duplicate bar at %s: %w",
				ticker, out[i].Time.UTC().Format("2006-01-02 15:04:05"), domain.ErrMalformedInput)
		}
	}
	return out, nil
}
