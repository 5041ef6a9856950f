package optimizer

import "github.com/alejandrodnm/hindsight/internal/domain"

// Candidates son todos los trades rentables del día agrupados por índice de entrada.
// ByEntry tiene tamaño N: ByEntry[i] son los trades que abren en el evento global i.
type Candidates struct {
	ByEntry [][]domain.Trade
	Count   int
}

// EnumerateTrades genera, para cada instrumento, el trade rentable de cada par
// ordenado de sus eventos (entrada antes que salida). Fuerza bruta O(N²·M) sin
// poda: el scheduler solo es óptimo si ve todos los trades admisibles.
func EnumerateTrades(tl Timeline) Candidates {
	c := Candidates{ByEntry: make([][]domain.Trade, tl.Len())}

	for _, ticker := range tl.Instruments {
		events := tl.ByInstrument[ticker]
		for i := 0; i < len(events); i++ {
			entry := events[i]
			for j := i + 1; j < len(events); j++ {
				t, ok := domain.NewTrade(entry, events[j])
				if !ok {
					continue
				}
				c.ByEntry[entry.Index] = append(c.ByEntry[entry.Index], t)
				c.Count++
			}
		}
	}
	return c
}
