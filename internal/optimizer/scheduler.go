package optimizer

import "github.com/alejandrodnm/hindsight/internal/domain"

// Plan es la tabla DP del día y la secuencia reconstruida a partir de ella.
type Plan struct {
	// Multipliers[i] = mejor multiplicador alcanzable desde el evento i hasta el final.
	// Multipliers[N] = 1.0 (centinela de fin de día).
	Multipliers []float64
	// Choices[i] = trade elegido en i, o nil si lo mejor es saltar a i+1.
	Choices []*domain.Trade
	// Sequence es la secuencia óptima en orden cronológico.
	Sequence []domain.Trade
}

// Multiplier devuelve el multiplicador óptimo del día (1.0 si no hay eventos).
func (p Plan) Multiplier() float64 {
	if len(p.Multipliers) == 0 {
		return 1.0
	}
	return p.Multipliers[0]
}

// Schedule resuelve la DP hacia atrás sobre los n eventos del día.
//
// En cada índice i se compara saltar (dp[i+1]) con tomar cada trade que abre en i
// ((1+r) × dp[exit]). Saltar se evalúa primero y un trade solo lo reemplaza si es
// estrictamente mejor, así entre secuencias igual de buenas gana la de menos trades.
func Schedule(n int, c Candidates) Plan {
	p := Plan{
		Multipliers: make([]float64, n+1),
		Choices:     make([]*domain.Trade, n+1),
	}
	p.Multipliers[n] = 1.0

	for i := n - 1; i >= 0; i-- {
		best := p.Multipliers[i+1]
		var choice *domain.Trade

		if i < len(c.ByEntry) {
			trades := c.ByEntry[i]
			for k := range trades {
				exit := trades[k].ExitIndex
				future := 1.0
				if exit < n {
					future = p.Multipliers[exit]
				}
				if total := trades[k].Multiplier() * future; total > best {
					best = total
					choice = &trades[k]
				}
			}
		}

		p.Multipliers[i] = best
		p.Choices[i] = choice
	}

	for i := 0; i < n; {
		t := p.Choices[i]
		if t == nil {
			i++
			continue
		}
		p.Sequence = append(p.Sequence, *t)
		i = t.ExitIndex
	}
	return p
}
