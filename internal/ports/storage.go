package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
)

// ResultStore persiste el resultado de cada día optimizado.
type ResultStore interface {
	// SaveDay persiste el resumen del día y su secuencia formateada.
	// Una secuencia vacía persiste solo el resumen.
	SaveDay(ctx context.Context, result domain.DayResult, trades []domain.FormattedTrade) error

	// SaveSummary persiste el resumen de todos los días de la ejecución, ordenado por fecha.
	SaveSummary(ctx context.Context, dailies []domain.DailySummary) error
}

// SummaryReader devuelve los resúmenes diarios de una ejecución anterior
// para el roll-up de compounding.
type SummaryReader interface {
	GetDailies(ctx context.Context, from, to time.Time) ([]domain.DailySummary, error)
}
