package ports

import (
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
)

// Reporter presenta los resultados al usuario.
type Reporter interface {
	// DayResult muestra el resultado de un día con su secuencia de trades.
	DayResult(result domain.DayResult, trades []domain.FormattedTrade)

	// NoData avisa de un día sin datos cargables (el día se salta).
	NoData(date time.Time)

	// FinalSummary muestra el resumen de toda la ejecución.
	FinalSummary(dailies []domain.DailySummary, target float64)
}
