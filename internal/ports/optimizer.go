package ports

import (
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
)

// DayOptimizer calcula la secuencia óptima de trades de un día.
// Los días son independientes: ninguna posición cruza la medianoche.
type DayOptimizer interface {
	Optimize(date time.Time, day domain.DayData, initialBalance, target float64) (domain.DayResult, error)
}
