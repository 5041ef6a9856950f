package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
)

// PriceSource carga las velas de 1 minuto de todos los instrumentos para un día.
type PriceSource interface {
	// LoadDay devuelve las velas del día por instrumento. Un día sin datos
	// devuelve un mapa vacío y nil: no es un error, el día simplemente se salta.
	LoadDay(ctx context.Context, date time.Time) (domain.DayData, error)
}

// Downloader descarga el histórico remoto de un símbolo y día al disco local.
type Downloader interface {
	// DownloadDay devuelve false (sin error) si el archivo remoto no existe.
	DownloadDay(ctx context.Context, symbol string, date time.Time) (bool, error)
}
