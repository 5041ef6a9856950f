package binance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://data.binance.vision/data/futures/um/daily/klines"
	DefaultInterval = "1m"

	// data.binance.vision no documenta límites; 10 req/s es conservador.
	defaultRatePerSec = 10

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// errNotFound indica que el archivo del día no existe en el servidor (día sin datos).
var errNotFound = errors.New("remote file not found")

// Config controla de dónde y a qué ritmo se descargan los klines.
type Config struct {
	BaseURL    string
	Interval   string
	DataDir    string // destino: {DataDir}/{symbol}/
	RatePerSec float64
	RetryWait  time.Duration // espera base del backoff (0 = 500ms)
}

// Client descarga los archivos diarios de klines con rate limiting y retries.
type Client struct {
	http      *http.Client
	cfg       Config
	limiter   *rate.Limiter
	retryWait time.Duration
}

// NewClient crea un Client; los campos vacíos de cfg usan los valores por defecto.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Interval == "" {
		cfg.Interval = DefaultInterval
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSec
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = baseRetryWait
	}
	return &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		cfg:       cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		retryWait: wait,
	}
}

// get hace un GET con rate limiting y retries y devuelve el cuerpo completo.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, errNotFound

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("rate limited by data server", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 500:
			resp.Body.Close()
			if attempt == maxRetries {
				return nil, fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
