package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateLayout es el formato de las fechas del YAML y de los flags.
const DateLayout = "2006-01-02"

// Config es la configuración completa del backtest.
type Config struct {
	Backtest BacktestConfig `yaml:"backtest"`
	Data     DataConfig     `yaml:"data"`
	Output   OutputConfig   `yaml:"output"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BacktestConfig controla el rango y los parámetros de la optimización.
type BacktestConfig struct {
	InitialBalance float64 `yaml:"initial_balance"`
	TargetBalance  float64 `yaml:"target_balance"`
	StartDate      string  `yaml:"start_date"` // YYYY-MM-DD, incluido
	EndDate        string  `yaml:"end_date"`   // YYYY-MM-DD, incluido
	Workers        int     `yaml:"workers"`    // días optimizados en paralelo
	Verify         bool    `yaml:"verify"`     // contrastar cada día con la simulación de cartera
}

// DataConfig indica dónde están (o de dónde se descargan) las velas.
type DataConfig struct {
	Dir        string   `yaml:"dir"`
	Symbols    []string `yaml:"symbols"` // solo para la descarga; el loader usa lo que haya en Dir
	Interval   string   `yaml:"interval"`
	BaseURL    string   `yaml:"base_url"`
	RatePerSec float64  `yaml:"rate_per_sec"`
}

// OutputConfig controla la salida CSV.
type OutputConfig struct {
	ResultDir string `yaml:"result_dir"`
	CSV       *bool  `yaml:"csv"` // nil = true
}

// StorageConfig controla el histórico en SQLite.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Parse interpreta el YAML, aplica overrides de entorno y defaults, y valida.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Period devuelve el rango de fechas del backtest.
func (c *Config) Period() (from, to time.Time, err error) {
	from, err = time.Parse(DateLayout, c.Backtest.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: start_date %q: %w", c.Backtest.StartDate, err)
	}
	to, err = time.Parse(DateLayout, c.Backtest.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: end_date %q: %w", c.Backtest.EndDate, err)
	}
	return from, to, nil
}

// WriteCSV indica si se escribe la salida CSV.
func (c *Config) WriteCSV() bool {
	return c.Output.CSV == nil || *c.Output.CSV
}

// Validate comprueba que los parámetros tengan sentido.
func (c *Config) Validate() error {
	if c.Backtest.InitialBalance <= 0 {
		return fmt.Errorf("config: initial_balance must be > 0, got %v", c.Backtest.InitialBalance)
	}
	if c.Backtest.TargetBalance <= 0 {
		return fmt.Errorf("config: target_balance must be > 0, got %v", c.Backtest.TargetBalance)
	}
	from, to, err := c.Period()
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("config: end_date %s is before start_date %s", c.Backtest.EndDate, c.Backtest.StartDate)
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("HINDSIGHT_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("HINDSIGHT_RESULT_DIR"); v != "" {
		cfg.Output.ResultDir = v
	}
	if v := os.Getenv("HINDSIGHT_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("HINDSIGHT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backtest.Workers = n
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Backtest.InitialBalance == 0 {
		cfg.Backtest.InitialBalance = 10000
	}
	if cfg.Backtest.TargetBalance == 0 {
		cfg.Backtest.TargetBalance = 1000000
	}
	if cfg.Backtest.StartDate == "" {
		cfg.Backtest.StartDate = "2025-12-01"
	}
	if cfg.Backtest.EndDate == "" {
		cfg.Backtest.EndDate = "2025-12-31"
	}
	if cfg.Backtest.Workers <= 0 {
		cfg.Backtest.Workers = 2
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "binance_december_data"
	}
	if len(cfg.Data.Symbols) == 0 {
		cfg.Data.Symbols = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}
	}
	if cfg.Data.Interval == "" {
		cfg.Data.Interval = "1m"
	}
	if cfg.Data.BaseURL == "" {
		cfg.Data.BaseURL = "https://data.binance.vision/data/futures/um/daily/klines"
	}
	if cfg.Data.RatePerSec <= 0 {
		cfg.Data.RatePerSec = 10
	}
	if cfg.Output.ResultDir == "" {
		cfg.Output.ResultDir = "result"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "hindsight.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
