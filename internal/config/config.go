package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"price-elasticity/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Data      DataConfig      `mapstructure:"data"`
	Estimator EstimatorConfig `mapstructure:"estimator"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. Persistence is
// optional; an empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
}

// DataConfig points at the observation dataset and its column mapping.
type DataConfig struct {
	Path           string        `mapstructure:"path"`
	Columns        ColumnsConfig `mapstructure:"columns"`
	OutlierStdDevs float64       `mapstructure:"outlier_std_devs"`
}

// ColumnsConfig maps dataset column names onto observation fields.
type ColumnsConfig struct {
	Price    string `mapstructure:"price"`
	Quantity string `mapstructure:"quantity"`
	Group    string `mapstructure:"group"`
	Date     string `mapstructure:"date"`
}

// EstimatorConfig governs partition fitting.
type EstimatorConfig struct {
	MinSamples      int     `mapstructure:"min_samples"`
	ConfidenceLevel float64 `mapstructure:"confidence_level"`
	Workers         int     `mapstructure:"workers"`
}

// OptimizerConfig bounds the revenue search. Floor and ceiling are
// multipliers applied to the baseline price.
type OptimizerConfig struct {
	FloorMultiplier   float64 `mapstructure:"floor_multiplier"`
	CeilingMultiplier float64 `mapstructure:"ceiling_multiplier"`
	GridStep          float64 `mapstructure:"grid_step"`
	TolerancePct      float64 `mapstructure:"tolerance_pct"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	MaxRows   int    `mapstructure:"max_rows"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ELASTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "elastic")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("data.path", "data/sales.csv")
	v.SetDefault("data.columns.price", "unit_price")
	v.SetDefault("data.columns.quantity", "quantity_sold")
	v.SetDefault("data.columns.group", "product_name")
	v.SetDefault("data.columns.date", "date")
	v.SetDefault("data.outlier_std_devs", 5.0)

	v.SetDefault("estimator.min_samples", 10)
	v.SetDefault("estimator.confidence_level", 0.95)
	v.SetDefault("estimator.workers", 4)

	v.SetDefault("optimizer.floor_multiplier", 0.5)
	v.SetDefault("optimizer.ceiling_multiplier", 2.0)
	v.SetDefault("optimizer.grid_step", 0.01)
	v.SetDefault("optimizer.tolerance_pct", 1.0)

	v.SetDefault("export.output_dir", "outputs")
	v.SetDefault("export.max_rows", 10000)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.advisory_lock_key", int64(0x656c6173))
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Data.Columns.Price == "" || c.Data.Columns.Quantity == "" {
		return fmt.Errorf("data.columns.price and data.columns.quantity must be set")
	}
	if c.Data.OutlierStdDevs < 0 {
		return fmt.Errorf("data.outlier_std_devs cannot be negative")
	}
	if c.Estimator.MinSamples < 2 {
		return fmt.Errorf("estimator.min_samples must be at least 2")
	}
	if c.Estimator.ConfidenceLevel <= 0 || c.Estimator.ConfidenceLevel >= 1 {
		return fmt.Errorf("estimator.confidence_level must be inside (0, 1)")
	}
	if c.Estimator.Workers <= 0 {
		return fmt.Errorf("estimator.workers must be greater than zero")
	}
	if c.Optimizer.FloorMultiplier <= 0 {
		return fmt.Errorf("optimizer.floor_multiplier must be greater than zero")
	}
	if c.Optimizer.CeilingMultiplier <= c.Optimizer.FloorMultiplier {
		return fmt.Errorf("optimizer.ceiling_multiplier must exceed optimizer.floor_multiplier")
	}
	if c.Optimizer.GridStep <= 0 {
		return fmt.Errorf("optimizer.grid_step must be greater than zero")
	}
	if c.Optimizer.TolerancePct <= 0 {
		return fmt.Errorf("optimizer.tolerance_pct must be greater than zero")
	}
	if c.Export.MaxRows <= 0 {
		return fmt.Errorf("export.max_rows must be greater than zero")
	}
	return nil
}

// ResolveWorkers returns either the CLI override or the configured worker
// count.
func (c *Config) ResolveWorkers(override int) int {
	if override > 0 {
		return override
	}
	return c.Estimator.Workers
}

// Range converts the optimizer multipliers into an absolute price range
// around a baseline price.
func (o OptimizerConfig) Range(baselinePrice float64) (floor, ceiling float64) {
	return baselinePrice * o.FloorMultiplier, baselinePrice * o.CeilingMultiplier
}
