package app

import (
	"context"

	"github.com/rs/zerolog"

	"price-elasticity/internal/config"
	"price-elasticity/internal/dataset"
	"price-elasticity/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSource(pathOverride string) dataset.Source {
	path := a.Config.Data.Path
	if pathOverride != "" {
		path = pathOverride
	}

	columns := dataset.Columns{
		Price:    a.Config.Data.Columns.Price,
		Quantity: a.Config.Data.Columns.Quantity,
		Group:    a.Config.Data.Columns.Group,
		Date:     a.Config.Data.Columns.Date,
	}
	return dataset.NewCSVSource(path, columns, a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// RunOptions configure a full pipeline run.
type RunOptions struct {
	DataPath string
	Workers  int
}

// EstimateOptions configure the estimate command.
type EstimateOptions struct {
	DataPath string
	Workers  int
	CSVPath  string
}

// OptimizeOptions configure a single-group optimization from explicit
// inputs.
type OptimizeOptions struct {
	Elasticity float64
	Price      float64
	Quantity   float64
	Floor      float64
	Ceiling    float64
	GridStep   float64
}

// SimulateOptions configure a demand simulation.
type SimulateOptions struct {
	Elasticity     float64
	Price          float64
	Quantity       float64
	PriceChangePct float64
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting persisted results.
type ExportOptions struct {
	CSVPath              string
	OptimizationsCSVPath string
	PNGPath              string
	Group                string
	MaxRows              int
}
