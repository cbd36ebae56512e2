// Package pipeline runs one end-to-end analysis pass: load, clean, estimate,
// optimize, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"price-elasticity/internal/config"
	"price-elasticity/internal/dataset"
	"price-elasticity/internal/elasticity"
	"price-elasticity/internal/storage"
)

// ErrRunInProgress signals another invocation holds the advisory lock.
var ErrRunInProgress = errors.New("pipeline: another run holds the advisory lock")

// Pipeline orchestrates dataset loading, estimation, optimization, and
// persistence. Stores may be nil, in which case results are only returned.
type Pipeline struct {
	cfg           *config.Config
	source        dataset.Source
	results       storage.ResultStore
	optimizations storage.OptimizationStore
	locker        storage.AdvisoryLocker
	logger        zerolog.Logger
}

// Outcome carries everything one run produced.
type Outcome struct {
	RunAt         time.Time
	CleanStats    dataset.CleanStats
	Results       []elasticity.Result
	Optimizations []elasticity.Optimization
}

// New constructs a pipeline.
func New(cfg *config.Config, source dataset.Source, results storage.ResultStore, optimizations storage.OptimizationStore, logger zerolog.Logger) *Pipeline {
	var locker storage.AdvisoryLocker
	if l, ok := results.(storage.AdvisoryLocker); ok {
		locker = l
	}

	return &Pipeline{
		cfg:           cfg,
		source:        source,
		results:       results,
		optimizations: optimizations,
		locker:        locker,
		logger:        logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes a single analysis pass. A failed partition is reported
// through its row status and never aborts the others; persistence failures
// are logged but do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	unlock, proceed, err := p.acquireLock(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !proceed {
		return Outcome{}, ErrRunInProgress
	}
	if unlock != nil {
		defer unlock()
	}

	runAt := time.Now().UTC()

	obs, err := p.source.Load(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("load observations: %w", err)
	}

	cleaned, stats := dataset.Clean(obs, dataset.CleanConfig{OutlierStdDevs: p.cfg.Data.OutlierStdDevs})
	p.logger.Info().
		Int("input", stats.Input).
		Int("kept", stats.Kept).
		Int("non_positive", stats.NonPositive).
		Int("outliers", stats.Outliers).
		Msg("dataset cleaned")

	results, err := elasticity.EstimateGroups(ctx, cleaned, elasticity.EstimatorConfig{
		MinSamples:      p.cfg.Estimator.MinSamples,
		ConfidenceLevel: p.cfg.Estimator.ConfidenceLevel,
	}, p.cfg.Estimator.Workers)
	if err != nil {
		return Outcome{}, fmt.Errorf("estimate elasticity: %w", err)
	}

	optimizations := p.optimizeAll(results)
	p.persist(ctx, runAt, results, optimizations)

	p.logger.Info().
		Int("partitions", len(results)).
		Int("recommendations", len(optimizations)).
		Msg("pipeline run complete")

	return Outcome{
		RunAt:         runAt,
		CleanStats:    stats,
		Results:       results,
		Optimizations: optimizations,
	}, nil
}

func (p *Pipeline) optimizeAll(results []elasticity.Result) []elasticity.Optimization {
	optimizations := make([]elasticity.Optimization, 0, len(results))
	for _, r := range results {
		if r.Status != elasticity.StatusOK {
			continue
		}

		baseline := elasticity.Baseline{Price: r.MeanPrice, Quantity: r.MeanQuantity}
		floor, ceiling := p.cfg.Optimizer.Range(baseline.Price)
		bounds := elasticity.PriceRange{Floor: floor, Ceiling: ceiling, Step: p.cfg.Optimizer.GridStep}

		opt, err := elasticity.Optimize(baseline, r.Coefficient, bounds)
		if errors.Is(err, elasticity.ErrAnomalousElasticity) {
			optimizations = append(optimizations, elasticity.Optimization{
				Group:            r.Group,
				Status:           elasticity.StatusAnomalous,
				Elasticity:       r.Coefficient,
				BaselinePrice:    baseline.Price,
				BaselineQuantity: baseline.Quantity,
				BaselineRevenue:  baseline.Revenue(),
			})
			p.logger.Warn().
				Str("group", r.Group).
				Float64("elasticity", r.Coefficient).
				Msg("positive elasticity; optimization refused")
			continue
		}
		if err != nil {
			p.logger.Error().Err(err).Str("group", r.Group).Msg("optimization failed")
			continue
		}

		opt.Group = r.Group
		optimizations = append(optimizations, opt)
	}
	return optimizations
}

func (p *Pipeline) persist(ctx context.Context, runAt time.Time, results []elasticity.Result, optimizations []elasticity.Optimization) {
	if p.results != nil {
		for _, r := range results {
			if err := p.results.UpsertResult(ctx, toElasticityRecord(runAt, r)); err != nil {
				p.logger.Error().Err(err).Str("group", r.Group).Msg("failed to persist elasticity result")
			}
		}
	}

	if p.optimizations != nil {
		for _, o := range optimizations {
			if err := p.optimizations.UpsertOptimization(ctx, toOptimizationRecord(runAt, o)); err != nil {
				p.logger.Error().Err(err).Str("group", o.Group).Msg("failed to persist optimization result")
			}
		}
	}
}

func (p *Pipeline) acquireLock(ctx context.Context) (func(), bool, error) {
	key := p.cfg.Database.AdvisoryLockKey
	if key == 0 || p.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := p.locker.TryAdvisoryLock(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}

func toElasticityRecord(runAt time.Time, r elasticity.Result) storage.ElasticityRecord {
	return storage.ElasticityRecord{
		RunAt:        runAt,
		GroupKey:     r.Group,
		Status:       r.Status,
		Coefficient:  r.Coefficient,
		StdErr:       r.StdErr,
		RSquared:     r.RSquared,
		ConfidenceLo: r.ConfidenceLo,
		ConfidenceHi: r.ConfidenceHi,
		SampleSize:   r.SampleSize,
		Excluded:     r.Excluded,
		MeanPrice:    decimal.NewFromFloat(r.MeanPrice),
		MeanQuantity: decimal.NewFromFloat(r.MeanQuantity),
	}
}

func toOptimizationRecord(runAt time.Time, o elasticity.Optimization) storage.OptimizationRecord {
	return storage.OptimizationRecord{
		RunAt:             runAt,
		GroupKey:          o.Group,
		Status:            o.Status,
		Elasticity:        o.Elasticity,
		OptimalPrice:      decimal.NewFromFloat(o.OptimalPrice),
		ProjectedQuantity: decimal.NewFromFloat(o.ProjectedQuantity),
		ProjectedRevenue:  decimal.NewFromFloat(o.ProjectedRevenue),
		BaselinePrice:     decimal.NewFromFloat(o.BaselinePrice),
		BaselineRevenue:   decimal.NewFromFloat(o.BaselineRevenue),
		RevenueChangePct:  decimal.NewFromFloat(o.RevenueChangePct),
	}
}
