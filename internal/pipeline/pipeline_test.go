package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"price-elasticity/internal/config"
	"price-elasticity/internal/elasticity"
	"price-elasticity/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		Data:      config.DataConfig{OutlierStdDevs: 5},
		Estimator: config.EstimatorConfig{MinSamples: 10, ConfidenceLevel: 0.95, Workers: 2},
		Optimizer: config.OptimizerConfig{FloorMultiplier: 0.5, CeilingMultiplier: 2, GridStep: 0.01, TolerancePct: 1},
		Database:  config.DatabaseConfig{AdvisoryLockKey: 42},
	}
}

type staticSource struct {
	obs []elasticity.Observation
	err error
}

func (s *staticSource) Load(ctx context.Context) ([]elasticity.Observation, error) {
	return s.obs, s.err
}

type recordingStore struct {
	results       []storage.ElasticityRecord
	optimizations []storage.OptimizationRecord
	lockHeld      bool
}

func (s *recordingStore) UpsertResult(ctx context.Context, r storage.ElasticityRecord) error {
	s.results = append(s.results, r)
	return nil
}

func (s *recordingStore) ListRecentResults(ctx context.Context, limit int) ([]storage.ElasticityRecord, error) {
	return s.results, nil
}

func (s *recordingStore) ListLatestRunResults(ctx context.Context, limit int) ([]storage.ElasticityRecord, error) {
	return s.results, nil
}

func (s *recordingStore) CountResults(ctx context.Context) (int64, error) {
	return int64(len(s.results)), nil
}

func (s *recordingStore) DeleteResultsBefore(ctx context.Context, olderThan time.Time) error {
	return nil
}

func (s *recordingStore) UpsertOptimization(ctx context.Context, r storage.OptimizationRecord) error {
	s.optimizations = append(s.optimizations, r)
	return nil
}

func (s *recordingStore) ListRecentOptimizations(ctx context.Context, limit int) ([]storage.OptimizationRecord, error) {
	return s.optimizations, nil
}

func (s *recordingStore) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	if s.lockHeld {
		return nil, false, nil
	}
	return func() {}, true, nil
}

func groupedObservations() []elasticity.Observation {
	obs := make([]elasticity.Observation, 0, 40)
	for i := 0; i < 20; i++ {
		price := 2 + 0.4*float64(i)
		obs = append(obs, elasticity.Observation{
			Group:    "cereal",
			Price:    price,
			Quantity: 500 * math.Pow(price, -1.8),
		})
	}
	for i := 0; i < 15; i++ {
		obs = append(obs, elasticity.Observation{Group: "soda", Price: 1.99, Quantity: float64(200 + i)})
	}
	return obs
}

func TestPipelineRun(t *testing.T) {
	store := &recordingStore{}
	p := New(testConfig(), &staticSource{obs: groupedObservations()}, store, store, zerolog.Nop())

	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(outcome.Results))
	}

	byGroup := make(map[string]elasticity.Result)
	for _, r := range outcome.Results {
		byGroup[r.Group] = r
	}
	if byGroup["cereal"].Status != elasticity.StatusOK {
		t.Fatalf("cereal status = %q", byGroup["cereal"].Status)
	}
	if byGroup["soda"].Status != elasticity.StatusDegenerateInput {
		t.Fatalf("soda status = %q, want degenerate_input", byGroup["soda"].Status)
	}

	// Only the fitted partition yields a recommendation.
	if len(outcome.Optimizations) != 1 || outcome.Optimizations[0].Group != "cereal" {
		t.Fatalf("unexpected optimizations: %+v", outcome.Optimizations)
	}

	if len(store.results) != 2 {
		t.Fatalf("expected 2 persisted results, got %d", len(store.results))
	}
	if len(store.optimizations) != 1 {
		t.Fatalf("expected 1 persisted optimization, got %d", len(store.optimizations))
	}
	if store.results[0].RunAt != outcome.RunAt {
		t.Fatalf("persisted run timestamp mismatch")
	}
}

func TestPipelineRefusesConcurrentRuns(t *testing.T) {
	store := &recordingStore{lockHeld: true}
	p := New(testConfig(), &staticSource{obs: groupedObservations()}, store, store, zerolog.Nop())

	if _, err := p.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestPipelineFlagsAnomalousElasticity(t *testing.T) {
	// Upward-sloping data produces a positive coefficient; the pipeline
	// must record the refusal rather than a recommendation.
	obs := make([]elasticity.Observation, 0, 20)
	for i := 0; i < 20; i++ {
		price := 2 + 0.4*float64(i)
		obs = append(obs, elasticity.Observation{Group: "luxury", Price: price, Quantity: 10 * math.Pow(price, 0.6)})
	}

	p := New(testConfig(), &staticSource{obs: obs}, nil, nil, zerolog.Nop())
	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(outcome.Optimizations) != 1 {
		t.Fatalf("expected the refusal to be recorded, got %+v", outcome.Optimizations)
	}
	if outcome.Optimizations[0].Status != elasticity.StatusAnomalous {
		t.Fatalf("expected anomalous status, got %q", outcome.Optimizations[0].Status)
	}
	if outcome.Optimizations[0].OptimalPrice != 0 {
		t.Fatalf("refused optimization must not carry a price, got %v", outcome.Optimizations[0].OptimalPrice)
	}
}

func TestPipelinePropagatesSourceError(t *testing.T) {
	p := New(testConfig(), &staticSource{err: errors.New("boom")}, nil, nil, zerolog.Nop())
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected source error to propagate")
	}
}
