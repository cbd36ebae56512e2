package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	upsertElasticitySQL = `INSERT INTO elasticity_results (
        run_ts,
        group_key,
        status,
        coefficient,
        std_err,
        r_squared,
        confidence_lo,
        confidence_hi,
        sample_size,
        excluded,
        mean_price,
        mean_quantity
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
    )
    ON CONFLICT (run_ts, group_key) DO UPDATE
    SET
        status        = EXCLUDED.status,
        coefficient   = EXCLUDED.coefficient,
        std_err       = EXCLUDED.std_err,
        r_squared     = EXCLUDED.r_squared,
        confidence_lo = EXCLUDED.confidence_lo,
        confidence_hi = EXCLUDED.confidence_hi,
        sample_size   = EXCLUDED.sample_size,
        excluded      = EXCLUDED.excluded,
        mean_price    = EXCLUDED.mean_price,
        mean_quantity = EXCLUDED.mean_quantity;`

	listRecentResultsSQL = `SELECT
        run_ts,
        group_key,
        status,
        coefficient,
        std_err,
        r_squared,
        confidence_lo,
        confidence_hi,
        sample_size,
        excluded,
        mean_price,
        mean_quantity,
        created_at
    FROM elasticity_results
    ORDER BY run_ts DESC, group_key
    LIMIT $1;`

	listResultsForRunSQL = `SELECT
        run_ts,
        group_key,
        status,
        coefficient,
        std_err,
        r_squared,
        confidence_lo,
        confidence_hi,
        sample_size,
        excluded,
        mean_price,
        mean_quantity,
        created_at
    FROM elasticity_results
    WHERE run_ts = (SELECT MAX(run_ts) FROM elasticity_results)
    ORDER BY group_key
    LIMIT $1;`

	countResultsSQL = `SELECT COUNT(*) FROM elasticity_results;`

	upsertOptimizationSQL = `INSERT INTO optimization_results (
        run_ts,
        group_key,
        status,
        elasticity,
        optimal_price,
        projected_quantity,
        projected_revenue,
        baseline_price,
        baseline_revenue,
        revenue_change_pct
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
    )
    ON CONFLICT (run_ts, group_key) DO UPDATE
    SET
        status             = EXCLUDED.status,
        elasticity         = EXCLUDED.elasticity,
        optimal_price      = EXCLUDED.optimal_price,
        projected_quantity = EXCLUDED.projected_quantity,
        projected_revenue  = EXCLUDED.projected_revenue,
        baseline_price     = EXCLUDED.baseline_price,
        baseline_revenue   = EXCLUDED.baseline_revenue,
        revenue_change_pct = EXCLUDED.revenue_change_pct;`

	listRecentOptimizationsSQL = `SELECT
        run_ts,
        group_key,
        status,
        elasticity,
        optimal_price,
        projected_quantity,
        projected_revenue,
        baseline_price,
        baseline_revenue,
        revenue_change_pct,
        created_at
    FROM optimization_results
    ORDER BY run_ts DESC, group_key
    LIMIT $1;`

	listOptimizationsForRunSQL = `SELECT
        run_ts,
        group_key,
        status,
        elasticity,
        optimal_price,
        projected_quantity,
        projected_revenue,
        baseline_price,
        baseline_revenue,
        revenue_change_pct,
        created_at
    FROM optimization_results
    WHERE run_ts = (SELECT MAX(run_ts) FROM optimization_results)
    ORDER BY group_key
    LIMIT $1;`

	deleteResultsBeforeSQL = `DELETE FROM elasticity_results WHERE run_ts < $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// ResultStore defines operations for elasticity result persistence.
type ResultStore interface {
	UpsertResult(ctx context.Context, record ElasticityRecord) error
	ListRecentResults(ctx context.Context, limit int) ([]ElasticityRecord, error)
	ListLatestRunResults(ctx context.Context, limit int) ([]ElasticityRecord, error)
	CountResults(ctx context.Context) (int64, error)
	DeleteResultsBefore(ctx context.Context, olderThan time.Time) error
}

// OptimizationStore defines operations for recommendation persistence.
type OptimizationStore interface {
	UpsertOptimization(ctx context.Context, record OptimizationRecord) error
	ListRecentOptimizations(ctx context.Context, limit int) ([]OptimizationRecord, error)
}

// AdvisoryLocker exposes advisory lock helpers used to serialise overlapping
// pipeline runs.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to elasticity and optimization results.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a
// release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Best effort; the lock is released anyway when the session ends.
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key)
		conn.Release()
	}
	return unlock, true, nil
}

// UpsertResult persists or updates an elasticity result row.
func (s *Store) UpsertResult(ctx context.Context, record ElasticityRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	_, execErr := pool.Exec(ctx, upsertElasticitySQL,
		record.RunAt,
		record.GroupKey,
		record.Status,
		record.Coefficient,
		record.StdErr,
		record.RSquared,
		record.ConfidenceLo,
		record.ConfidenceHi,
		record.SampleSize,
		record.Excluded,
		record.MeanPrice.String(),
		record.MeanQuantity.String(),
	)
	if execErr != nil {
		return fmt.Errorf("upsert elasticity result: %w", execErr)
	}
	return nil
}

// ListRecentResults lists the most recent result rows across runs.
func (s *Store) ListRecentResults(ctx context.Context, limit int) ([]ElasticityRecord, error) {
	return s.queryResults(ctx, listRecentResultsSQL, limit)
}

// ListLatestRunResults lists all rows belonging to the latest run.
func (s *Store) ListLatestRunResults(ctx context.Context, limit int) ([]ElasticityRecord, error) {
	return s.queryResults(ctx, listResultsForRunSQL, limit)
}

func (s *Store) queryResults(ctx context.Context, query string, limit int) ([]ElasticityRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, query, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list elasticity results: %w", queryErr)
	}
	defer rows.Close()

	records := make([]ElasticityRecord, 0, limit)
	for rows.Next() {
		record, scanErr := scanElasticityRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

// CountResults counts stored result rows.
func (s *Store) CountResults(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countResultsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count results: %w", scanErr)
	}
	return count, nil
}

// DeleteResultsBefore removes result rows older than the cutoff.
func (s *Store) DeleteResultsBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteResultsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete results before: %w", execErr)
	}
	return nil
}

// UpsertOptimization persists or updates a recommendation row.
func (s *Store) UpsertOptimization(ctx context.Context, record OptimizationRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	_, execErr := pool.Exec(ctx, upsertOptimizationSQL,
		record.RunAt,
		record.GroupKey,
		record.Status,
		record.Elasticity,
		record.OptimalPrice.String(),
		record.ProjectedQuantity.String(),
		record.ProjectedRevenue.String(),
		record.BaselinePrice.String(),
		record.BaselineRevenue.String(),
		record.RevenueChangePct.String(),
	)
	if execErr != nil {
		return fmt.Errorf("upsert optimization result: %w", execErr)
	}
	return nil
}

// ListRecentOptimizations lists the most recent recommendation rows.
func (s *Store) ListRecentOptimizations(ctx context.Context, limit int) ([]OptimizationRecord, error) {
	return s.queryOptimizations(ctx, listRecentOptimizationsSQL, limit)
}

// ListLatestRunOptimizations lists all recommendation rows belonging to the
// latest run.
func (s *Store) ListLatestRunOptimizations(ctx context.Context, limit int) ([]OptimizationRecord, error) {
	return s.queryOptimizations(ctx, listOptimizationsForRunSQL, limit)
}

func (s *Store) queryOptimizations(ctx context.Context, query string, limit int) ([]OptimizationRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, query, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list optimization results: %w", queryErr)
	}
	defer rows.Close()

	records := make([]OptimizationRecord, 0, limit)
	for rows.Next() {
		record, scanErr := scanOptimizationRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

func scanElasticityRecord(row pgx.Row) (ElasticityRecord, error) {
	var record ElasticityRecord
	var meanPrice, meanQuantity string

	err := row.Scan(
		&record.RunAt,
		&record.GroupKey,
		&record.Status,
		&record.Coefficient,
		&record.StdErr,
		&record.RSquared,
		&record.ConfidenceLo,
		&record.ConfidenceHi,
		&record.SampleSize,
		&record.Excluded,
		&meanPrice,
		&meanQuantity,
		&record.CreatedAt,
	)
	if err != nil {
		return ElasticityRecord{}, fmt.Errorf("scan elasticity result: %w", err)
	}

	if record.MeanPrice, err = decimal.NewFromString(meanPrice); err != nil {
		return ElasticityRecord{}, fmt.Errorf("parse mean price: %w", err)
	}
	if record.MeanQuantity, err = decimal.NewFromString(meanQuantity); err != nil {
		return ElasticityRecord{}, fmt.Errorf("parse mean quantity: %w", err)
	}
	return record, nil
}

func scanOptimizationRecord(row pgx.Row) (OptimizationRecord, error) {
	var record OptimizationRecord
	var optimalPrice, projectedQty, projectedRevenue, baselinePrice, baselineRevenue, changePct string

	err := row.Scan(
		&record.RunAt,
		&record.GroupKey,
		&record.Status,
		&record.Elasticity,
		&optimalPrice,
		&projectedQty,
		&projectedRevenue,
		&baselinePrice,
		&baselineRevenue,
		&changePct,
		&record.CreatedAt,
	)
	if err != nil {
		return OptimizationRecord{}, fmt.Errorf("scan optimization result: %w", err)
	}

	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{optimalPrice, &record.OptimalPrice},
		{projectedQty, &record.ProjectedQuantity},
		{projectedRevenue, &record.ProjectedRevenue},
		{baselinePrice, &record.BaselinePrice},
		{baselineRevenue, &record.BaselineRevenue},
		{changePct, &record.RevenueChangePct},
	}
	for _, f := range fields {
		value, parseErr := decimal.NewFromString(f.raw)
		if parseErr != nil {
			return OptimizationRecord{}, fmt.Errorf("parse optimization value: %w", parseErr)
		}
		*f.dest = value
	}
	return record, nil
}

var (
	_ ResultStore       = (*Store)(nil)
	_ OptimizationStore = (*Store)(nil)
	_ AdvisoryLocker    = (*Store)(nil)
)
