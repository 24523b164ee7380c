package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS comparisons (
	id           TEXT PRIMARY KEY,
	request_data JSONB NOT NULL,
	result_data  JSONB NOT NULL,
	use_case     TEXT NOT NULL,
	timestamp    TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comparison_options (
	comparison_id TEXT NOT NULL REFERENCES comparisons (id) ON DELETE CASCADE,
	option_name   TEXT NOT NULL,
	option_data   JSONB NOT NULL,
	score         DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comparison_options_name ON comparison_options (option_name);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons (created_at DESC);
`

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveComparison(ctx context.Context, rec *ComparisonRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO comparisons (id, request_data, result_data, use_case, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Request, rec.Result, rec.UseCase, rec.Timestamp, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comparison: %w", err)
	}

	for _, opt := range rec.Options {
		_, err = tx.Exec(ctx, `
			INSERT INTO comparison_options (comparison_id, option_name, option_data, score)
			VALUES ($1, $2, $3, $4)`,
			rec.ID, opt.Name, opt.Data, opt.WeightedScore,
		)
		if err != nil {
			return fmt.Errorf("insert option %s: %w", opt.Name, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetComparison(ctx context.Context, id string) (*ComparisonRecord, error) {
	rec := &ComparisonRecord{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT request_data, result_data, use_case, timestamp, created_at
		FROM comparisons WHERE id = $1`, id,
	).Scan(&rec.Request, &rec.Result, &rec.UseCase, &rec.Timestamp, &rec.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) ListComparisons(ctx context.Context, limit int) ([]*ComparisonSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.use_case, c.timestamp, c.created_at, COUNT(co.option_name)
		FROM comparisons c
		LEFT JOIN comparison_options co ON c.id = co.comparison_id
		GROUP BY c.id, c.use_case, c.timestamp, c.created_at
		ORDER BY c.created_at DESC
		LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (s *PostgresStore) SearchComparisons(ctx context.Context, query string, limit int) ([]*ComparisonSummary, error) {
	pattern := "%" + query + "%"
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.use_case, c.timestamp, c.created_at, COUNT(co.option_name)
		FROM comparisons c
		LEFT JOIN comparison_options co ON c.id = co.comparison_id
		WHERE c.use_case ILIKE $1
		   OR c.id IN (SELECT comparison_id FROM comparison_options WHERE option_name ILIKE $1)
		GROUP BY c.id, c.use_case, c.timestamp, c.created_at
		ORDER BY c.created_at DESC
		LIMIT $2`, pattern, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (s *PostgresStore) PopularOptions(ctx context.Context, limit int) ([]*OptionUsage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT option_name, COUNT(*), COALESCE(AVG(score), 0)
		FROM comparison_options
		GROUP BY option_name
		ORDER BY COUNT(*) DESC, AVG(score) DESC
		LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []*OptionUsage
	for rows.Next() {
		u := &OptionUsage{}
		if err := rows.Scan(&u.Name, &u.UsageCount, &u.AverageScore); err != nil {
			return nil, err
		}
		u.AverageScore = roundScore(u.AverageScore)
		options = append(options, u)
	}
	return options, rows.Err()
}

func (s *PostgresStore) DeleteComparison(ctx context.Context, id string) (bool, error) {
	// Option rows go with the comparison via ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*StoreStats, error) {
	stats := &StoreStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM comparisons),
			(SELECT COUNT(*) FROM comparison_options),
			(SELECT COUNT(DISTINCT option_name) FROM comparison_options),
			COALESCE((SELECT AVG(score) FROM comparison_options), 0)`,
	).Scan(&stats.TotalComparisons, &stats.TotalOptions, &stats.UniqueOptions, &stats.AvgWeightedScore)
	if err != nil {
		return nil, err
	}
	stats.AvgWeightedScore = roundScore(stats.AvgWeightedScore)
	return stats, nil
}

func scanSummaries(rows pgx.Rows) ([]*ComparisonSummary, error) {
	var summaries []*ComparisonSummary
	for rows.Next() {
		c := &ComparisonSummary{}
		if err := rows.Scan(&c.ID, &c.UseCase, &c.Timestamp, &c.CreatedAt, &c.OptionCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, c)
	}
	return summaries, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
