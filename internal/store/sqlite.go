package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS comparisons (
	id           TEXT PRIMARY KEY,
	request_data TEXT NOT NULL,
	result_data  TEXT NOT NULL,
	use_case     TEXT NOT NULL,
	timestamp    TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS comparison_options (
	comparison_id TEXT NOT NULL,
	option_name   TEXT NOT NULL,
	option_data   TEXT NOT NULL,
	score         REAL NOT NULL,
	FOREIGN KEY (comparison_id) REFERENCES comparisons (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_comparison_options_name ON comparison_options (option_name);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons (created_at DESC);
`

// SQLiteStore keeps comparisons in a single local database file, the
// default backend for single-node deployments. Times are stored as
// RFC3339 strings.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite allows one writer; a single pooled connection also keeps
	// :memory: databases shared across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveComparison(ctx context.Context, rec *ComparisonRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comparisons (id, request_data, result_data, use_case, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Request), string(rec.Result), rec.UseCase,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert comparison: %w", err)
	}

	for _, opt := range rec.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO comparison_options (comparison_id, option_name, option_data, score)
			VALUES (?, ?, ?, ?)`,
			rec.ID, opt.Name, string(opt.Data), opt.WeightedScore,
		)
		if err != nil {
			return fmt.Errorf("insert option %s: %w", opt.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetComparison(ctx context.Context, id string) (*ComparisonRecord, error) {
	rec := &ComparisonRecord{ID: id}
	var request, result, timestamp, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT request_data, result_data, use_case, timestamp, created_at
		FROM comparisons WHERE id = ?`, id,
	).Scan(&request, &result, &rec.UseCase, &timestamp, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Request = []byte(request)
	rec.Result = []byte(result)
	if rec.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListComparisons(ctx context.Context, limit int) ([]*ComparisonSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.use_case, c.timestamp, c.created_at, COUNT(co.option_name)
		FROM comparisons c
		LEFT JOIN comparison_options co ON c.id = co.comparison_id
		GROUP BY c.id, c.use_case, c.timestamp, c.created_at
		ORDER BY c.created_at DESC
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteSummaries(rows)
}

func (s *SQLiteStore) SearchComparisons(ctx context.Context, query string, limit int) ([]*ComparisonSummary, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.use_case, c.timestamp, c.created_at, COUNT(co.option_name)
		FROM comparisons c
		LEFT JOIN comparison_options co ON c.id = co.comparison_id
		WHERE c.use_case LIKE ?
		   OR c.id IN (SELECT comparison_id FROM comparison_options WHERE option_name LIKE ?)
		GROUP BY c.id, c.use_case, c.timestamp, c.created_at
		ORDER BY c.created_at DESC
		LIMIT ?`, pattern, pattern, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteSummaries(rows)
}

func (s *SQLiteStore) PopularOptions(ctx context.Context, limit int) ([]*OptionUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT option_name, COUNT(*), COALESCE(AVG(score), 0)
		FROM comparison_options
		GROUP BY option_name
		ORDER BY COUNT(*) DESC, AVG(score) DESC
		LIMIT ?`, normalizeLimit(limit))
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

func (s *SQLiteStore) DeleteComparison(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*StoreStats, error) {
	stats := &StoreStats{}
	err := s.db.QueryRowContext(ctx, `
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

func scanSQLiteSummaries(rows *sql.Rows) ([]*ComparisonSummary, error) {
	var summaries []*ComparisonSummary
	for rows.Next() {
		c := &ComparisonSummary{}
		var timestamp, createdAt string
		if err := rows.Scan(&c.ID, &c.UseCase, &timestamp, &createdAt, &c.OptionCount); err != nil {
			return nil, err
		}
		var err error
		if c.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		summaries = append(summaries, c)
	}
	return summaries, rows.Err()
}
