package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/ports"
)

const predictionsTable = "predictions"

var predictionColumns = []string{
	"id", "source_url", "label", "class", "confidence", "top_terms", "model_id", "created_at",
}

// SQLRepository persists served predictions into Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.PredictionRepository = (*SQLRepository)(nil)

// NewSQLRepository wires a sql.DB opened with the given driver.
func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	return &SQLRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholders(driver)),
	}
}

// Migrate creates the predictions table when missing.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			source_url TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL,
			class INTEGER NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			top_terms TEXT NOT NULL,
			model_id TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS predictions_source_url_idx ON predictions (source_url)`,
		`CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate predictions: %w", err)
		}
	}
	return nil
}

// AlreadyScored returns the subset of urls that have a stored prediction.
func (r *SQLRepository) AlreadyScored(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("DISTINCT source_url").
		From(predictionsTable).
		Where(sq.Eq{"source_url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scored query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scored: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// SavePrediction stores one history entry.
func (r *SQLRepository) SavePrediction(ctx context.Context, record domain.PredictionRecord) error {
	if r.db == nil {
		return nil
	}

	terms, err := json.Marshal(record.Result.TopTerms)
	if err != nil {
		return fmt.Errorf("encode top terms: %w", err)
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args, err := r.builder.
		Insert(predictionsTable).
		Columns(predictionColumns...).
		Values(
			record.ID,
			record.SourceURL,
			record.Result.Label,
			int(record.Result.Class),
			record.Result.ConfidencePercent,
			string(terms),
			record.Result.ModelID,
			createdAt.UnixMilli(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// Recent lists the latest predictions, newest first.
func (r *SQLRepository) Recent(ctx context.Context, limit int) ([]domain.PredictionRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select(predictionColumns...).
		From(predictionsTable).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var records []domain.PredictionRecord
	for rows.Next() {
		var (
			rec       domain.PredictionRecord
			class     int
			terms     string
			createdAt int64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.SourceURL,
			&rec.Result.Label,
			&class,
			&rec.Result.ConfidencePercent,
			&terms,
			&rec.Result.ModelID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		rec.Result.Class = domain.Label(class)
		if err := json.Unmarshal([]byte(terms), &rec.Result.TopTerms); err != nil {
			return nil, fmt.Errorf("decode top terms: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}
