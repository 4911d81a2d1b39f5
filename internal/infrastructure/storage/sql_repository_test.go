package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CredibilityScanner/internal/domain"
)

func newTestRepository(t *testing.T) *SQLRepository {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLRepository(db, DriverSQLite)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func record(id, url string, at time.Time, class domain.Label) domain.PredictionRecord {
	return domain.PredictionRecord{
		ID:        id,
		SourceURL: url,
		CreatedAt: at,
		Result: domain.PredictionResult{
			Label:             class.String(),
			Class:             class,
			ConfidencePercent: 87.5,
			TopTerms:          []string{"hoax", "secret"},
			ModelID:           "model-1",
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SavePrediction(ctx, record("a", "https://x.example/1", base, domain.LowCredibility)))
	require.NoError(t, repo.SavePrediction(ctx, record("b", "https://x.example/2", base.Add(time.Minute), domain.HighCredibility)))
	require.NoError(t, repo.SavePrediction(ctx, record("c", "", base.Add(2*time.Minute), domain.LowCredibility)))

	scored, err := repo.AlreadyScored(ctx, []string{"https://x.example/1", "https://x.example/3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"https://x.example/1": true}, scored)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, record("b", "https://x.example/2", base.Add(time.Minute), domain.HighCredibility), recent[1])
}

func TestRepositoryDuplicateID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	rec := record("dup", "https://x.example/1", time.Now(), domain.LowCredibility)

	require.NoError(t, repo.SavePrediction(ctx, rec))
	assert.Error(t, repo.SavePrediction(ctx, rec))
}

func TestRepositoryWithoutDatabase(t *testing.T) {
	t.Parallel()

	repo := NewSQLRepository(nil, DriverPostgres)
	scored, err := repo.AlreadyScored(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Empty(t, scored)
	assert.NoError(t, repo.SavePrediction(context.Background(), domain.PredictionRecord{}))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "mysql", "dsn")
	assert.ErrorContains(t, err, "unsupported")
}
