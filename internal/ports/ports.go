package ports

import (
	"context"
	"time"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/model"
)

// CorpusSource yields labeled raw rows for training.
type CorpusSource interface {
	Load(ctx context.Context) ([]domain.RawArticle, error)
}

// TextExtractor resolves a URL to raw article text.
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// ModelProvider hands out the deployed pipeline or domain.ErrModelUnavailable.
type ModelProvider interface {
	Model(ctx context.Context) (*model.Pipeline, error)
}

// ArtifactStore persists the trained pipeline and its metrics together.
type ArtifactStore interface {
	ModelProvider
	Save(ctx context.Context, p *model.Pipeline, report domain.MetricsReport) error
	Metrics(ctx context.Context) (domain.MetricsReport, error)
}

// PredictionCache memoises results per model and cleaned text.
type PredictionCache interface {
	Get(ctx context.Context, key string) (domain.PredictionResult, bool, error)
	Set(ctx context.Context, key string, result domain.PredictionResult) error
}

// PredictionRepository keeps the history of served predictions.
type PredictionRepository interface {
	AlreadyScored(ctx context.Context, urls []string) (map[string]bool, error)
	SavePrediction(ctx context.Context, record domain.PredictionRecord) error
	Recent(ctx context.Context, limit int) ([]domain.PredictionRecord, error)
}

// FeedSource pulls items from configured news feeds.
type FeedSource interface {
	Fetch(ctx context.Context) ([]domain.FeedItem, error)
}

// Notifier streams digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
