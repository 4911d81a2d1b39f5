package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/model"
	"CredibilityScanner/internal/normalize"
	"CredibilityScanner/internal/ports"
)

// TopTermCount bounds the salient terms returned with each prediction.
const TopTermCount = 5

// PredictorDeps wires the model provider and optional collaborators.
type PredictorDeps struct {
	Models    ports.ModelProvider
	Extractor ports.TextExtractor
	Cache     ports.PredictionCache
	History   ports.PredictionRepository
	Logger    *slog.Logger
}

// Predictor composes normalizer, vectorizer and classifier for one input.
type Predictor struct {
	models    ports.ModelProvider
	extractor ports.TextExtractor
	cache     ports.PredictionCache
	history   ports.PredictionRepository
	logger    *slog.Logger
}

// Request is a single inference call. SourceURL is recorded in history and
// defaults to Input when IsURL is set.
type Request struct {
	Input     string
	IsURL     bool
	SourceURL string
}

// NewPredictor constructs the inference service.
func NewPredictor(deps PredictorDeps) *Predictor {
	return &Predictor{
		models:    deps.Models,
		extractor: deps.Extractor,
		cache:     deps.Cache,
		history:   deps.History,
		logger:    deps.Logger,
	}
}

// Predict classifies raw text, or the article behind a URL when isURL is set.
func (p *Predictor) Predict(ctx context.Context, input string, isURL bool) (domain.PredictionResult, error) {
	return p.Handle(ctx, Request{Input: input, IsURL: isURL})
}

// Handle runs the full inference flow for req.
func (p *Predictor) Handle(ctx context.Context, req Request) (domain.PredictionResult, error) {
	text := req.Input
	sourceURL := req.SourceURL
	if req.IsURL {
		extracted, err := p.extract(ctx, req.Input)
		if err != nil {
			return domain.PredictionResult{}, err
		}
		text = extracted
		if sourceURL == "" {
			sourceURL = req.Input
		}
	}

	cleaned := normalize.Clean(text)
	if normalize.WordCount(cleaned) < domain.MinWords {
		return domain.PredictionResult{}, domain.ErrInputTooShort
	}

	if p.models == nil {
		return domain.PredictionResult{}, domain.ErrModelUnavailable
	}
	m, err := p.models.Model(ctx)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	key := cacheKey(m.ID, cleaned)
	if result, ok := p.cached(ctx, key); ok {
		p.record(ctx, sourceURL, result)
		return result, nil
	}

	result, err := Score(m, cleaned)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	p.debug("prediction", "label", result.Label, "confidence", result.ConfidencePercent, "model", m.ID)

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, result); err != nil {
			p.warn("cache store failed", "error", err)
		}
	}
	p.record(ctx, sourceURL, result)
	return result, nil
}

// Score classifies already-cleaned text with m. Confidence falls back to 0
// when the classifier has no probability output.
func Score(m *model.Pipeline, cleaned string) (domain.PredictionResult, error) {
	scored, err := m.Score(cleaned)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	confidence := 0.0
	if len(scored.Probabilities) > 0 {
		confidence = slices.Max(scored.Probabilities) * 100
	}

	return domain.PredictionResult{
		Label:             scored.Label.String(),
		Class:             scored.Label,
		ConfidencePercent: confidence,
		TopTerms:          m.TopTerms(scored.Vector, TopTermCount),
		ModelID:           m.ID,
	}, nil
}

func (p *Predictor) extract(ctx context.Context, url string) (string, error) {
	if p.extractor == nil {
		return "", fmt.Errorf("%w: no extractor configured", domain.ErrExtractionFailed)
	}
	text, err := p.extractor.Extract(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty document", domain.ErrExtractionFailed)
	}
	return text, nil
}

func (p *Predictor) cached(ctx context.Context, key string) (domain.PredictionResult, bool) {
	if p.cache == nil {
		return domain.PredictionResult{}, false
	}
	result, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.warn("cache lookup failed", "error", err)
		return domain.PredictionResult{}, false
	}
	return result, ok
}

func (p *Predictor) record(ctx context.Context, sourceURL string, result domain.PredictionResult) {
	if p.history == nil {
		return
	}
	err := p.history.SavePrediction(ctx, domain.PredictionRecord{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		p.warn("history store failed", "error", err)
	}
}

func cacheKey(modelID, cleaned string) string {
	sum := sha256.Sum256([]byte(cleaned))
	return modelID + ":" + hex.EncodeToString(sum[:])
}

func (p *Predictor) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Predictor) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
