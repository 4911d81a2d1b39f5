package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/ports"
)

// FeedScannerDeps wires all driven adapters into the feed scan.
type FeedScannerDeps struct {
	Source     ports.FeedSource
	Repository ports.PredictionRepository
	Predictor  *Predictor
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// FeedScanner scores fresh feed items and reports low-credibility ones.
type FeedScanner struct {
	source     ports.FeedSource
	repository ports.PredictionRepository
	predictor  *Predictor
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewFeedScanner constructs the scan use case.
func NewFeedScanner(deps FeedScannerDeps) *FeedScanner {
	return &FeedScanner{
		source:     deps.Source,
		repository: deps.Repository,
		predictor:  deps.Predictor,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// ScanAll fetches items, skips ones already scored, predicts the rest and
// publishes a digest of low-credibility items.
func (s *FeedScanner) ScanAll(ctx context.Context) ([]domain.ScoredItem, error) {
	if s.source == nil || s.predictor == nil {
		return nil, nil
	}

	items, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}

	links := make([]string, 0, len(items))
	for _, item := range items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}

	skip := map[string]bool{}
	if s.repository != nil && len(links) > 0 {
		skip, err = s.repository.AlreadyScored(ctx, links)
		if err != nil {
			return nil, fmt.Errorf("load scored: %w", err)
		}
	}

	var scored []domain.ScoredItem
	for _, item := range items {
		if item.Link != "" && skip[item.Link] {
			continue
		}

		result, err := s.score(ctx, item)
		switch {
		case errors.Is(err, domain.ErrInputTooShort), errors.Is(err, domain.ErrExtractionFailed):
			s.debug("item skipped", "link", item.Link, "reason", err)
			continue
		case err != nil:
			return nil, fmt.Errorf("score item %s: %w", item.Link, err)
		}

		scored = append(scored, domain.ScoredItem{Item: item, Result: result})
	}
	s.debug("feed scan done", "items", len(items), "scored", len(scored))

	if s.notifier == nil {
		return scored, nil
	}

	message := buildDigestMessage(scored)
	if message == "" {
		return scored, nil
	}
	if err := s.notifier.PublishDigest(ctx, message); err != nil {
		return scored, fmt.Errorf("publish digest: %w", err)
	}
	return scored, nil
}

// score uses the feed text first and falls back to the linked article when
// the summary is too short to classify.
func (s *FeedScanner) score(ctx context.Context, item domain.FeedItem) (domain.PredictionResult, error) {
	text := strings.TrimSpace(item.Title + " " + item.Description)
	result, err := s.predictor.Handle(ctx, Request{Input: text, SourceURL: item.Link})
	if errors.Is(err, domain.ErrInputTooShort) && item.Link != "" {
		return s.predictor.Handle(ctx, Request{Input: item.Link, IsURL: true})
	}
	return result, err
}

func buildDigestMessage(items []domain.ScoredItem) string {
	var b strings.Builder
	for _, it := range items {
		if it.Result.Class != domain.LowCredibility {
			continue
		}
		fmt.Fprintf(&b, "- %s\n%s (%.1f%%)\nTerms: %s\n%s\n\n",
			it.Item.Title,
			it.Result.Label,
			it.Result.ConfidencePercent,
			strings.Join(it.Result.TopTerms, ", "),
			it.Item.Link)
	}
	return b.String()
}

func (s *FeedScanner) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
