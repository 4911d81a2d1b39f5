package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/ports"
)

// Source names a feed to poll.
type Source struct {
	Name string
	URL  string
}

// RSSSource polls RSS/Atom feeds via gofeed.
type RSSSource struct {
	parser  *gofeed.Parser
	sources []Source
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.FeedSource = (*RSSSource)(nil)

// NewRSSSource constructs a feed source; timeout bounds each feed request.
func NewRSSSource(sources []Source, timeout time.Duration, userAgent string, logger *slog.Logger) *RSSSource {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &RSSSource{
		parser:  parser,
		sources: sources,
		timeout: timeout,
		logger:  logger,
	}
}

// Fetch returns items from every reachable feed. A failing feed is logged and
// skipped; the call errors only when all feeds fail.
func (r *RSSSource) Fetch(ctx context.Context) ([]domain.FeedItem, error) {
	var (
		items    []domain.FeedItem
		failures int
		lastErr  error
	)

	for _, src := range r.sources {
		fetched, err := r.fetchOne(ctx, src)
		if err != nil {
			failures++
			lastErr = err
			r.warn("feed fetch failed", "feed", src.Name, "error", err)
			continue
		}
		items = append(items, fetched...)
	}

	if len(r.sources) > 0 && failures == len(r.sources) {
		return nil, fmt.Errorf("all feeds failed: %w", lastErr)
	}
	return items, nil
}

func (r *RSSSource) fetchOne(ctx context.Context, src Source) ([]domain.FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	parsed, err := r.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	name := src.Name
	if name == "" {
		name = parsed.Title
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil || it.Link == "" {
			continue
		}

		description := it.Description
		if description == "" {
			description = it.Content
		}

		item := domain.FeedItem{
			Feed:        name,
			Title:       strings.TrimSpace(it.Title),
			Description: plainText(description),
			Link:        it.Link,
		}
		switch {
		case it.PublishedParsed != nil:
			item.PublishedAt = it.PublishedParsed.UTC()
		case it.UpdatedParsed != nil:
			item.PublishedAt = it.UpdatedParsed.UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

// plainText drops markup from feed summaries.
func plainText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func (r *RSSSource) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
