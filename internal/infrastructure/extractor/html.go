package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/ports"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; CredibilityScanner/1.0)"
	minArticleChars  = 100
)

// HTMLExtractor downloads a page and keeps its headline and paragraph text.
type HTMLExtractor struct {
	client    *http.Client
	userAgent string
}

var _ ports.TextExtractor = (*HTMLExtractor)(nil)

// NewHTMLExtractor wires an HTTP client; a nil client gets a 10s timeout.
func NewHTMLExtractor(client *http.Client, userAgent string) *HTMLExtractor {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTMLExtractor{client: client, userAgent: userAgent}
}

// Extract returns title and body text. Every failure wraps domain.ErrExtractionFailed.
func (e *HTMLExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	doc, err := e.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, pageURL, err)
	}

	text := articleText(doc)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s: no readable text", domain.ErrExtractionFailed, pageURL)
	}
	return text, nil
}

func (e *HTMLExtractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func articleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	body := paragraphs(doc.Find("article p"))
	if len(body) < minArticleChars {
		body = paragraphs(doc.Find("p"))
	}

	return strings.TrimSpace(title + " " + body)
}

func paragraphs(sel *goquery.Selection) string {
	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, p *goquery.Selection) {
		if text := strings.Join(strings.Fields(p.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}
