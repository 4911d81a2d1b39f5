package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CredibilityScanner/internal/domain"
)

const articlePage = `<html><head><title>Site | Story</title><script>var x = 1;</script></head>
<body>
<nav><p>Menu</p></nav>
<h1>Senate passes budget</h1>
<article>
  <p>The senate passed the annual budget on Tuesday after a long debate between the parties.</p>
  <p>Officials said the measure funds infrastructure and education programs for the next fiscal year.</p>
</article>
</body></html>`

const shortArticlePage = `<html><head><title>Fallback headline</title></head>
<body>
<article><p>Tiny.</p></article>
<div><p>First paragraph outside the article element.</p><p>Second paragraph.</p></div>
</body></html>`

func TestExtractArticleParagraphs(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	text, err := NewHTMLExtractor(srv.Client(), "test-agent").Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "test-agent", <-agents)
	assert.True(t, strings.HasPrefix(text, "Senate passes budget The senate passed"))
	assert.Contains(t, text, "education programs")
	assert.NotContains(t, text, "Menu")
	assert.NotContains(t, text, "var x")
}

func TestExtractFallsBackToAllParagraphs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shortArticlePage))
	}))
	defer srv.Close()

	text, err := NewHTMLExtractor(srv.Client(), "").Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Fallback headline Tiny. First paragraph outside the article element. Second paragraph.", text)
}

func TestExtractFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			_, _ = w.Write([]byte("<html><body></body></html>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ext := NewHTMLExtractor(srv.Client(), "")

	_, err := ext.Extract(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	_, err = ext.Extract(context.Background(), srv.URL+"/empty")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	_, err = ext.Extract(context.Background(), "://bad-url")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
