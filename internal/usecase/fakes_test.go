package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/model"
)

var (
	lowVocab = []string{
		"shocking", "secret", "aliens", "unnamed", "sources", "claim", "hoax", "exposed",
		"miracle", "cure", "banned", "insiders", "reveal", "coverup", "rigged", "landed", "speaking",
	}
	highVocab = []string{
		"ministry", "officials", "statement", "capital", "city", "according", "record", "quarterly",
		"parliament", "analysts", "percent", "reported", "agency", "budget", "committee", "data",
	}
	sharedVocab = []string{"the", "people", "week", "government", "news"}
)

func tag(prefix string, n int) string {
	var b strings.Builder
	b.WriteString(prefix)
	for {
		b.WriteByte(byte('a' + n%26))
		n /= 26
		if n == 0 {
			break
		}
	}
	return b.String()
}

func article(vocab []string, prefix string, i int) domain.RawArticle {
	title := []string{vocab[i%len(vocab)], vocab[(i+3)%len(vocab)], tag(prefix, i)}
	var text []string
	for j := 0; j < 12; j++ {
		text = append(text, vocab[(i*7+j*5)%len(vocab)])
		if j%4 == 0 {
			text = append(text, sharedVocab[(i+j)%len(sharedVocab)])
		}
	}
	return domain.RawArticle{Title: strings.Join(title, " "), Text: strings.Join(text, " ") + fmt.Sprintf(" %d.", i)}
}

func articles(vocab []string, prefix string, n int) []domain.RawArticle {
	out := make([]domain.RawArticle, n)
	for i := range out {
		out[i] = article(vocab, prefix, i)
	}
	return out
}

type staticSource struct {
	rows []domain.RawArticle
	err  error
}

func (s staticSource) Load(context.Context) ([]domain.RawArticle, error) {
	out := make([]domain.RawArticle, len(s.rows))
	copy(out, s.rows)
	return out, s.err
}

type memoryStore struct {
	mu     sync.Mutex
	model  *model.Pipeline
	report domain.MetricsReport
	saves  int
}

func (m *memoryStore) Save(_ context.Context, p *model.Pipeline, report domain.MetricsReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model, m.report = p, report
	m.saves++
	return nil
}

func (m *memoryStore) Model(context.Context) (*model.Pipeline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model == nil {
		return nil, domain.ErrModelUnavailable
	}
	return m.model, nil
}

func (m *memoryStore) Metrics(context.Context) (domain.MetricsReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model == nil {
		return domain.MetricsReport{}, domain.ErrModelUnavailable
	}
	return m.report, nil
}

type fakeExtractor struct {
	pages map[string]string
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (string, error) {
	f.calls++
	text, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("fetch %s: 404 Not Found", url)
	}
	return text, nil
}

type fakeCache struct {
	entries map[string]domain.PredictionResult
	hits    int
}

func (f *fakeCache) Get(_ context.Context, key string) (domain.PredictionResult, bool, error) {
	r, ok := f.entries[key]
	if ok {
		f.hits++
	}
	return r, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, result domain.PredictionResult) error {
	if f.entries == nil {
		f.entries = map[string]domain.PredictionResult{}
	}
	f.entries[key] = result
	return nil
}

type fakeHistory struct {
	records []domain.PredictionRecord
}

func (f *fakeHistory) AlreadyScored(_ context.Context, urls []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, r := range f.records {
		for _, u := range urls {
			if r.SourceURL == u {
				out[u] = true
			}
		}
	}
	return out, nil
}

func (f *fakeHistory) SavePrediction(_ context.Context, record domain.PredictionRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]domain.PredictionRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[len(f.records)-limit:], nil
}

type staticFeed struct {
	items []domain.FeedItem
}

func (s staticFeed) Fetch(context.Context) ([]domain.FeedItem, error) {
	return s.items, nil
}

type recordingNotifier struct {
	digests []string
}

func (r *recordingNotifier) PublishDigest(_ context.Context, digest string) error {
	r.digests = append(r.digests, digest)
	return nil
}
