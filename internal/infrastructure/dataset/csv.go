package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/ports"
)

// CSVSource reads title/text rows from a headered CSV file. Other columns
// are ignored; the label is assigned by the trainer.
type CSVSource struct {
	path string
}

var _ ports.CorpusSource = (*CSVSource)(nil)

// NewCSVSource points at a labeled dataset file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load parses every row. Missing cells are kept as empty strings so the
// corpus builder can count and drop them.
func (s *CSVSource) Load(ctx context.Context) ([]domain.RawArticle, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return readArticles(ctx, f, s.path)
}

func readArticles(ctx context.Context, r io.Reader, name string) ([]domain.RawArticle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset %s: %w", name, domain.ErrEmptyCorpus)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset %s header: %w", name, err)
	}

	titleCol, textCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case "title":
			titleCol = i
		case "text":
			textCol = i
		}
	}
	if titleCol < 0 || textCol < 0 {
		return nil, fmt.Errorf("dataset %s: header must contain title and text columns", name)
	}

	var rows []domain.RawArticle
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset %s line %d: %w", name, line, err)
		}

		rows = append(rows, domain.RawArticle{
			Title: field(record, titleCol),
			Text:  field(record, textCol),
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", name, domain.ErrEmptyCorpus)
	}
	return rows, nil
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
