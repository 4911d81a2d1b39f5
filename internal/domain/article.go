package domain

import "time"

// Label is the binary credibility class.
type Label int

const (
	LowCredibility  Label = 0
	HighCredibility Label = 1
)

// String maps the class to its user-facing name.
func (l Label) String() string {
	if l == HighCredibility {
		return "High Credibility"
	}
	return "Low Credibility"
}

// RawArticle is a single row from a labeled training source.
type RawArticle struct {
	Title string
	Text  string
	Label Label
}

// Content joins title and body the way both training and feed scanning expect.
func (a RawArticle) Content() string {
	return a.Title + " " + a.Text
}

// LabeledExample is a cleaned document paired with its class.
type LabeledExample struct {
	Content string
	Label   Label
}

// PredictionResult is returned for every successful inference call.
type PredictionResult struct {
	Label             string   `json:"label"`
	Class             Label    `json:"class"`
	ConfidencePercent float64  `json:"confidencePercent"`
	TopTerms          []string `json:"topTerms"`
	ModelID           string   `json:"modelId"`
}

// PredictionRecord is the persisted history entry of a served prediction.
type PredictionRecord struct {
	ID        string
	SourceURL string
	Result    PredictionResult
	CreatedAt time.Time
}

// FeedItem is a single entry fetched from a news feed.
type FeedItem struct {
	Feed        string
	Title       string
	Description string
	Link        string
	PublishedAt time.Time
}

// ScoredItem pairs a feed entry with its prediction.
type ScoredItem struct {
	Item   FeedItem
	Result PredictionResult
}
