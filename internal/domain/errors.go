package domain

import "errors"

var (
	// ErrModelUnavailable means no trained artifact exists yet.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrExtractionFailed means the URL collaborator produced no usable text.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrInputTooShort means fewer than MinWords remain after cleaning.
	ErrInputTooShort = errors.New("input too short")
	// ErrNotFitted means a transform was attempted before fit.
	ErrNotFitted = errors.New("vectorizer is not fitted")
	// ErrProbabilityUnsupported is returned by classifiers without probability output.
	ErrProbabilityUnsupported = errors.New("probability output unsupported")
	// ErrEmptyCorpus aborts training when a source or split has no rows.
	ErrEmptyCorpus = errors.New("empty corpus")
)

// MinWords is the cleaned word count below which a document is never scored.
const MinWords = 10
