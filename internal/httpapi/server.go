package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/usecase"
)

// Predictor runs one inference request.
type Predictor interface {
	Handle(ctx context.Context, req usecase.Request) (domain.PredictionResult, error)
}

// MetricsSource exposes the stored evaluation report.
type MetricsSource interface {
	Metrics(ctx context.Context) (domain.MetricsReport, error)
}

// HistorySource lists recent predictions.
type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]domain.PredictionRecord, error)
}

// Deps are the collaborators behind the routes. History is optional.
type Deps struct {
	Predictor Predictor
	Metrics   MetricsSource
	History   HistorySource
	Logger    *slog.Logger
}

// Server serves the credibility API over gin.
type Server struct {
	predictor Predictor
	metrics   MetricsSource
	history   HistorySource
	logger    *slog.Logger
}

// NewServer wires handlers to their collaborators.
func NewServer(deps Deps) *Server {
	return &Server{
		predictor: deps.Predictor,
		metrics:   deps.Metrics,
		history:   deps.History,
		logger:    deps.Logger,
	}
}

// SetupRouter builds the gin engine with all routes registered.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	r.POST("/predict", s.Predict)
	r.GET("/metrics", s.Metrics)
	r.GET("/predictions", s.Recent)

	return r
}

// PredictRequest carries either raw text or a URL to fetch.
type PredictRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Predict classifies the submitted text or article URL.
func (s *Server) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	text, url := strings.TrimSpace(req.Text), strings.TrimSpace(req.URL)
	if (text == "") == (url == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of text or url is required"})
		return
	}

	call := usecase.Request{Input: text}
	if url != "" {
		call = usecase.Request{Input: url, IsURL: true}
	}

	result, err := s.predictor.Handle(c.Request.Context(), call)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Metrics returns the evaluation report of the last training run.
func (s *Server) Metrics(c *gin.Context) {
	report, err := s.metrics.Metrics(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type recordResponse struct {
	ID        string                  `json:"id"`
	SourceURL string                  `json:"sourceUrl,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	Result    domain.PredictionResult `json:"result"`
}

// Recent lists stored predictions, newest first.
func (s *Server) Recent(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prediction history is disabled"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	records, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordResponse{
			ID:        rec.ID,
			SourceURL: rec.SourceURL,
			CreatedAt: rec.CreatedAt,
			Result:    rec.Result,
		})
	}
	c.JSON(http.StatusOK, gin.H{"predictions": out})
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInputTooShort):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.log(slog.LevelError, "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log(slog.LevelDebug, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) log(level slog.Level, msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}
