package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"CredibilityScanner/internal/classifier"
	"CredibilityScanner/internal/config"
	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
	"CredibilityScanner/internal/httpapi"
	"CredibilityScanner/internal/infrastructure/artifact"
	"CredibilityScanner/internal/infrastructure/cache"
	"CredibilityScanner/internal/infrastructure/dataset"
	"CredibilityScanner/internal/infrastructure/extractor"
	"CredibilityScanner/internal/infrastructure/feed"
	"CredibilityScanner/internal/infrastructure/scheduler"
	"CredibilityScanner/internal/infrastructure/storage"
	"CredibilityScanner/internal/infrastructure/telegram"
	"CredibilityScanner/internal/logging"
	"CredibilityScanner/internal/ports"
	"CredibilityScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *artifact.FileStore
	history   *storage.SQLRepository
	trainer   *usecase.Trainer
	predictor *usecase.Predictor
	scanner   *usecase.FeedScanner
	scheduler *usecase.Scheduler
	closers   []func() error
}

// New builds the application. Database, Redis and Telegram are optional and
// only wired when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	registry := classifier.DefaultRegistry()
	a.store = artifact.NewFileStore(cfg.Artifacts.ModelPath, cfg.Artifacts.MetricsPath, registry,
		baseLogger.With("component", "artifacts"))

	var history ports.PredictionRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		a.history = storage.NewSQLRepository(db, cfg.Database.Driver)
		if err := a.history.Migrate(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
		history = a.history
	}

	var predictionCache ports.PredictionCache
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.TTL.Std())
		if err := rc.Ping(ctx); err != nil {
			baseLogger.Warn("redis unreachable, cache calls will fail softly", "addr", cfg.Redis.Addr, "error", err)
		}
		a.closers = append(a.closers, rc.Close)
		predictionCache = rc
	}

	a.trainer = usecase.NewTrainer(usecase.TrainerDeps{
		LowCredibility:  dataset.NewCSVSource(cfg.Training.LowCredibilityPath),
		HighCredibility: dataset.NewCSVSource(cfg.Training.HighCredibilityPath),
		Store:           a.store,
		Registry:        registry,
		Features:        features.DefaultOptions(),
		Seed:            cfg.Training.RandomSeed(),
		TestFraction:    cfg.Training.TestFraction,
		Logger:          baseLogger.With("component", "trainer"),
	})

	httpClient := &http.Client{Timeout: cfg.Extraction.Timeout.Std()}
	a.predictor = usecase.NewPredictor(usecase.PredictorDeps{
		Models:    a.store,
		Extractor: extractor.NewHTMLExtractor(httpClient, cfg.Extraction.UserAgent),
		Cache:     predictionCache,
		History:   history,
		Logger:    baseLogger.With("component", "predictor"),
	})

	sources := make([]feed.Source, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		sources = append(sources, feed.Source{Name: f.Name, URL: f.URL})
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID); tg.Configured() {
		notifier = tg
	}

	a.scanner = usecase.NewFeedScanner(usecase.FeedScannerDeps{
		Source:     feed.NewRSSSource(sources, cfg.Extraction.Timeout.Std(), cfg.Extraction.UserAgent, baseLogger.With("component", "feeds")),
		Repository: history,
		Predictor:  a.predictor,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "feedscan"),
	})
	a.scheduler = usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Scheduler.Interval.Std(), cfg.Scheduler.Location()),
		a.scanner,
		baseLogger.With("component", "scheduler"),
	)

	return a, nil
}

// Train fits every classifier and persists the deployed one.
func (a *Application) Train(ctx context.Context) (usecase.TrainingOutcome, error) {
	return a.trainer.Run(ctx)
}

// Predict classifies text, or the article behind a URL.
func (a *Application) Predict(ctx context.Context, input string, isURL bool) (domain.PredictionResult, error) {
	return a.predictor.Predict(ctx, input, isURL)
}

// Metrics reads the stored evaluation report.
func (a *Application) Metrics(ctx context.Context) (domain.MetricsReport, error) {
	return a.store.Metrics(ctx)
}

// Scan runs one feed scan.
func (a *Application) Scan(ctx context.Context) ([]domain.ScoredItem, error) {
	return a.scanner.ScanAll(ctx)
}

// Handler exposes the HTTP API.
func (a *Application) Handler() http.Handler {
	deps := httpapi.Deps{
		Predictor: a.predictor,
		Metrics:   a.store,
		Logger:    a.logger.With("component", "http"),
	}
	if a.history != nil {
		deps.History = a.history
	}
	return httpapi.NewServer(deps).SetupRouter()
}

// Serve runs the HTTP API until ctx is cancelled. With scan set, the feed
// scheduler runs alongside.
func (a *Application) Serve(ctx context.Context, scan bool) error {
	if scan {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := a.scheduler.Stop(stopCtx); err != nil {
				a.logger.Warn("scheduler stop", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases database and cache connections.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
