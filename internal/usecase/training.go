package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"CredibilityScanner/internal/classifier"
	"CredibilityScanner/internal/corpus"
	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/features"
	"CredibilityScanner/internal/model"
	"CredibilityScanner/internal/ports"
)

// DeploymentPolicy names how the deployed variant is chosen among candidates.
type DeploymentPolicy string

// PreferGeneralization deploys the linear model whatever the held-out scores.
const PreferGeneralization DeploymentPolicy = "preferGeneralization"

// deploymentPolicy is applied by every training run.
const deploymentPolicy = PreferGeneralization

// TrainerDeps wires corpus sources, artifact storage and hyperparameters.
type TrainerDeps struct {
	LowCredibility  ports.CorpusSource
	HighCredibility ports.CorpusSource
	Store           ports.ArtifactStore
	Registry        *classifier.Registry
	Features        features.Options
	Seed            uint64
	TestFraction    float64
	Logger          *slog.Logger
}

// TrainingOutcome is everything a training run produced.
type TrainingOutcome struct {
	Model     *model.Pipeline
	Report    domain.MetricsReport
	Corpus    corpus.Stats
	TrainSize int
	TestSize  int
}

// Trainer builds the corpus, fits every registered variant and persists one.
type Trainer struct {
	low          ports.CorpusSource
	high         ports.CorpusSource
	store        ports.ArtifactStore
	registry     *classifier.Registry
	features     features.Options
	seed         uint64
	testFraction float64
	logger       *slog.Logger
}

// NewTrainer applies defaults for unset hyperparameters.
func NewTrainer(deps TrainerDeps) *Trainer {
	t := &Trainer{
		low:          deps.LowCredibility,
		high:         deps.HighCredibility,
		store:        deps.Store,
		registry:     deps.Registry,
		features:     deps.Features,
		seed:         deps.Seed,
		testFraction: deps.TestFraction,
		logger:       deps.Logger,
	}
	if t.registry == nil {
		t.registry = classifier.DefaultRegistry()
	}
	if t.features == (features.Options{}) {
		t.features = features.DefaultOptions()
	}
	if t.testFraction == 0 {
		t.testFraction = 0.2
	}
	return t
}

// Train runs the whole job and returns the deployed model with its metrics.
func (t *Trainer) Train(ctx context.Context) (*model.Pipeline, domain.MetricsReport, error) {
	out, err := t.Run(ctx)
	if err != nil {
		return nil, domain.MetricsReport{}, err
	}
	return out.Model, out.Report, nil
}

// Run is Train with corpus statistics. Nothing is persisted unless every
// step succeeds.
func (t *Trainer) Run(ctx context.Context) (TrainingOutcome, error) {
	if t.store == nil {
		return TrainingOutcome{}, fmt.Errorf("artifact store is not configured")
	}

	rows, err := t.loadRows(ctx)
	if err != nil {
		return TrainingOutcome{}, err
	}

	examples, stats := corpus.Build(rows, t.seed)
	t.info("corpus prepared", "rows", stats.Rows, "missing", stats.Missing,
		"duplicates", stats.Duplicates, "too_short", stats.TooShort, "kept", stats.Kept)

	split, err := corpus.Stratify(examples, t.testFraction, t.seed)
	if err != nil {
		return TrainingOutcome{}, fmt.Errorf("split corpus: %w", err)
	}
	trainDocs, trainLabels := corpus.Docs(split.Train)
	testDocs, testLabels := corpus.Docs(split.Test)
	t.info("corpus split", "train", len(trainDocs), "test", len(testDocs))

	report := domain.MetricsReport{Models: map[string]domain.ModelMetrics{}}
	fitted := map[string]*model.Pipeline{}
	for _, name := range t.registry.Names() {
		if err := ctx.Err(); err != nil {
			return TrainingOutcome{}, err
		}

		clf, err := t.registry.Resolve(name)
		if err != nil {
			return TrainingOutcome{}, err
		}
		p := model.NewPipeline(clf, t.features)
		if err := p.Fit(trainDocs, trainLabels); err != nil {
			return TrainingOutcome{}, fmt.Errorf("train %s: %w", name, err)
		}

		predicted := make([]domain.Label, len(testDocs))
		for i, doc := range testDocs {
			if predicted[i], err = p.Predict(doc); err != nil {
				return TrainingOutcome{}, fmt.Errorf("evaluate %s: %w", name, err)
			}
		}

		metrics := corpus.Evaluate(testLabels, predicted)
		report.Models[name] = metrics
		fitted[name] = p
		t.info("model evaluated", "model", name, "accuracy", metrics.Accuracy, "f1", metrics.F1)
	}

	best, err := selectDeployed(deploymentPolicy, report)
	if err != nil {
		return TrainingOutcome{}, err
	}
	report.BestModel = best
	t.info("model selected", "model", best, "policy", string(deploymentPolicy))

	if err := t.store.Save(ctx, fitted[best], report); err != nil {
		return TrainingOutcome{}, fmt.Errorf("persist artifacts: %w", err)
	}

	return TrainingOutcome{
		Model:     fitted[best],
		Report:    report,
		Corpus:    stats,
		TrainSize: len(trainDocs),
		TestSize:  len(testDocs),
	}, nil
}

func (t *Trainer) loadRows(ctx context.Context) ([]domain.RawArticle, error) {
	var rows []domain.RawArticle
	sources := []struct {
		name   string
		label  domain.Label
		source ports.CorpusSource
	}{
		{"low credibility", domain.LowCredibility, t.low},
		{"high credibility", domain.HighCredibility, t.high},
	}

	for _, s := range sources {
		if s.source == nil {
			return nil, fmt.Errorf("%s corpus is not configured", s.name)
		}
		loaded, err := s.source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s corpus: %w", s.name, err)
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("load %s corpus: %w", s.name, domain.ErrEmptyCorpus)
		}
		for i := range loaded {
			loaded[i].Label = s.label
		}
		t.info("corpus loaded", "source", s.name, "rows", len(loaded))
		rows = append(rows, loaded...)
	}
	return rows, nil
}

func selectDeployed(policy DeploymentPolicy, report domain.MetricsReport) (string, error) {
	switch policy {
	case PreferGeneralization:
		if _, ok := report.Models[classifier.LogisticRegressionID]; !ok {
			return "", fmt.Errorf("policy %s requires %s to be trained", policy, classifier.LogisticRegressionID)
		}
		return classifier.LogisticRegressionID, nil
	default:
		return "", fmt.Errorf("unknown deployment policy %s", policy)
	}
}

func (t *Trainer) info(msg string, args ...interface{}) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}
