package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"CredibilityScanner/internal/classifier"
	"CredibilityScanner/internal/domain"
	"CredibilityScanner/internal/model"
	"CredibilityScanner/internal/ports"
)

// FileStore keeps the deployed model and its metrics as two JSON files.
// Both are replaced together or not at all.
type FileStore struct {
	modelPath   string
	metricsPath string
	registry    *classifier.Registry
	logger      *slog.Logger
	rename      func(oldPath, newPath string) error

	mu         sync.Mutex
	cached     *model.Pipeline
	cachedInfo fs.FileInfo
}

var _ ports.ArtifactStore = (*FileStore)(nil)

// NewFileStore wires artifact paths; reg resolves classifier variants on load.
func NewFileStore(modelPath, metricsPath string, reg *classifier.Registry, log *slog.Logger) *FileStore {
	if reg == nil {
		reg = classifier.DefaultRegistry()
	}
	return &FileStore{
		modelPath:   modelPath,
		metricsPath: metricsPath,
		registry:    reg,
		logger:      log,
		rename:      os.Rename,
	}
}

// Save writes both artifacts to temporary files and then swaps them in.
// If the second swap fails the first is rolled back.
func (s *FileStore) Save(ctx context.Context, p *model.Pipeline, report domain.MetricsReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var modelBuf bytes.Buffer
	if err := model.Encode(&modelBuf, p); err != nil {
		return err
	}
	metricsRaw, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	modelTmp, metricsTmp := s.modelPath+".tmp", s.metricsPath+".tmp"
	defer os.Remove(modelTmp)
	defer os.Remove(metricsTmp)

	if err := writeFile(modelTmp, modelBuf.Bytes()); err != nil {
		return err
	}
	if err := writeFile(metricsTmp, metricsRaw); err != nil {
		return err
	}

	modelBak, err := s.backup(s.modelPath)
	if err != nil {
		return err
	}
	metricsBak, err := s.backup(s.metricsPath)
	if err != nil {
		discard(modelBak)
		return err
	}
	defer discard(modelBak)
	defer discard(metricsBak)

	if err := s.rename(modelTmp, s.modelPath); err != nil {
		return fmt.Errorf("install model: %w", err)
	}
	if err := s.rename(metricsTmp, s.metricsPath); err != nil {
		s.restore(s.modelPath, modelBak)
		return fmt.Errorf("install metrics: %w", err)
	}

	s.cached = nil
	s.debug("artifacts saved", "model", s.modelPath, "metrics", s.metricsPath, "id", p.ID)
	return nil
}

// Model loads the deployed pipeline, reusing the decoded copy while the
// same file is in place and unmodified.
func (s *FileStore) Model(ctx context.Context) (*model.Pipeline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.modelPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no artifact at %s", domain.ErrModelUnavailable, s.modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("stat model: %w", err)
	}
	if s.cached != nil && os.SameFile(info, s.cachedInfo) && info.ModTime().Equal(s.cachedInfo.ModTime()) {
		return s.cached, nil
	}

	f, err := os.Open(s.modelPath)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	p, err := model.Decode(f, s.registry)
	if err != nil {
		return nil, err
	}
	s.cached, s.cachedInfo = p, info
	s.debug("model loaded", "path", s.modelPath, "id", p.ID, "name", p.Name)
	return p, nil
}

// Metrics reads the metrics artifact.
func (s *FileStore) Metrics(ctx context.Context) (domain.MetricsReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.MetricsReport{}, err
	}

	raw, err := os.ReadFile(s.metricsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.MetricsReport{}, fmt.Errorf("%w: no metrics at %s", domain.ErrModelUnavailable, s.metricsPath)
	}
	if err != nil {
		return domain.MetricsReport{}, fmt.Errorf("read metrics: %w", err)
	}

	var report domain.MetricsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.MetricsReport{}, fmt.Errorf("decode metrics: %w", err)
	}
	return report, nil
}

// backup keeps a second name for the live artifact so it stays in place
// until the replacement is renamed over it. It returns "" when there is
// nothing to back up.
func (s *FileStore) backup(path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	bak := path + ".bak"
	_ = os.Remove(bak)
	if err := os.Link(path, bak); err == nil {
		return bak, nil
	}
	if err := copyFile(path, bak); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return bak, nil
}

// restore puts the backup back in place, or removes path when there was no
// previous artifact.
func (s *FileStore) restore(path, bak string) {
	var err error
	if bak == "" {
		err = os.Remove(path)
	} else {
		err = os.Rename(bak, path)
	}
	if err != nil && s.logger != nil {
		s.logger.Error("restore artifact", "path", path, "error", err)
	}
}

func discard(bak string) {
	if bak != "" {
		_ = os.Remove(bak)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
