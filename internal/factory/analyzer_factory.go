package factory

import (
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/adapters/backend"
	"github.com/Caerfyrddin29/PhishDetector/internal/config"
	"github.com/Caerfyrddin29/PhishDetector/internal/core"
)

// AnalyzerFactory creates the analysis backend client
type AnalyzerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config, logger *zap.Logger) *AnalyzerFactory {
	return &AnalyzerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAnalyzer creates the backend analyzer client
func (f *AnalyzerFactory) CreateAnalyzer() (core.Analyzer, error) {
	backendCfg := f.cfg.GetBackend()
	f.logger.Info("Using analysis backend", zap.String("base_url", backendCfg.BaseURL))
	return backend.NewClient(backendCfg.BaseURL, f.logger), nil
}
