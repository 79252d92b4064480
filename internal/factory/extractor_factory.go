package factory

import (
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/adapters/extractor"
	"github.com/Caerfyrddin29/PhishDetector/internal/config"
	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"github.com/Caerfyrddin29/PhishDetector/internal/utils"
)

// ExtractorFactory creates content extractors
type ExtractorFactory struct {
	cfg    *config.Config
	text   *utils.TextProcessor
	logger *zap.Logger
}

// NewExtractorFactory creates a new extractor factory
func NewExtractorFactory(cfg *config.Config, text *utils.TextProcessor, logger *zap.Logger) *ExtractorFactory {
	return &ExtractorFactory{
		cfg:    cfg,
		text:   text,
		logger: logger,
	}
}

// CreateExtractor creates the message content extractor
func (f *ExtractorFactory) CreateExtractor() core.ContentExtractor {
	return extractor.NewEmlExtractor(f.text, f.cfg.GetInt("extractor.max_body_size"), f.logger)
}
