package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/agent"
	"github.com/Caerfyrddin29/PhishDetector/internal/config"
	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"github.com/Caerfyrddin29/PhishDetector/internal/factory"
	"github.com/Caerfyrddin29/PhishDetector/internal/logging"
	"github.com/Caerfyrddin29/PhishDetector/internal/reporting"
	"github.com/Caerfyrddin29/PhishDetector/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAnalyzerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewExtractorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register settings store and serialized document
	if err := container.Provide(func(f *factory.StoreFactory) (core.SettingsStore, error) {
		return f.CreateSettingsStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(store core.SettingsStore) (*core.Document, error) {
		return core.NewDocument(context.Background(), store)
	}); err != nil {
		return nil, err
	}

	// Register analyzer client
	if err := container.Provide(func(f *factory.AnalyzerFactory) (core.Analyzer, error) {
		return f.CreateAnalyzer()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register content extractor
	if err := container.Provide(func(f *factory.ExtractorFactory) core.ContentExtractor {
		return f.CreateExtractor()
	}); err != nil {
		return nil, err
	}

	// Register core services
	if err := container.Provide(core.NewHistoryTracker); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewReputation); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewScanService); err != nil {
		return nil, err
	}

	// Register abuse forwarder
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *reporting.Forwarder {
		return reporting.NewForwarder(cfg.GetReporting(), logger)
	}); err != nil {
		return nil, err
	}

	// Register agent API server
	if err := container.Provide(agent.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
