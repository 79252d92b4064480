package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/adapters/notify"
	"github.com/Caerfyrddin29/PhishDetector/internal/config"
	"github.com/Caerfyrddin29/PhishDetector/internal/core"
)

// NotifierFactory creates outcome notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	notifyCfg := f.cfg.GetNotify()

	switch notifyCfg.Type {
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	case "amqp":
		return notify.NewAMQPNotifier(notifyCfg.AMQPURL, notifyCfg.AMQPExchange, f.logger)
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifyCfg.Type)
	}
}
