package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
)

// LogNotifier writes resolved outcomes to the structured log. It is
// the default notifier when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyOutcome logs the resolved outcome
func (n *LogNotifier) NotifyOutcome(ctx context.Context, req *core.ScanRequest, result *core.ScanResult) error {
	n.logger.Info("Scan outcome",
		zap.String("scan_id", req.ID),
		zap.String("sender", req.Sender),
		zap.Bool("is_phishing", result.IsPhishing),
		zap.Int("score", result.Score),
		zap.Strings("reasons", result.Reasons))
	return nil
}
