package reporting

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/config"
)

// Forwarder submits reported messages to a configured abuse mailbox.
// When no abuse address is configured it is disabled and Forward is a
// no-op success.
type Forwarder struct {
	cfg    config.ReportingConfig
	logger *zap.Logger
}

// NewForwarder creates an abuse forwarder
func NewForwarder(cfg config.ReportingConfig, logger *zap.Logger) *Forwarder {
	return &Forwarder{cfg: cfg, logger: logger}
}

// Enabled reports whether an abuse address is configured
func (f *Forwarder) Enabled() bool {
	return f.cfg.AbuseAddress != ""
}

// Forward wraps the reported raw message and submits it via SMTP
func (f *Forwarder) Forward(sender string, raw []byte) error {
	if !f.Enabled() {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", f.cfg.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", f.cfg.AbuseAddress)
	fmt.Fprintf(&msg, "Subject: Reported phishing message from %s\r\n", sender)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("Content-Type: message/rfc822\r\n")
	msg.WriteString("\r\n")
	msg.Write(raw)

	var auth smtp.Auth
	if f.cfg.SMTPUsername != "" {
		host := f.cfg.SMTPAddress
		if idx := strings.LastIndex(host, ":"); idx >= 0 {
			host = host[:idx]
		}
		auth = smtp.PlainAuth("", f.cfg.SMTPUsername, f.cfg.SMTPPassword, host)
	}

	if err := smtp.SendMail(f.cfg.SMTPAddress, auth, f.cfg.FromAddress, []string{f.cfg.AbuseAddress}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to forward reported message: %w", err)
	}

	f.logger.Info("Reported message forwarded",
		zap.String("sender", sender),
		zap.String("abuse_address", f.cfg.AbuseAddress))
	return nil
}
