package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
)

// RoutingKeyScanCompleted is the routing key for resolved outcomes
const RoutingKeyScanCompleted = "scan.completed"

// outcomeMessage is the published payload shape
type outcomeMessage struct {
	ScanID        string    `json:"scan_id"`
	Sender        string    `json:"sender"`
	IsPhishing    bool      `json:"is_phishing"`
	Score         int       `json:"score"`
	Reasons       []string  `json:"reasons"`
	MaliciousURLs []string  `json:"malicious_urls"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// AMQPNotifier publishes resolved outcomes to a RabbitMQ exchange so
// an external presentation layer can subscribe to them
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewAMQPNotifier connects to the broker and declares the exchange
func NewAMQPNotifier(url, exchange string, logger *zap.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	logger.Info("AMQP notifier connected", zap.String("exchange", exchange))
	return &AMQPNotifier{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// NotifyOutcome publishes the resolved outcome
func (n *AMQPNotifier) NotifyOutcome(ctx context.Context, req *core.ScanRequest, result *core.ScanResult) error {
	body, err := json.Marshal(outcomeMessage{
		ScanID:        req.ID,
		Sender:        req.Sender,
		IsPhishing:    result.IsPhishing,
		Score:         result.Score,
		Reasons:       result.Reasons,
		MaliciousURLs: result.MaliciousURLs,
		AnalyzedAt:    result.AnalyzedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outcome message: %w", err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,
		RoutingKeyScanCompleted,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish outcome: %w", err)
	}

	n.logger.Debug("Outcome published",
		zap.String("scan_id", req.ID),
		zap.String("routing_key", RoutingKeyScanCompleted))
	return nil
}

// Close closes the channel and connection
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.channel.Close(); err != nil {
		n.conn.Close()
		return fmt.Errorf("failed to close AMQP channel: %w", err)
	}
	if err := n.conn.Close(); err != nil {
		return fmt.Errorf("failed to close AMQP connection: %w", err)
	}
	return nil
}
