package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// Publisher sends an encoded message to a broker
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey, messageID string, body []byte) error
}

// HighRiskAlert is the message published for every RED result
type HighRiskAlert struct {
	ID             string        `json:"id"`
	RiskTier       core.RiskTier `json:"riskTier"`
	Category       string        `json:"category"`
	Explanation    string        `json:"explanation"`
	MessageExcerpt string        `json:"messageExcerpt"`
	ModelUsed      string        `json:"modelUsed"`
	DetectedAt     time.Time     `json:"detectedAt"`
}

// AMQPNotifier is an implementation of the AlertNotifier interface that publishes to RabbitMQ
type AMQPNotifier struct {
	publisher  Publisher
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewAMQPNotifier creates a new notifier
func NewAMQPNotifier(publisher Publisher, exchange, routingKey string, logger *zap.Logger) *AMQPNotifier {
	return &AMQPNotifier{
		publisher:  publisher,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}
}

// NotifyHighRisk publishes an alert for result
func (n *AMQPNotifier) NotifyHighRisk(ctx context.Context, result *core.AnalysisResult) error {
	alert := HighRiskAlert{
		ID:             result.ID,
		RiskTier:       result.RiskTier,
		Category:       result.Category,
		Explanation:    result.Explanation,
		MessageExcerpt: result.MessageExcerpt,
		ModelUsed:      result.ModelUsed,
		DetectedAt:     result.Timestamp,
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	if err := n.publisher.Publish(ctx, n.exchange, n.routingKey, result.ID, body); err != nil {
		return err
	}

	n.logger.Debug("Published high-risk alert",
		zap.String("id", result.ID),
		zap.String("exchange", n.exchange),
		zap.String("routing_key", n.routingKey))
	return nil
}
