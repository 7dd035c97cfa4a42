package factory

import (
	"io"

	"github.com/mikey/llm-scam-shield/internal/adapters/alerts"
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// AlertFactory creates the high-risk alert notifier
type AlertFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAlertFactory creates a new alert factory
func NewAlertFactory(cfg *config.Config, logger *zap.Logger) *AlertFactory {
	return &AlertFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAlertNotifier connects to the broker and returns the notifier with the connection to close.
// Both are nil when alerts are disabled.
func (f *AlertFactory) CreateAlertNotifier() (core.AlertNotifier, io.Closer, error) {
	alertsCfg := f.cfg.GetAlerts()
	if !alertsCfg.Enabled {
		f.logger.Info("High-risk alerts disabled")
		return nil, nil, nil
	}

	client, err := alerts.NewClient(alertsCfg.AMQPURL, alertsCfg.Exchange, f.logger)
	if err != nil {
		return nil, nil, err
	}

	return alerts.NewAMQPNotifier(client, alertsCfg.Exchange, alertsCfg.RoutingKey, f.logger), client, nil
}
