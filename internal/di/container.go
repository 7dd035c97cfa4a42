package di

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/factory"
	"github.com/mikey/llm-scam-shield/internal/logging"
	"github.com/mikey/llm-scam-shield/internal/ports"
	"github.com/mikey/llm-scam-shield/internal/utils"
)

// BuildContainer creates and configures a dependency injection container for the daemon.
// An empty configPath searches the default config locations.
func BuildContainer(configPath string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.NewFromFile(configPath)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideEngine(container); err != nil {
		return nil, err
	}

	// Register history store
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.HistoryFactory) (factory.HistoryStore, error) {
		return f.CreateHistoryStore(context.Background())
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(store factory.HistoryStore) core.HistoryRepository {
		if store == nil {
			return nil
		}
		return store
	}); err != nil {
		return nil, err
	}

	// Register alert notifier; a broker outage leaves alerting off rather than failing startup
	if err := container.Provide(factory.NewAlertFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.AlertFactory, logger *zap.Logger) (core.AlertNotifier, io.Closer) {
		notifier, closer, err := f.CreateAlertNotifier()
		if err != nil {
			logger.Error("Failed to connect alert broker, continuing without alerts", zap.Error(err))
			return nil, nil
		}
		return notifier, closer
	}); err != nil {
		return nil, err
	}

	if err := provideChecker(container); err != nil {
		return nil, err
	}

	// Register frontends
	if err := container.Provide(validator.New); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) ([]ports.Frontend, error) {
		return f.CreateFrontends()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideEngine registers the classifiers and the detection service.
// It expects *config.Config and *zap.Logger to be registered already.
func provideEngine(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register text generator; a provider that cannot be built leaves the engine on rules only
	if err := container.Provide(func(f *factory.LLMFactory, logger *zap.Logger) core.TextGenerator {
		generator, err := f.CreateTextGenerator()
		if err != nil {
			logger.Error("Failed to create LLM client, classification will use rules only", zap.Error(err))
			return nil
		}
		return generator
	}); err != nil {
		return err
	}

	// Register classifiers
	if err := container.Provide(func(f *factory.LLMFactory, generator core.TextGenerator) (*core.LLMClassifier, error) {
		return f.CreateLLMClassifier(generator)
	}); err != nil {
		return err
	}
	if err := container.Provide(func() *core.RuleClassifier {
		return core.NewRuleClassifier(core.DefaultPatternTable())
	}); err != nil {
		return err
	}

	// Register scam detection service
	if err := container.Provide(func(
		f *factory.LLMFactory,
		llm *core.LLMClassifier,
		rules *core.RuleClassifier,
		logger *zap.Logger,
	) (*core.ScamDetectionService, error) {
		timeout, err := f.LLMTimeout()
		if err != nil {
			return nil, err
		}
		return core.NewScamDetectionService(llm, rules, logger, timeout), nil
	}); err != nil {
		return err
	}

	return nil
}

// provideChecker registers the message checker on top of the detection service
func provideChecker(container *dig.Container) error {
	return container.Provide(func(
		service *core.ScamDetectionService,
		history core.HistoryRepository,
		notifier core.AlertNotifier,
		logger *zap.Logger,
	) *core.MessageChecker {
		return core.NewMessageChecker(service, history, notifier, logger)
	})
}
