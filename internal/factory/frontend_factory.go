package factory

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mikey/llm-scam-shield/internal/adapters/frontend"
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/ports"
	"github.com/mikey/llm-scam-shield/internal/whitelist"
	"go.uber.org/zap"
)

// FrontendFactory creates the daemon's frontends based on configuration
type FrontendFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	checker  *core.MessageChecker
	validate *validator.Validate
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, checker *core.MessageChecker, validate *validator.Validate) *FrontendFactory {
	return &FrontendFactory{
		cfg:      cfg,
		logger:   logger,
		checker:  checker,
		validate: validate,
	}
}

// CreateFrontends creates every frontend listed in server.frontends
func (f *FrontendFactory) CreateFrontends() ([]ports.Frontend, error) {
	names := f.cfg.GetStringSlice("server.frontends")
	if len(names) == 0 {
		return nil, fmt.Errorf("no frontends configured")
	}

	frontends := make([]ports.Frontend, 0, len(names))
	for _, name := range names {
		fe, err := f.CreateFrontend(name)
		if err != nil {
			return nil, err
		}
		frontends = append(frontends, fe)
	}
	return frontends, nil
}

// CreateFrontend creates a single frontend by name
func (f *FrontendFactory) CreateFrontend(name string) (ports.Frontend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "http":
		return frontend.NewHTTPFrontend(f.checker, f.validate, f.cfg.GetHTTP().ListenAddress, f.logger), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		trusted := whitelist.NewChecker(smtpCfg.TrustedDomains, f.logger)
		return frontend.NewSMTPFrontend(f.checker, trusted, smtpCfg, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported frontend: %s", name)
	}
}
