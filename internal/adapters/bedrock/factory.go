package bedrock

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// Factory creates Bedrock clients
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates a new Bedrock client.
// Credentials that cannot be retrieved leave the client without a credential.
func (f *Factory) CreateTextGenerator() (core.TextGenerator, error) {
	bedrockCfg := f.cfg.GetBedrock()
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		f.logger.Warn("Failed to load AWS configuration, classification will use rules only", zap.Error(err))
		return NewBedrockClient(nil, bedrockCfg.ModelID, bedrockCfg.MaxTokens, false, f.logger), nil
	}

	hasCredential := false
	if awsCfg.Credentials != nil {
		if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
			f.logger.Warn("No AWS credentials available, classification will use rules only", zap.Error(err))
		} else {
			hasCredential = true
		}
	}

	return NewBedrockClient(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		hasCredential,
		f.logger,
	), nil
}
