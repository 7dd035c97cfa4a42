package core

import (
	"context"
)

// TextGenerator sends a single prompt to a text-generation service and returns the reply text.
// Implementations report failures as *ClassificationError with KindTransport or KindStatus.
type TextGenerator interface {
	// Generate sends prompt as one user message and returns the first content element's text
	Generate(ctx context.Context, prompt string) (string, error)

	// HasCredential reports whether a credential for the service is configured
	HasCredential() bool

	// ModelName returns the model identifier sent with each request
	ModelName() string
}

// HistoryRepository persists analysis results for later display
type HistoryRepository interface {
	// Save stores a result
	Save(ctx context.Context, result *AnalysisResult) error

	// Get retrieves a result by ID
	Get(ctx context.Context, id string) (*AnalysisResult, error)

	// List returns up to limit results, newest first
	List(ctx context.Context, limit int) ([]*AnalysisResult, error)

	// Delete removes a result
	Delete(ctx context.Context, id string) error

	// Cleanup removes results older than the retention period
	Cleanup(ctx context.Context) error
}

// AlertNotifier publishes high-risk results to an external alerting channel
type AlertNotifier interface {
	NotifyHighRisk(ctx context.Context, result *AnalysisResult) error
}
