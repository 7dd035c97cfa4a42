package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// CliFrontend checks a single message and writes the verdict to out
type CliFrontend struct {
	checker    *core.MessageChecker
	logger     *zap.Logger
	out        io.Writer
	jsonOutput bool
	verbose    bool
}

// NewCliFrontend creates a new CLI frontend
func NewCliFrontend(checker *core.MessageChecker, logger *zap.Logger, out io.Writer, jsonOutput, verbose bool) *CliFrontend {
	return &CliFrontend{
		checker:    checker,
		logger:     logger,
		out:        out,
		jsonOutput: jsonOutput,
		verbose:    verbose,
	}
}

// CheckText classifies text and prints the result
func (f *CliFrontend) CheckText(ctx context.Context, text string) (*core.AnalysisResult, error) {
	f.logger.Debug("Checking message", zap.Int("text_length", len(text)))

	startTime := time.Now()
	result := f.checker.Check(ctx, text)
	duration := time.Since(startTime)

	if f.jsonOutput {
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return result, nil
	}

	fmt.Fprintf(f.out, "=== Message ===\n")
	fmt.Fprintf(f.out, "%s\n", result.MessageExcerpt)
	fmt.Fprintf(f.out, "\n=== Verdict ===\n")
	fmt.Fprintf(f.out, "Risk: %s\n", result.RiskTier)
	fmt.Fprintf(f.out, "Category: %s\n", result.Category)
	fmt.Fprintf(f.out, "Explanation: %s\n", result.Explanation)
	fmt.Fprintf(f.out, "What to do: %s\n", result.DetailedExplanation)
	if f.verbose {
		fmt.Fprintf(f.out, "\nID: %s\n", result.ID)
		fmt.Fprintf(f.out, "Model used: %s\n", result.ModelUsed)
		fmt.Fprintf(f.out, "Processing time: %v\n", duration)
	}

	return result, nil
}

// Start is a no-op for the CLI frontend
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CliFrontend) Stop() error {
	return nil
}
