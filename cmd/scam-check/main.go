package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/llm-scam-shield/internal/adapters/frontend"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/di"
	"go.uber.org/zap"
)

// errHighRisk signals a RED verdict so the process can exit with status 2
var errHighRisk = errors.New("message classified as RED")

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		if errors.Is(err, errHighRisk) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run reads the message, checks it and exits non-zero for RED results
func run(flags *di.CLIFlags, cli *frontend.CliFrontend, generator core.TextGenerator, logger *zap.Logger) error {
	defer logger.Sync()

	text, err := readInput(flags, logger)
	if err != nil {
		return err
	}

	result, err := cli.CheckText(context.Background(), text)

	// Close any resources that need closing
	if closer, ok := generator.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("Failed to close LLM client", zap.Error(cerr))
		}
	}

	if err != nil {
		return err
	}
	if result.RiskTier == core.RiskRed {
		return errHighRisk
	}
	return nil
}

// readInput returns the -text flag, the -file contents or stdin, in that order of preference
func readInput(flags *di.CLIFlags, logger *zap.Logger) (string, error) {
	if flags.Text != "" {
		return flags.Text, nil
	}

	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		logger.Info("Reading message from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading message from stdin")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
