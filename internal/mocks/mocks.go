// Package mocks provides testify mocks of the core ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mikey/llm-scam-shield/internal/core"
)

// TextGenerator is a mock of core.TextGenerator
type TextGenerator struct {
	mock.Mock
}

func (m *TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *TextGenerator) HasCredential() bool {
	return m.Called().Bool(0)
}

func (m *TextGenerator) ModelName() string {
	return m.Called().String(0)
}

// HistoryRepository is a mock of core.HistoryRepository
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Save(ctx context.Context, result *core.AnalysisResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *HistoryRepository) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*core.AnalysisResult)
	return result, args.Error(1)
}

func (m *HistoryRepository) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	args := m.Called(ctx, limit)
	results, _ := args.Get(0).([]*core.AnalysisResult)
	return results, args.Error(1)
}

func (m *HistoryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *HistoryRepository) Cleanup(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// AlertNotifier is a mock of core.AlertNotifier
type AlertNotifier struct {
	mock.Mock
}

func (m *AlertNotifier) NotifyHighRisk(ctx context.Context, result *core.AnalysisResult) error {
	return m.Called(ctx, result).Error(0)
}
