package testutil

import (
	"context"

	"commitnotes/pkg/models"
)

// MockCommitSource returns canned records instead of calling GitHub
type MockCommitSource struct {
	Records []models.CommitRecord
	Error   error
	Calls   int
}

func (m *MockCommitSource) FetchCommits(ctx context.Context, org, repo string) ([]models.CommitRecord, error) {
	m.Calls++
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Records, nil
}

// MockStager records staged paths
type MockStager struct {
	Staged []string
	Error  error
}

func (m *MockStager) StageFiles(paths []string) error {
	if m.Error != nil {
		return m.Error
	}
	m.Staged = append(m.Staged, paths...)
	return nil
}
