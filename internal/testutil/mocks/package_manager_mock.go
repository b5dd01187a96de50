package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPackageManager is a mock implementation of provider.PackageManager
type MockPackageManager struct {
	mock.Mock
}

func (m *MockPackageManager) IsInstalled(ctx context.Context, pkg string) bool {
	args := m.Called(ctx, pkg)
	return args.Bool(0)
}

func (m *MockPackageManager) ResolveProvider(ctx context.Context, authority string) bool {
	args := m.Called(ctx, authority)
	return args.Bool(0)
}

// Available configures m to report an installed, visible provider.
func (m *MockPackageManager) Available() *MockPackageManager {
	m.On("IsInstalled", mock.Anything, mock.Anything).Return(true)
	m.On("ResolveProvider", mock.Anything, mock.Anything).Return(true)
	return m
}
