package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ankibridge/internal/provider"
)

// MockResolver is a mock implementation of provider.Resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Query(ctx context.Context, uri provider.URI, projection []string, selection string, selectionArgs []string, sortOrder string) (provider.Cursor, error) {
	args := m.Called(ctx, uri, projection, selection, selectionArgs, sortOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.Cursor), args.Error(1)
}

func (m *MockResolver) Update(ctx context.Context, uri provider.URI, values provider.Values, selection string, selectionArgs []string) (int, error) {
	args := m.Called(ctx, uri, values, selection, selectionArgs)
	return args.Int(0), args.Error(1)
}
