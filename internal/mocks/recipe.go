package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) Discover(ctx context.Context, userID uuid.UUID, req types.DiscoverRequest) ([]types.Recipe, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockRecipeService) CookingSteps(ctx context.Context, recipeName string, ingredients []string) ([]models.CookingStep, error) {
	args := m.Called(ctx, recipeName, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CookingStep), args.Error(1)
}

// MockScanService is a mock implementation of the ScanService interface
type MockScanService struct {
	mock.Mock
}

var _ service.IScanService = (*MockScanService)(nil)

func (m *MockScanService) Scan(ctx context.Context, userID uuid.UUID, img service.ScanImage, autoAdd bool) (*service.ScanResult, error) {
	args := m.Called(ctx, userID, img, autoAdd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanResult), args.Error(1)
}
