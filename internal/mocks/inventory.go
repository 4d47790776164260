package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/service"
)

// MockInventoryService is a mock implementation of the InventoryService interface
type MockInventoryService struct {
	mock.Mock
}

var _ service.IInventoryService = (*MockInventoryService)(nil)

func items(args mock.Arguments) []fridge.FoodItem {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]fridge.FoodItem)
}

func (m *MockInventoryService) List(ctx context.Context, userID uuid.UUID, category *fridge.Category) ([]fridge.FoodItem, error) {
	args := m.Called(ctx, userID, category)
	return items(args), args.Error(1)
}

func (m *MockInventoryService) Grouped(ctx context.Context, userID uuid.UUID) (map[fridge.Category][]fridge.FoodItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[fridge.Category][]fridge.FoodItem), args.Error(1)
}

func (m *MockInventoryService) Counts(ctx context.Context, userID uuid.UUID) (int, map[fridge.Category]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(1) == nil {
		return args.Int(0), nil, args.Error(2)
	}
	return args.Int(0), args.Get(1).(map[fridge.Category]int), args.Error(2)
}

func (m *MockInventoryService) Add(ctx context.Context, userID uuid.UUID, in []fridge.FoodItem) ([]fridge.FoodItem, error) {
	args := m.Called(ctx, userID, in)
	return items(args), args.Error(1)
}

func (m *MockInventoryService) Set(ctx context.Context, userID uuid.UUID, in []fridge.FoodItem) ([]fridge.FoodItem, error) {
	args := m.Called(ctx, userID, in)
	return items(args), args.Error(1)
}

func (m *MockInventoryService) Update(ctx context.Context, userID uuid.UUID, item fridge.FoodItem) ([]fridge.FoodItem, error) {
	args := m.Called(ctx, userID, item)
	return items(args), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockInventoryService) Refresh(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
