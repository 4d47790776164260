package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/repository"
)

// InventoryService keeps one fridge.Store per user, loaded lazily from the
// database. Every mutation is written back as a full snapshot before the
// call returns.
type InventoryService struct {
	repo   *repository.IngredientRepository
	clocks ClockSource

	mu    sync.Mutex
	users map[uuid.UUID]*userInventory
}

var _ IInventoryService = (*InventoryService)(nil)

// userInventory serializes mutate-then-persist for one user, so snapshots
// reach the database in the order they were produced.
type userInventory struct {
	mu     sync.Mutex
	store  *fridge.Store
	clock  fridge.Clock
	day    civil.Date
	loaded bool
}

func NewInventoryService(repo *repository.IngredientRepository, clocks ClockSource) *InventoryService {
	return &InventoryService{
		repo:   repo,
		clocks: clocks,
		users:  make(map[uuid.UUID]*userInventory),
	}
}

func (s *InventoryService) entry(userID uuid.UUID) *userInventory {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.users[userID]
	if !ok {
		inv = &userInventory{}
		s.users[userID] = inv
	}
	return inv
}

// ready loads the user's store on first use and reclassifies it when the
// user's calendar day has moved on. The reclassified snapshot is written back
// so stored statuses follow the day change. Callers hold inv.mu.
func (s *InventoryService) ready(ctx context.Context, userID uuid.UUID, inv *userInventory) error {
	if !inv.loaded {
		items, err := s.repo.Load(ctx, userID)
		if err != nil {
			return err
		}
		inv.clock = s.clocks.Clock(ctx, userID)
		inv.store = fridge.NewStore(inv.clock)
		inv.store.SetItems(items)
		inv.day = inv.clock.Today()
		inv.loaded = true
		return nil
	}

	if today := inv.clock.Today(); today != inv.day {
		inv.store.SetItems(inv.store.GetAllItems())
		inv.day = today
		// The in-memory tiers are already correct; a failed write only leaves
		// stale fresh_status rows until the next mutation.
		if err := s.repo.ReplaceAll(ctx, userID, inv.store.GetAllItems()); err != nil {
			log.Printf("[InventoryService] failed to persist reclassified inventory for user %s: %v", userID, err)
		}
	}
	return nil
}

// read runs fn against the user's loaded store.
func (s *InventoryService) read(ctx context.Context, userID uuid.UUID, fn func(*fridge.Store)) error {
	inv := s.entry(userID)
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if err := s.ready(ctx, userID, inv); err != nil {
		return err
	}
	fn(inv.store)
	return nil
}

// mutate applies fn and persists the resulting snapshot. If persisting fails
// the in-memory store is rolled back.
func (s *InventoryService) mutate(ctx context.Context, userID uuid.UUID, fn func(*fridge.Store)) ([]fridge.FoodItem, error) {
	inv := s.entry(userID)
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if err := s.ready(ctx, userID, inv); err != nil {
		return nil, err
	}

	before := inv.store.GetAllItems()
	fn(inv.store)
	after := inv.store.GetAllItems()

	if err := s.repo.ReplaceAll(ctx, userID, after); err != nil {
		inv.store.SetItems(before)
		log.Printf("[InventoryService] failed to persist inventory for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to persist inventory: %w", err)
	}
	return after, nil
}

func (s *InventoryService) List(ctx context.Context, userID uuid.UUID, category *fridge.Category) ([]fridge.FoodItem, error) {
	var items []fridge.FoodItem
	err := s.read(ctx, userID, func(store *fridge.Store) {
		items = store.GetItemsByCategory(category)
	})
	return items, err
}

func (s *InventoryService) Grouped(ctx context.Context, userID uuid.UUID) (map[fridge.Category][]fridge.FoodItem, error) {
	var grouped map[fridge.Category][]fridge.FoodItem
	err := s.read(ctx, userID, func(store *fridge.Store) {
		grouped = store.GetItemsGroupedByCategory()
	})
	return grouped, err
}

// Counts returns the total and a per-category count covering every category.
func (s *InventoryService) Counts(ctx context.Context, userID uuid.UUID) (int, map[fridge.Category]int, error) {
	var total int
	byCategory := make(map[fridge.Category]int, len(fridge.Categories))
	err := s.read(ctx, userID, func(store *fridge.Store) {
		total = store.GetItemCount()
		for _, c := range fridge.Categories {
			byCategory[c] = store.GetItemCountByCategory(c)
		}
	})
	if err != nil {
		return 0, nil, err
	}
	return total, byCategory, nil
}

// Add merges items into the user's fridge by name and returns the new contents.
func (s *InventoryService) Add(ctx context.Context, userID uuid.UUID, items []fridge.FoodItem) ([]fridge.FoodItem, error) {
	return s.mutate(ctx, userID, func(store *fridge.Store) {
		store.AddItems(items)
	})
}

// Set replaces the user's fridge without merging.
func (s *InventoryService) Set(ctx context.Context, userID uuid.UUID, items []fridge.FoodItem) ([]fridge.FoodItem, error) {
	return s.mutate(ctx, userID, func(store *fridge.Store) {
		store.SetItems(items)
	})
}

// Update replaces the item with item.ID. An unknown ID changes nothing.
func (s *InventoryService) Update(ctx context.Context, userID uuid.UUID, item fridge.FoodItem) ([]fridge.FoodItem, error) {
	return s.mutate(ctx, userID, func(store *fridge.Store) {
		store.UpdateItem(item)
	})
}

// Delete removes the item with id. An unknown ID changes nothing.
func (s *InventoryService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	_, err := s.mutate(ctx, userID, func(store *fridge.Store) {
		store.DeleteItem(id)
	})
	return err
}

// Refresh drops the cached store so the next call reloads it from the
// database with the user's current clock.
func (s *InventoryService) Refresh(ctx context.Context, userID uuid.UUID) error {
	inv := s.entry(userID)
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.loaded = false
	return s.ready(ctx, userID, inv)
}
