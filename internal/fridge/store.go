package fridge

import (
	"sync"
	"sync/atomic"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Store holds the authoritative item collection for one inventory.
//
// Every mutation builds a new slice and publishes it with an atomic swap, so
// readers never lock and never see a half-applied change. Writers are
// serialized by mu. Published slices are never modified again.
type Store struct {
	clock Clock

	mu       sync.Mutex
	snapshot atomic.Pointer[[]FoodItem]
}

// NewStore returns an empty store that classifies freshness with clock.
func NewStore(clock Clock) *Store {
	if clock == nil {
		clock = &LocalClock{}
	}
	s := &Store{clock: clock}
	empty := []FoodItem{}
	s.snapshot.Store(&empty)
	return s
}

func (s *Store) load() []FoodItem {
	return *s.snapshot.Load()
}

func (s *Store) publish(items []FoodItem) {
	s.snapshot.Store(&items)
}

// AddItem inserts item, or merges it into the existing item with the same
// name (case-insensitive). A merge keeps the existing identity and fields and
// only takes the incoming expiration date when one is supplied.
func (s *Store) AddItem(item FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publish(s.addTo(s.load(), item))
}

// AddItems applies AddItem to each element in order. Later duplicates merge
// into earlier ones from the same batch. The batch is published as one swap.
func (s *Store) AddItems(items []FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	for _, item := range items {
		current = s.addTo(current, item)
	}
	s.publish(current)
}

// addTo returns a new slice with item merged or appended. current is not modified.
func (s *Store) addTo(current []FoodItem, item FoodItem) []FoodItem {
	today := s.clock.Today()
	next := make([]FoodItem, len(current), len(current)+1)
	copy(next, current)

	for i := range next {
		if !SameName(next[i].Name, item.Name) {
			continue
		}
		merged := next[i]
		if item.ExpirationDate != nil {
			d := *item.ExpirationDate
			merged.ExpirationDate = &d
		}
		merged.FreshnessTier = Classify(merged.ExpirationDate, today)
		next[i] = merged
		return next
	}

	if indexOfID(next, item.ID) >= 0 {
		item.ID = ""
	}
	return append(next, s.prepare(item, today))
}

// prepare normalizes an incoming item for storage. An empty ID is replaced
// with a fresh UUID.
func (s *Store) prepare(item FoodItem, today civil.Date) FoodItem {
	item = item.clone()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Category = NormalizeCategory(string(item.Category))
	item.FreshnessTier = Classify(item.ExpirationDate, today)
	return item
}

// SetItems replaces the whole collection, bypassing merge. Every tier is
// recomputed. A repeated ID gets a fresh one so IDs stay unique.
func (s *Store) SetItems(items []FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.clock.Today()
	next := make([]FoodItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			item.ID = ""
		}
		item = s.prepare(item, today)
		seen[item.ID] = true
		next = append(next, item)
	}
	s.publish(next)
}

// UpdateItem replaces the item with the same ID. Unknown IDs are ignored.
func (s *Store) UpdateItem(item FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	for i := range current {
		if current[i].ID != item.ID || item.ID == "" {
			continue
		}
		next := make([]FoodItem, len(current))
		copy(next, current)
		next[i] = s.prepare(item, s.clock.Today())
		s.publish(next)
		return
	}
}

// DeleteItem removes the item with the given ID. Unknown IDs are ignored.
func (s *Store) DeleteItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	next := make([]FoodItem, 0, len(current))
	for _, item := range current {
		if item.ID != id {
			next = append(next, item)
		}
	}
	if len(next) != len(current) {
		s.publish(next)
	}
}

// GetAllItems returns a point-in-time copy of the collection.
func (s *Store) GetAllItems() []FoodItem {
	return copyItems(s.load())
}

// GetItemsByCategory filters by category. A nil category returns every item.
func (s *Store) GetItemsByCategory(category *Category) []FoodItem {
	if category == nil {
		return s.GetAllItems()
	}
	var out []FoodItem
	for _, item := range s.load() {
		if item.Category == *category {
			out = append(out, item.clone())
		}
	}
	if out == nil {
		out = []FoodItem{}
	}
	return out
}

// GetItemsGroupedByCategory partitions the collection by category. Categories
// without items are absent from the result.
func (s *Store) GetItemsGroupedByCategory() map[Category][]FoodItem {
	grouped := make(map[Category][]FoodItem)
	for _, item := range s.load() {
		grouped[item.Category] = append(grouped[item.Category], item.clone())
	}
	return grouped
}

func (s *Store) GetItemCount() int {
	return len(s.load())
}

func (s *Store) GetItemCountByCategory(category Category) int {
	n := 0
	for _, item := range s.load() {
		if item.Category == category {
			n++
		}
	}
	return n
}

func indexOfID(items []FoodItem, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func copyItems(items []FoodItem) []FoodItem {
	out := make([]FoodItem, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}
