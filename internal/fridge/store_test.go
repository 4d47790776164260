package fridge

import (
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = civil.Date{Year: 2024, Month: time.June, Day: 1}

func newTestStore() *Store {
	return NewStore(FixedClock(testToday))
}

func inDays(n int) *civil.Date {
	d := testToday.AddDays(n)
	return &d
}

func TestAddItemIsIdempotent(t *testing.T) {
	s := newTestStore()
	x := FoodItem{ID: "a", Name: "Eggs", Category: Proteins, ExpirationDate: inDays(10)}

	s.AddItem(x)
	s.AddItem(x)

	items := s.GetAllItems()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "Eggs", items[0].Name)
	assert.Equal(t, Proteins, items[0].Category)
	assert.Equal(t, *inDays(10), *items[0].ExpirationDate)
	assert.Equal(t, Fresh, items[0].FreshnessTier)
}

func TestAddItemMergeKeepsIdentityAndDate(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{ID: "1", Name: "Milk", Category: Dairy, ExpirationDate: inDays(4)})

	s.AddItem(FoodItem{ID: "other", Name: "milk", Category: Other})

	items := s.GetAllItems()
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, Dairy, items[0].Category)
	require.NotNil(t, items[0].ExpirationDate)
	assert.Equal(t, *inDays(4), *items[0].ExpirationDate)
	assert.Equal(t, Good, items[0].FreshnessTier)
}

func TestAddItemMergeOverwritesDateAndRecomputesTier(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{ID: "1", Name: "Yogurt", Category: Dairy, ExpirationDate: inDays(10), ImageURL: "http://img/yogurt"})

	s.AddItem(FoodItem{Name: "YOGURT", ExpirationDate: inDays(1)})

	items := s.GetAllItems()
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "http://img/yogurt", items[0].ImageURL)
	assert.Equal(t, *inDays(1), *items[0].ExpirationDate)
	assert.Equal(t, Urgent, items[0].FreshnessTier)
}

func TestAddItemAppendsWithGeneratedIDAndNormalizedCategory(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{Name: "Salmon", Category: "SEAFOOD"})

	items := s.GetAllItems()
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, Proteins, items[0].Category)
	assert.Equal(t, Good, items[0].FreshnessTier)
}

func TestAddItemsMergesDuplicatesWithinBatch(t *testing.T) {
	s := newTestStore()
	s.AddItems([]FoodItem{
		{Name: "Butter", Category: Dairy},
		{Name: "butter", ExpirationDate: inDays(20)},
		{Name: "Bread", Category: Grains, ExpirationDate: inDays(2)},
	})

	assert.Equal(t, 2, s.GetItemCount())
	items := s.GetAllItems()
	assert.Equal(t, "Butter", items[0].Name)
	assert.Equal(t, Fresh, items[0].FreshnessTier)
	assert.Equal(t, "Bread", items[1].Name)
	assert.Equal(t, Urgent, items[1].FreshnessTier)
}

func TestSetItemsReplacesAndRecomputes(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{Name: "Old"})

	s.SetItems([]FoodItem{
		{ID: "x", Name: "Cheese", Category: "dairy", ExpirationDate: inDays(-1), FreshnessTier: Fresh},
		{ID: "y", Name: "cheese", Category: Dairy},
	})

	items := s.GetAllItems()
	require.Len(t, items, 2, "set bypasses merge")
	assert.Equal(t, Expired, items[0].FreshnessTier)
	assert.Equal(t, Dairy, items[0].Category)
	assert.Equal(t, Good, items[1].FreshnessTier)
}

func TestAddItemWithTakenIDGetsFreshID(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{ID: "1", Name: "Milk"})
	s.AddItem(FoodItem{ID: "1", Name: "Eggs"})

	items := s.GetAllItems()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.NotEqual(t, "1", items[1].ID)
	assert.NotEmpty(t, items[1].ID)

	s.DeleteItem("1")
	items = s.GetAllItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Name)
}

func TestSetItemsDeduplicatesIDs(t *testing.T) {
	s := newTestStore()
	s.SetItems([]FoodItem{
		{ID: "a", Name: "Tofu"},
		{ID: "a", Name: "Tempeh"},
		{ID: "b", Name: "Seitan"},
	})

	items := s.GetAllItems()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[2].ID)
	assert.NotContains(t, []string{"", "a", "b"}, items[1].ID)
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{ID: "1", Name: "Carrots", Category: Vegetables, ExpirationDate: inDays(8)})

	s.UpdateItem(FoodItem{ID: "1", Name: "Baby carrots", Category: "VEGETABLE", ExpirationDate: inDays(0)})

	items := s.GetAllItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Baby carrots", items[0].Name)
	assert.Equal(t, Vegetables, items[0].Category)
	assert.Equal(t, Urgent, items[0].FreshnessTier)
}

func TestUpdateItemUnknownIDIsNoop(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{ID: "1", Name: "Carrots"})
	before := s.GetAllItems()

	s.UpdateItem(FoodItem{ID: "missing", Name: "Ghost"})
	s.UpdateItem(FoodItem{Name: "No id"})

	assert.Equal(t, before, s.GetAllItems())
}

func TestDeleteThenQuery(t *testing.T) {
	s := newTestStore()
	s.AddItems([]FoodItem{
		{ID: "1", Name: "Apple"},
		{ID: "2", Name: "Pear"},
		{ID: "3", Name: "Plum"},
	})

	s.DeleteItem("2")
	assert.Equal(t, 2, s.GetItemCount())
	for _, item := range s.GetAllItems() {
		assert.NotEqual(t, "2", item.ID)
	}

	s.DeleteItem("2")
	s.DeleteItem("nope")
	assert.Equal(t, 2, s.GetItemCount())
}

func TestGroupingExcludesEmptyCategories(t *testing.T) {
	s := newTestStore()
	s.AddItems([]FoodItem{
		{Name: "Milk", Category: Dairy},
		{Name: "Kefir", Category: Dairy},
		{Name: "Banana", Category: Fruits},
	})

	grouped := s.GetItemsGroupedByCategory()
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped[Dairy], 2)
	assert.Len(t, grouped[Fruits], 1)
	_, ok := grouped[Vegetables]
	assert.False(t, ok)
}

func TestCategoryFilter(t *testing.T) {
	s := newTestStore()
	assert.Len(t, s.GetItemsByCategory(nil), len(s.GetAllItems()))

	s.AddItems([]FoodItem{
		{Name: "Milk", Category: Dairy},
		{Name: "Banana", Category: Fruits},
	})
	assert.Len(t, s.GetItemsByCategory(nil), len(s.GetAllItems()))

	dairy := Dairy
	only := s.GetItemsByCategory(&dairy)
	require.Len(t, only, 1)
	assert.Equal(t, "Milk", only[0].Name)

	grains := Grains
	assert.Empty(t, s.GetItemsByCategory(&grains))
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore()
	s.AddItem(FoodItem{ID: "1", Name: "Tofu", ExpirationDate: inDays(3)})

	snap := s.GetAllItems()
	snap[0].Name = "changed"
	*snap[0].ExpirationDate = testToday.AddDays(100)

	s.AddItem(FoodItem{Name: "Tempeh"})

	assert.Len(t, snap, 1, "earlier snapshot does not grow")
	fresh := s.GetAllItems()
	assert.Equal(t, "Tofu", fresh[0].Name)
	assert.Equal(t, *inDays(3), *fresh[0].ExpirationDate)
}

func TestEndToEndScenario(t *testing.T) {
	s := newTestStore()

	s.AddItems([]FoodItem{
		{Name: "Spinach", Category: "VEGETABLES", ExpirationDate: inDays(5)},
		{Name: "Milk", Category: "DAIRY", ExpirationDate: inDays(1)},
	})

	assert.Equal(t, 1, s.GetItemCountByCategory(Dairy))
	grouped := s.GetItemsGroupedByCategory()
	assert.Equal(t, Good, grouped[Vegetables][0].FreshnessTier)
	assert.Equal(t, Urgent, grouped[Dairy][0].FreshnessTier)
}

func TestConcurrentWritersAndReaders(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.AddItem(FoodItem{Name: string(rune('a'+w)) + "-" + string(rune('A'+i%26))})
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				items := s.GetAllItems()
				seen := make(map[string]bool, len(items))
				for _, item := range items {
					assert.False(t, seen[item.ID], "duplicate id in snapshot")
					seen[item.ID] = true
				}
			}
		}()
	}
	wg.Wait()

	// 8 writers x 26 distinct names each.
	assert.Equal(t, 8*26, s.GetItemCount())
}
