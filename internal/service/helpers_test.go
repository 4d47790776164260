package service

import (
	"context"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/llm"
	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/repository"
	"github.com/nexable/smartcookly/backend/internal/testhelpers"
)

var today = civil.Date{Year: 2025, Month: 3, Day: 10}

// stubLLM answers every call with reply and remembers the last prompt.
type stubLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []llm.Prompt
	images  []llm.Image
}

func (s *stubLLM) GenerateContent(ctx context.Context, p llm.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	return s.reply, s.err
}

func (s *stubLLM) DescribeImage(ctx context.Context, p llm.Prompt, img llm.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	s.images = append(s.images, img)
	return s.reply, s.err
}

func (s *stubLLM) Close() error { return nil }

func (s *stubLLM) lastPrompt() llm.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts[len(s.prompts)-1]
}

// movableClock is a clock tests can advance.
type movableClock struct {
	mu  sync.Mutex
	day civil.Date
}

func (c *movableClock) Today() civil.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

func (c *movableClock) set(d civil.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = d
}

// clockSource hands every user the same clock.
type clockSource struct {
	clock fridge.Clock
}

func (c clockSource) Clock(ctx context.Context, userID uuid.UUID) fridge.Clock {
	return c.clock
}

func fixedClocks() clockSource {
	return clockSource{clock: fridge.FixedClock(today)}
}

func newTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := &models.User{Name: "Tester", Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func newInventory(t *testing.T, clocks ClockSource) (*InventoryService, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupSQLiteDatabase(t)
	return NewInventoryService(newIngredientRepo(db), clocks), db
}

func newIngredientRepo(db *gorm.DB) *repository.IngredientRepository {
	return repository.NewIngredientRepository(db)
}

func date(days int) *civil.Date {
	d := today.AddDays(days)
	return &d
}
