package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/testhelpers"
	"github.com/nexable/smartcookly/backend/internal/types"
)

func TestFavorites(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := newTestUser(t, db)
	other := newTestUser(t, db)
	svc := NewFavoriteService(db)
	ctx := context.Background()

	recipe := types.Recipe{
		ID:                 "recipe-1",
		Name:               "Shakshuka",
		Cuisine:            "Middle Eastern",
		Ingredients:        []string{"Eggs", "Tomatoes"},
		MissingIngredients: []string{"Cumin"},
		FitPercentage:      80,
		CookingSteps: []models.CookingStep{
			{StepNumber: 1, Description: "Simmer tomatoes", TimeMinutes: 10},
		},
	}

	_, err := svc.Add(ctx, userID, recipe)
	require.NoError(t, err)

	recipe.Name = "Green Shakshuka"
	_, err = svc.Add(ctx, userID, recipe)
	require.NoError(t, err)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Green Shakshuka", list[0].Name)
	assert.Equal(t, models.StringArray{"Eggs", "Tomatoes"}, list[0].Ingredients)
	require.Len(t, list[0].CookingSteps, 1)
	assert.Equal(t, "Simmer tomatoes", list[0].CookingSteps[0].Description)

	ok, err := svc.IsFavorite(ctx, userID, "recipe-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsFavorite(ctx, other, "recipe-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Remove(ctx, other, "recipe-1"), ErrFavoriteNotFound)
	require.NoError(t, svc.Remove(ctx, userID, "recipe-1"))
	assert.ErrorIs(t, svc.Remove(ctx, userID, "recipe-1"), ErrFavoriteNotFound)
}

func TestFavoriteWithoutIDGetsOne(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := newTestUser(t, db)

	fav, err := NewFavoriteService(db).Add(context.Background(), userID, types.Recipe{Name: "Toast"})
	require.NoError(t, err)
	assert.NotEmpty(t, fav.ID)
}
