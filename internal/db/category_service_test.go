package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	setupTestDB(t)

	category, err := CreateCategory("Work")
	require.NoError(t, err)

	assert.NotZero(t, category.ID)
	assert.Equal(t, "Work", category.Name)
}

func TestGetCategories(t *testing.T) {
	setupTestDB(t)

	mustCreateCategory(t, "Work")
	mustCreateCategory(t, "Home")

	categories, err := GetCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, "Home", categories[1].Name)
}

func TestGetCategoriesEmpty(t *testing.T) {
	setupTestDB(t)

	categories, err := GetCategories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}
