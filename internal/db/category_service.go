package db

import (
	"fmt"

	"github.com/balkashynov/taskboard/internal/models"
)

// CreateCategory creates a new category. Name uniqueness is intended but
// not enforced in the schema.
func CreateCategory(name string) (*models.Category, error) {
	category := models.Category{Name: name}

	if err := DB.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// GetCategories retrieves all categories
func GetCategories() ([]models.Category, error) {
	var categories []models.Category

	if err := DB.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return categories, nil
}
