package domain

import "context"

// Category represents a question category such as "Science"
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// CategoryRepository defines the interface for category-related operations
type CategoryRepository interface {
	// ListCategories retrieves all categories ordered by id
	ListCategories(ctx context.Context) ([]Category, error)
}

// DefaultCategories are seeded into an empty store
var DefaultCategories = []string{
	"Science",
	"Art",
	"Geography",
	"History",
	"Entertainment",
	"Sports",
}
