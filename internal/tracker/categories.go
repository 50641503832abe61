package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/domain"
)

// CreateCategory adds a user-defined category. The type is fixed at
// creation; the ledger treats categories as read-only input.
func (s *Service) CreateCategory(ctx context.Context, userID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "category name is required")
	}
	if !categoryType.Valid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("category type must be income or expense, got %q", categoryType))
	}

	category := &domain.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := s.categories.InsertCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("CreateCategory: %w", err)
	}
	return category, nil
}

// GetCategory fetches a single category.
func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

// ListCategories returns the user's categories.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	return s.categories.ListCategories(ctx, userID)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}
	return nil
}
