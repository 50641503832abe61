package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/spendwise/spendwise/internal/domain"
)

type categoryRow struct {
	CategoryID   string    `bigquery:"category_id"`
	UserID       string    `bigquery:"user_id"`
	Name         string    `bigquery:"name"`
	CategoryType string    `bigquery:"category_type"`
	CreatedTS    time.Time `bigquery:"created_ts"`
}

func (r *categoryRow) toDomain() *domain.Category {
	return &domain.Category{
		ID:        r.CategoryID,
		UserID:    r.UserID,
		Name:      r.Name,
		Type:      domain.CategoryType(r.CategoryType),
		CreatedAt: r.CreatedTS,
	}
}

// GetCategory fetches one category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT category_id, user_id, name, category_type, created_ts
		FROM %s
		WHERE category_id = @category_id
		LIMIT 1
	`, s.table("categories")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "category_id", Value: id},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetCategory: reading query: %w", err)
	}

	var row categoryRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, fmt.Errorf("GetCategory %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetCategory: iterating: %w", err)
	}
	return row.toDomain(), nil
}

// ListCategories returns every category owned by userID, ordered by name.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT category_id, user_id, name, category_type, created_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY name
	`, s.table("categories")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: reading query: %w", err)
	}

	var categories []*domain.Category
	for {
		var row categoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategories: iterating: %w", err)
		}
		categories = append(categories, row.toDomain())
	}
	return categories, nil
}

// InsertCategory writes a new category row.
func (s *Store) InsertCategory(ctx context.Context, category *domain.Category) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (category_id, user_id, name, category_type, created_ts)
		VALUES (@category_id, @user_id, @name, @category_type, CURRENT_TIMESTAMP())
	`, s.table("categories"))

	params := []bigquery.QueryParameter{
		{Name: "category_id", Value: category.ID},
		{Name: "user_id", Value: category.UserID},
		{Name: "name", Value: category.Name},
		{Name: "category_type", Value: string(category.Type)},
	}
	if err := s.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("InsertCategory: %w", err)
	}
	return nil
}

// DeleteCategory removes a category row.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE category_id = @category_id`, s.table("categories"))
	params := []bigquery.QueryParameter{
		{Name: "category_id", Value: id},
	}
	if err := s.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}
	return nil
}
