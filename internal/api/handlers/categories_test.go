package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/tracker"
)

type fakeCategoryStore struct {
	categories map[string]*domain.Category
	deleted    []string
}

func (f *fakeCategoryStore) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, fmt.Errorf("GetCategory %s: %w", id, domain.ErrNotFound)
	}
	return category, nil
}

func (f *fakeCategoryStore) ListCategories(_ context.Context, userID string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, category := range f.categories {
		if category.UserID == userID {
			out = append(out, category)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) InsertCategory(_ context.Context, category *domain.Category) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) DeleteCategory(_ context.Context, id string) error {
	delete(f.categories, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newCategoriesServer(categories *fakeCategoryStore) http.Handler {
	service := tracker.New(tracker.Stores{Categories: categories}, zerolog.Nop())
	handler := NewCategoriesHandler(service, zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/categories/{id}", handler.Delete)
	return middleware.Auth(mux)
}

func TestCategoriesDelete(t *testing.T) {
	newStore := func() *fakeCategoryStore {
		return &fakeCategoryStore{categories: map[string]*domain.Category{
			"cat-1": {ID: "cat-1", UserID: "user-a", Name: "Food", Type: domain.CategoryExpense},
		}}
	}

	t.Run("owner can delete", func(t *testing.T) {
		categories := newStore()
		req := httptest.NewRequest(http.MethodDelete, "/api/categories/cat-1", nil)
		req.Header.Set("X-User-ID", "user-a")
		rec := httptest.NewRecorder()

		newCategoriesServer(categories).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if len(categories.deleted) != 1 || categories.deleted[0] != "cat-1" {
			t.Errorf("deleted = %v, want [cat-1]", categories.deleted)
		}
	})

	t.Run("other user's category is not found", func(t *testing.T) {
		categories := newStore()
		req := httptest.NewRequest(http.MethodDelete, "/api/categories/cat-1", nil)
		req.Header.Set("X-User-ID", "user-b")
		rec := httptest.NewRecorder()

		newCategoriesServer(categories).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if len(categories.deleted) != 0 {
			t.Errorf("deleted = %v, want no deletions", categories.deleted)
		}
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		categories := newStore()
		req := httptest.NewRequest(http.MethodDelete, "/api/categories/missing", nil)
		req.Header.Set("X-User-ID", "user-a")
		rec := httptest.NewRecorder()

		newCategoriesServer(categories).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
