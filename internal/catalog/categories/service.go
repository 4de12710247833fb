package categories

import (
	"context"
	"database/sql"
	"fmt"

	"library-backend/internal/platform/apperr"
)

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	store CategoryStore
}

func NewService(conn *sql.DB) *Service { return &Service{store: NewStore(conn)} }

func NewServiceWith(store CategoryStore) *Service { return &Service{store: store} }

func (s *Service) Add(ctx context.Context, name string) (*CategoryResponse, error) {
	exists, err := s.store.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists(fmt.Sprintf("category with name: %s already exist", name))
	}

	id, err := s.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CategoryResponse{ID: id, Name: name}, nil
}

func (s *Service) List(ctx context.Context) ([]CategoryResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]CategoryResponse, 0, len(items))
	for _, cat := range items {
		result = append(result, CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*CategoryResponse, error) {
	cat, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFound(fmt.Sprintf("category with id: %d not found", id))
	}
	return &CategoryResponse{ID: cat.ID, Name: cat.Name}, nil
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("category with id: %d not found", id))
	}
	return nil
}
