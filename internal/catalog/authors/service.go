package authors

import (
	"context"
	"database/sql"
	"fmt"

	"library-backend/internal/platform/apperr"
)

type AuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	store AuthorStore
}

func NewService(conn *sql.DB) *Service { return &Service{store: NewStore(conn)} }

func NewServiceWith(store AuthorStore) *Service { return &Service{store: store} }

func (s *Service) Add(ctx context.Context, name string) (*AuthorResponse, error) {
	exists, err := s.store.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists(fmt.Sprintf("author with name: %s already exist", name))
	}

	id, err := s.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &AuthorResponse{ID: id, Name: name}, nil
}

func (s *Service) List(ctx context.Context) ([]AuthorResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]AuthorResponse, 0, len(items))
	for _, a := range items {
		result = append(result, AuthorResponse{ID: a.ID, Name: a.Name})
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*AuthorResponse, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound(fmt.Sprintf("author with id: %d not found", id))
	}
	return &AuthorResponse{ID: a.ID, Name: a.Name}, nil
}

func (s *Service) Update(ctx context.Context, id int64, name string) error {
	exists, err := s.store.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return apperr.AlreadyExists(fmt.Sprintf("author with name: %s already exist", name))
	}

	n, err := s.store.Update(ctx, id, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("author with id: %d not found", id))
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("author with id: %d not found", id))
	}
	return nil
}
