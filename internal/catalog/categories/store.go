package categories

import (
	"context"
	"database/sql"
	"errors"
)

type Category struct {
	ID   int64
	Name string
}

type CategoryStore interface {
	GetByID(ctx context.Context, id int64) (*Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) CategoryStore { return &Store{db: conn} }

func (s *Store) GetByID(ctx context.Context, id int64) (*Category, error) {
	const q = `SELECT id, name FROM categories WHERE id = ? LIMIT 1`
	var cat Category
	err := s.db.QueryRowContext(ctx, q, id).Scan(&cat.ID, &cat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Store) ExistsByName(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) Create(ctx context.Context, name string) (int64, error) {
	const q = `INSERT INTO categories (name) VALUES (?)`
	res, err := s.db.ExecContext(ctx, q, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) List(ctx context.Context) ([]*Category, error) {
	const q = `SELECT id, name FROM categories ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		result = append(result, &cat)
	}
	return result, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM categories WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
