package authors

import (
	"context"
	"database/sql"
	"errors"
)

type Author struct {
	ID   int64
	Name string
}

type AuthorStore interface {
	GetByID(ctx context.Context, id int64) (*Author, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]*Author, error)
	Update(ctx context.Context, id int64, name string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) AuthorStore { return &Store{db: conn} }

func (s *Store) GetByID(ctx context.Context, id int64) (*Author, error) {
	const q = `SELECT id, name FROM authors WHERE id = ? LIMIT 1`
	var a Author
	err := s.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ExistsByName(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM authors WHERE name = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) Create(ctx context.Context, name string) (int64, error) {
	const q = `INSERT INTO authors (name) VALUES (?)`
	res, err := s.db.ExecContext(ctx, q, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) List(ctx context.Context) ([]*Author, error) {
	const q = `SELECT id, name FROM authors ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}

func (s *Store) Update(ctx context.Context, id int64, name string) (int64, error) {
	const q = `UPDATE authors SET name = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM authors WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
