package books

import (
	"context"
	"database/sql"
	"errors"

	"library-backend/internal/platform/db"
)

type BookStore interface {
	GetByID(ctx context.Context, id int64) (*Book, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	MissingAuthor(ctx context.Context, ids []int64) (int64, bool, error)

	Create(ctx context.Context, b *Book) error
	List(ctx context.Context) ([]*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) (int64, error)
	AddImage(ctx context.Context, img *BookImage) error
	ListImages(ctx context.Context, bookID int64) ([]*BookImage, error)
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) BookStore { return &Store{db: conn} }

func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	const q = `
SELECT id, title, isbn, publication_year, category_id
FROM books
WHERE id = ?
LIMIT 1
`
	var b Book
	err := s.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b.AuthorIDs, err = s.authorIDs(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) authorIDs(ctx context.Context, bookID int64) ([]int64, error) {
	const q = `SELECT author_id FROM book_authors WHERE book_id = ? ORDER BY author_id`
	rows, err := s.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE title = ?)`, title)
}

func (s *Store) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE isbn = ?)`, isbn)
}

func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, id)
}

func (s *Store) exists(ctx context.Context, q string, arg any) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, arg).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MissingAuthor returns the first id in ids without an authors row, if any.
func (s *Store) MissingAuthor(ctx context.Context, ids []int64) (int64, bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM authors WHERE id = ?)`
	for _, id := range ids {
		var exists bool
		if err := s.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
			return 0, false, err
		}
		if !exists {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// Create inserts the book and its author links in one transaction.
func (s *Store) Create(ctx context.Context, b *Book) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const ins = `
INSERT INTO books (title, isbn, publication_year, category_id)
VALUES (?, ?, ?, ?)
`
		res, err := tx.ExecContext(ctx, ins, b.Title, b.ISBN, b.PublicationYear, b.CategoryID)
		if err != nil {
			return err
		}
		b.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		const link = `INSERT INTO book_authors (book_id, author_id) VALUES (?, ?)`
		for _, authorID := range b.AuthorIDs {
			if _, err := tx.ExecContext(ctx, link, b.ID, authorID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) List(ctx context.Context) ([]*Book, error) {
	const q = `
SELECT id, title, isbn, publication_year, category_id
FROM books
ORDER BY id
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.CategoryID); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range result {
		if b.AuthorIDs, err = s.authorIDs(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Update rewrites the book row and replaces its author links.
func (s *Store) Update(ctx context.Context, b *Book) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const upd = `
UPDATE books
SET title = ?, isbn = ?, publication_year = ?, category_id = ?
WHERE id = ?
`
		if _, err := tx.ExecContext(ctx, upd, b.Title, b.ISBN, b.PublicationYear, b.CategoryID, b.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM book_authors WHERE book_id = ?`, b.ID); err != nil {
			return err
		}

		const link = `INSERT INTO book_authors (book_id, author_id) VALUES (?, ?)`
		for _, authorID := range b.AuthorIDs {
			if _, err := tx.ExecContext(ctx, link, b.ID, authorID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM books WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) AddImage(ctx context.Context, img *BookImage) error {
	const q = `
INSERT INTO book_images (book_id, name, path, uploaded_at)
VALUES (?, ?, ?, NOW(6))
`
	res, err := s.db.ExecContext(ctx, q, img.BookID, img.Name, img.Path)
	if err != nil {
		return err
	}
	img.ID, err = res.LastInsertId()
	return err
}

func (s *Store) ListImages(ctx context.Context, bookID int64) ([]*BookImage, error) {
	const q = `
SELECT id, book_id, name, path, uploaded_at
FROM book_images
WHERE book_id = ?
ORDER BY id
`
	rows, err := s.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*BookImage
	for rows.Next() {
		var img BookImage
		if err := rows.Scan(&img.ID, &img.BookID, &img.Name, &img.Path, &img.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &img)
	}
	return result, rows.Err()
}
