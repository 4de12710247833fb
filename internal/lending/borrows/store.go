package borrows

import (
	"context"
	"database/sql"
	"errors"
	"time"

	mysql "github.com/go-sql-driver/mysql"

	"library-backend/internal/platform/apperr"
	"library-backend/internal/platform/db"
)

// BorrowStore is the persistence surface the ledger needs. The borrows table
// is the source of truth; users and books are read-only lookups here.
type BorrowStore interface {
	GetUserRole(ctx context.Context, userID int64) (role string, ok bool, err error)
	BookExists(ctx context.Context, bookID int64) (bool, error)

	Create(ctx context.Context, b *Borrow) error
	GetByID(ctx context.Context, id int64) (*Borrow, error)
	List(ctx context.Context, p Page) ([]*Borrow, error)
	ListByUser(ctx context.Context, userID int64, p Page) ([]*Borrow, error)
	MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

const mysqlErrDuplicateEntry = 1062

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) BorrowStore { return &Store{db: conn} }

func (s *Store) GetUserRole(ctx context.Context, userID int64) (string, bool, error) {
	const q = `
SELECT r.name
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE u.id = ?
LIMIT 1
`
	var role string
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

func (s *Store) BookExists(ctx context.Context, bookID int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts the borrow inside one transaction. The active-pair check
// runs under FOR UPDATE so two concurrent requests for the same (user, book)
// serialize here; the unique index on active_pair backs the same invariant
// across server instances.
func (s *Store) Create(ctx context.Context, b *Borrow) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const check = `
SELECT COUNT(*)
FROM borrows
WHERE user_id = ? AND book_id = ? AND status IN ('BORROWED', 'OVERDUE')
FOR UPDATE
`
		var active int
		if err := tx.QueryRowContext(ctx, check, b.UserID, b.BookID).Scan(&active); err != nil {
			return err
		}
		if active > 0 {
			return apperr.AlreadyExists("user already borrowed this book")
		}

		const ins = `
INSERT INTO borrows (user_id, book_id, borrow_date, return_date, status)
VALUES (?, ?, ?, ?, ?)
`
		res, err := tx.ExecContext(ctx, ins, b.UserID, b.BookID, b.BorrowDate, b.ReturnDate, b.Status)
		if err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
				return apperr.AlreadyExists("user already borrowed this book")
			}
			return err
		}
		b.ID, err = res.LastInsertId()
		return err
	})
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Borrow, error) {
	const q = `
SELECT id, user_id, book_id, borrow_date, return_date, status
FROM borrows
WHERE id = ?
LIMIT 1
`
	var b Borrow
	err := s.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.UserID, &b.BookID, &b.BorrowDate, &b.ReturnDate, &b.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) List(ctx context.Context, p Page) ([]*Borrow, error) {
	const q = `
SELECT id, user_id, book_id, borrow_date, return_date, status
FROM borrows
ORDER BY id
LIMIT ? OFFSET ?
`
	return s.queryBorrows(ctx, q, p.Limit(), p.Offset())
}

func (s *Store) ListByUser(ctx context.Context, userID int64, p Page) ([]*Borrow, error) {
	const q = `
SELECT id, user_id, book_id, borrow_date, return_date, status
FROM borrows
WHERE user_id = ?
ORDER BY id
LIMIT ? OFFSET ?
`
	return s.queryBorrows(ctx, q, userID, p.Limit(), p.Offset())
}

func (s *Store) queryBorrows(ctx context.Context, q string, args ...any) ([]*Borrow, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Borrow
	for rows.Next() {
		var b Borrow
		if err := rows.Scan(&b.ID, &b.UserID, &b.BookID, &b.BorrowDate, &b.ReturnDate, &b.Status); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	return result, rows.Err()
}

// MarkReturned flips an active borrow to RETURNED. The status guard in the
// WHERE clause is what keeps a concurrent sweep from ever overwriting a
// RETURNED row, and vice versa: whichever write lands first wins the row,
// the other sees zero rows affected.
func (s *Store) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (int64, error) {
	const q = `
UPDATE borrows
SET status = 'RETURNED', return_date = ?
WHERE id = ? AND status <> 'RETURNED'
`
	res, err := s.db.ExecContext(ctx, q, returnedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM borrows WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SweepOverdue reclassifies every expired BORROWED row in one statement.
// Running it again with the same now matches nothing, so a repeated sweep is
// a no-op.
func (s *Store) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `
UPDATE borrows
SET status = 'OVERDUE'
WHERE status = 'BORROWED' AND return_date < ?
`
	res, err := s.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
