package borrows

import "time"

type Status string

// Borrow lifecycle. BORROWED and OVERDUE both accept a return; RETURNED is
// terminal and is never left again.
const (
	StatusBorrowed Status = "BORROWED"
	StatusReturned Status = "RETURNED"
	StatusOverdue  Status = "OVERDUE"
)

// Borrow is one lending event. It references its user and book by id only;
// the catalog owns those records. ReturnDate holds the due date until the
// book comes back, then the actual return timestamp.
type Borrow struct {
	ID         int64
	UserID     int64
	BookID     int64
	BorrowDate time.Time
	ReturnDate time.Time
	Status     Status
}

// Active reports whether the borrow still holds the book.
func (b *Borrow) Active() bool {
	return b.Status == StatusBorrowed || b.Status == StatusOverdue
}

type Page struct {
	Number int
	Size   int
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return p.Number * p.Size }
