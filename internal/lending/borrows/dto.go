package borrows

import "time"

type CreateBorrowRequest struct {
	UserID     int64     `json:"userId" binding:"required"`
	BookID     int64     `json:"bookId" binding:"required"`
	BorrowDate time.Time `json:"borrowDate" binding:"required"`
	ReturnDate time.Time `json:"returnDate" binding:"required"`
}

// DatesValid checks the cross-field rule the binding tags cannot express:
// the due date must lie strictly after the borrow date.
func (r CreateBorrowRequest) DatesValid() bool {
	return r.ReturnDate.After(r.BorrowDate)
}

type BorrowResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	BookID     int64     `json:"bookId"`
	BorrowDate time.Time `json:"borrowDate"`
	ReturnDate time.Time `json:"returnDate"`
	Status     Status    `json:"status"`
}

func buildBorrowResponse(b *Borrow) BorrowResponse {
	return BorrowResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		BookID:     b.BookID,
		BorrowDate: b.BorrowDate,
		ReturnDate: b.ReturnDate,
		Status:     b.Status,
	}
}
