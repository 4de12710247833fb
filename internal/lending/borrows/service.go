package borrows

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"library-backend/internal/platform/apperr"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/cache"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Cache families. Listing families are evicted wholesale on every mutation;
// precision is not worth a stale read when recomputation is one query.
const (
	cacheFamilyList   = "borrows"
	cacheFamilyByUser = "borrows:user"
	cacheFamilyByID   = "borrow"
)

type Service struct {
	store BorrowStore
	cache cache.Cache
	clock Clock
}

func NewService(conn *sql.DB, c cache.Cache) *Service {
	return &Service{
		store: NewStore(conn),
		cache: c,
		clock: realClock{},
	}
}

// NewServiceWith wires explicit collaborators; tests use it to substitute a
// fake store and a fixed clock.
func NewServiceWith(store BorrowStore, c cache.Cache, clock Clock) *Service {
	return &Service{store: store, cache: c, clock: clock}
}

// Create records a new borrow in BORROWED state. Preconditions, in order:
// the caller may borrow at all, the borrower exists, the borrower is a
// member, the book exists, and no active borrow for the pair is open.
func (s *Service) Create(ctx context.Context, principal auth.Principal, req CreateBorrowRequest) (*BorrowResponse, error) {
	if !CanCreateBorrow(principal) {
		return nil, apperr.NotAuthorized(
			fmt.Sprintf("user with id: %d is not authorized to add borrow, must have member role", principal.UserID))
	}

	role, ok, err := s.store.GetUserRole(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("user with id: %d not found", req.UserID))
	}
	if role != auth.RoleMember {
		return nil, apperr.NotAuthorized(
			fmt.Sprintf("user with id: %d is not authorized to add borrow, must have member role", req.UserID))
	}

	exists, err := s.store.BookExists(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(fmt.Sprintf("book with id: %d not found", req.BookID))
	}

	b := &Borrow{
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowDate: req.BorrowDate,
		ReturnDate: req.ReturnDate,
		Status:     StatusBorrowed,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}

	s.cache.EvictFamily(cacheFamilyList)
	s.cache.EvictFamily(cacheFamilyByUser)

	resp := buildBorrowResponse(b)
	return &resp, nil
}

// Return transitions an active borrow to RETURNED, stamping the actual
// return time. Only the borrower themselves may do this; returning twice is
// an error, not a no-op.
func (s *Service) Return(ctx context.Context, principal auth.Principal, borrowID int64) (*BorrowResponse, error) {
	b, err := s.store.GetByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(fmt.Sprintf("borrow with id: %d not exists", borrowID))
	}

	if !CanReturnBorrow(principal, b) {
		return nil, apperr.AccessDenied("you are not authorized to return this book")
	}

	if b.Status == StatusReturned {
		return nil, apperr.AlreadyReturned("the book is already returned")
	}

	now := s.clock.Now()
	n, err := s.store.MarkReturned(ctx, borrowID, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost the race against another return of the same record.
		return nil, apperr.AlreadyReturned("the book is already returned")
	}

	s.cache.EvictKey(cacheFamilyByID, borrowKey(borrowID))
	s.cache.EvictFamily(cacheFamilyList)
	s.cache.EvictFamily(cacheFamilyByUser)

	b.Status = StatusReturned
	b.ReturnDate = now
	resp := buildBorrowResponse(b)
	return &resp, nil
}

// Remove hard-deletes a borrow regardless of its status. Administrative.
func (s *Service) Remove(ctx context.Context, borrowID int64) error {
	n, err := s.store.Delete(ctx, borrowID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("borrow with id: %d not found", borrowID))
	}

	s.cache.EvictKey(cacheFamilyByID, borrowKey(borrowID))
	s.cache.EvictFamily(cacheFamilyList)
	s.cache.EvictFamily(cacheFamilyByUser)
	return nil
}

func (s *Service) Get(ctx context.Context, borrowID int64) (*BorrowResponse, error) {
	key := borrowKey(borrowID)
	if v, ok := s.cache.Get(cacheFamilyByID, key); ok {
		resp := v.(BorrowResponse)
		return &resp, nil
	}

	b, err := s.store.GetByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(fmt.Sprintf("borrow with id: %d not exists", borrowID))
	}

	resp := buildBorrowResponse(b)
	s.cache.Put(cacheFamilyByID, key, resp)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, p Page) ([]BorrowResponse, error) {
	key := pageKey(p)
	if v, ok := s.cache.Get(cacheFamilyList, key); ok {
		return v.([]BorrowResponse), nil
	}

	items, err := s.store.List(ctx, p)
	if err != nil {
		return nil, err
	}

	result := buildBorrowResponses(items)
	s.cache.Put(cacheFamilyList, key, result)
	return result, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64, p Page) ([]BorrowResponse, error) {
	key := fmt.Sprintf("u=%d&%s", userID, pageKey(p))
	if v, ok := s.cache.Get(cacheFamilyByUser, key); ok {
		return v.([]BorrowResponse), nil
	}

	items, err := s.store.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	result := buildBorrowResponses(items)
	s.cache.Put(cacheFamilyByUser, key, result)
	return result, nil
}

// SweepOverdue flags every BORROWED record whose due date lies strictly
// before now. One now per invocation keeps boundary classification
// consistent across the batch.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.store.SweepOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	s.cache.EvictFamily(cacheFamilyList)
	s.cache.EvictFamily(cacheFamilyByUser)
	return n, nil
}

func borrowKey(id int64) string { return fmt.Sprintf("%d", id) }

func pageKey(p Page) string { return fmt.Sprintf("p=%d&s=%d", p.Number, p.Size) }

func buildBorrowResponses(items []*Borrow) []BorrowResponse {
	result := make([]BorrowResponse, 0, len(items))
	for _, b := range items {
		result = append(result, buildBorrowResponse(b))
	}
	return result
}
