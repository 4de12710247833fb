package books

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"

	"library-backend/internal/platform/apperr"
	"library-backend/internal/platform/storage"
)

type AddBookRequest struct {
	Title           string  `json:"title" binding:"required"`
	ISBN            string  `json:"isbn" binding:"required"`
	PublicationYear string  `json:"publicationYear" binding:"required"`
	CategoryID      int64   `json:"categoryId" binding:"required"`
	AuthorIDs       []int64 `json:"authorIds"`
}

type BookResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	ISBN            string  `json:"isbn"`
	PublicationYear string  `json:"publicationYear"`
	CategoryID      int64   `json:"categoryId"`
	AuthorIDs       []int64 `json:"authorIds"`
}

func buildBookResponse(b *Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		CategoryID:      b.CategoryID,
		AuthorIDs:       b.AuthorIDs,
	}
}

type Service struct {
	store BookStore
	files *storage.FileStore
}

func NewService(conn *sql.DB, files *storage.FileStore) *Service {
	return &Service{store: NewStore(conn), files: files}
}

func NewServiceWith(store BookStore, files *storage.FileStore) *Service {
	return &Service{store: store, files: files}
}

// checkReferences verifies the category and every author referenced by the
// request actually exist.
func (s *Service) checkReferences(ctx context.Context, req AddBookRequest) error {
	ok, err := s.store.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(fmt.Sprintf("category with id: %d not found", req.CategoryID))
	}

	missing, any, err := s.store.MissingAuthor(ctx, req.AuthorIDs)
	if err != nil {
		return err
	}
	if any {
		return apperr.NotFound(fmt.Sprintf("author with id: %d not found", missing))
	}
	return nil
}

func (s *Service) Add(ctx context.Context, req AddBookRequest) (*BookResponse, error) {
	exists, err := s.store.ExistsByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists(fmt.Sprintf("book with title: %s already exist", req.Title))
	}

	exists, err = s.store.ExistsByISBN(ctx, req.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists(fmt.Sprintf("book with isbn: %s already exist", req.ISBN))
	}

	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	b := &Book{
		Title:           req.Title,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		CategoryID:      req.CategoryID,
		AuthorIDs:       req.AuthorIDs,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}

	resp := buildBookResponse(b)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]BookResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]BookResponse, 0, len(items))
	for _, b := range items {
		result = append(result, buildBookResponse(b))
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*BookResponse, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(fmt.Sprintf("book with id: %d not exist", id))
	}
	resp := buildBookResponse(b)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, req AddBookRequest) error {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return apperr.NotFound(fmt.Sprintf("book with id: %d not exist", id))
	}

	if err := s.checkReferences(ctx, req); err != nil {
		return err
	}

	b.Title = req.Title
	b.ISBN = req.ISBN
	b.PublicationYear = req.PublicationYear
	b.CategoryID = req.CategoryID
	b.AuthorIDs = req.AuthorIDs
	return s.store.Update(ctx, b)
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("book with id: %d not exist", id))
	}
	return nil
}

// AddImages stores each uploaded file and links it to the book. Every file
// must be an accepted image type; the whole upload is rejected otherwise
// before anything is written.
func (s *Service) AddImages(ctx context.Context, bookID int64, files []*multipart.FileHeader) ([]string, error) {
	b, err := s.store.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(fmt.Sprintf("book with id: %d not exist", bookID))
	}

	for _, file := range files {
		if !storage.AllowedImageType(file.Header.Get("Content-Type")) {
			return nil, apperr.InvalidArgument("invalid file type, only PNG, JPG and JPEG files are allowed")
		}
	}

	var paths []string
	for _, file := range files {
		path, err := s.files.SaveImage(file, "book")
		if err != nil {
			return nil, err
		}

		img := &BookImage{BookID: bookID, Name: file.Filename, Path: path}
		if err := s.store.AddImage(ctx, img); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
