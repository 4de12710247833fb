package books

import "time"

type Book struct {
	ID              int64
	Title           string
	ISBN            string
	PublicationYear string
	CategoryID      int64
	AuthorIDs       []int64
}

type BookImage struct {
	ID         int64
	BookID     int64
	Name       string
	Path       string
	UploadedAt time.Time
}
