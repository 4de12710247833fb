// Package storage writes uploaded images to the local filesystem. File names
// are freshly minted ULIDs so uploads can never collide or overwrite each
// other, with the original extension preserved.
package storage

import (
	"crypto/rand"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Content types accepted for image uploads.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// AllowedImageType reports whether contentType is an accepted image type.
func AllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// SaveImage stores the uploaded file under root/kind and returns the path it
// was written to, relative to the store root.
func (fs *FileStore) SaveImage(file *multipart.FileHeader, kind string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	id, err := newULID()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(fs.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	rel := filepath.Join(kind, id+ext)
	dst, err := os.Create(filepath.Join(fs.root, rel))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return rel, nil
}

func newULID() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
