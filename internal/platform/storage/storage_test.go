package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImageType(t *testing.T) {
	assert.True(t, AllowedImageType("image/png"))
	assert.True(t, AllowedImageType("image/jpeg"))
	assert.True(t, AllowedImageType("image/jpg"))
	assert.False(t, AllowedImageType("image/gif"))
	assert.False(t, AllowedImageType("application/pdf"))
	assert.False(t, AllowedImageType(""))
}

// uploadedFile builds a real multipart.FileHeader the way an HTTP handler
// would receive one.
func uploadedFile(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveImage(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	fh := uploadedFile(t, "cover.png", "image/png", []byte("png-bytes"))
	rel, err := fs.SaveImage(fh, "book")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "book"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	data, err := os.ReadFile(filepath.Join(fs.root, rel))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveImage_DistinctNames(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	a, err := fs.SaveImage(uploadedFile(t, "a.jpg", "image/jpeg", []byte("a")), "profile")
	require.NoError(t, err)
	b, err := fs.SaveImage(uploadedFile(t, "a.jpg", "image/jpeg", []byte("b")), "profile")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSaveImage_RejectsUnknownType(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	_, err := fs.SaveImage(uploadedFile(t, "x.gif", "image/gif", []byte("gif")), "book")
	assert.Error(t, err)
}
