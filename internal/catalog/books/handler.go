package books

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apperr"
	"library-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	librarian := auth.RequireRole(auth.RoleLibrarian)

	r.GET("/books", h.ListBooks)
	r.GET("/books/:bookId", h.GetBook)
	r.POST("/books", librarian, h.AddBook)
	r.PUT("/books/:bookId", librarian, h.UpdateBook)
	r.DELETE("/books/:bookId", librarian, h.DeleteBook)
	r.POST("/books/:bookId/images", librarian, h.UploadImages)
}

func (h *Handler) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Add(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	c.Header("Location", "/books/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListBooks(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, req); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book updated successfully"})
}

func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

func (h *Handler) UploadImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "multipart form is required"))
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "at least one image file is required"))
		return
	}

	paths, err := h.svc.AddImages(c.Request.Context(), id, files)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"paths": paths})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid book id"))
		return 0, false
	}
	return id, true
}
