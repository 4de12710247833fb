package authors

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

	r.GET("/authors", h.ListAuthors)
	r.GET("/authors/:authorId", h.GetAuthor)
	r.POST("/authors", librarian, h.AddAuthor)
	r.PUT("/authors/:authorId", librarian, h.UpdateAuthor)
	r.DELETE("/authors/:authorId", librarian, h.DeleteAuthor)
}

type AddAuthorRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddAuthor(c *gin.Context) {
	var req AddAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Add(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListAuthors(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAuthor(c *gin.Context) {
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

func (h *Handler) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AddAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, req.Name); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "author updated successfully"})
}

func (h *Handler) DeleteAuthor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "author deleted successfully"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("authorId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid author id"))
		return 0, false
	}
	return id, true
}
