package categories

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

	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:categoryId", h.GetCategory)
	r.POST("/categories", librarian, h.AddCategory)
	r.DELETE("/categories/:categoryId", librarian, h.DeleteCategory)
}

type AddCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddCategory(c *gin.Context) {
	var req AddCategoryRequest
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

func (h *Handler) ListCategories(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetCategory(c *gin.Context) {
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

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid category id"))
		return 0, false
	}
	return id, true
}
