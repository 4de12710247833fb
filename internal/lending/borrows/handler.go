package borrows

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

	r.POST("/borrows", h.CreateBorrow)
	r.GET("/borrows", h.ListBorrows)
	r.GET("/borrows/:borrowId", h.GetBorrow)
	r.GET("/borrows/user/:userId", h.ListBorrowsByUser)
	r.PATCH("/borrows/:borrowId/returned", h.ReturnBorrow)
	r.DELETE("/borrows/:borrowId", auth.RequireRole(auth.RoleAdmin), h.DeleteBorrow)
}

// ---------- handlers ----------

func (h *Handler) CreateBorrow(c *gin.Context) {
	var req CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	if !req.DatesValid() {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "return date must be after borrow date"))
		return
	}

	p, _ := auth.PrincipalFrom(c)
	res, err := h.svc.Create(c.Request.Context(), p, req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	c.Header("Location", "/borrows/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListBorrows(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBorrow(c *gin.Context) {
	id, ok := pathID(c, "borrowId")
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

func (h *Handler) ListBorrowsByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	res, err := h.svc.ListByUser(c.Request.Context(), userID, pageFromQuery(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ReturnBorrow(c *gin.Context) {
	id, ok := pathID(c, "borrowId")
	if !ok {
		return
	}

	p, _ := auth.PrincipalFrom(c)
	res, err := h.svc.Return(c.Request.Context(), p, id)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteBorrow(c *gin.Context) {
	id, ok := pathID(c, "borrowId")
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "borrow deleted successfully"})
}

// ---------- helpers ----------

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid "+name))
		return 0, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) Page {
	size := parseIntDefault(c.Query("size"), 20)
	if size <= 0 || size > 100 {
		size = 20
	}
	return Page{
		Number: parseIntDefault(c.Query("page"), 0),
		Size:   size,
	}
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return d
	}
	return v
}
