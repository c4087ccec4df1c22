package vitals

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/vitals"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/httputil"
)

type Handler struct {
	svc *vitals.Service
}

func NewHandler(svc *vitals.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/stats", h.Stats)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req model.CreateVitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid vitals data", err))
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Vitals recorded successfully",
		"vitals":  entry,
	})
}

func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var filter model.VitalsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid query parameters", err))
		return
	}

	entries, pageInfo, err := h.svc.List(c.Request.Context(), user.ID, &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"vitals":     entries,
		"pagination": pageInfo,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	stats, err := h.svc.Stats(c.Request.Context(), user.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

func (h *Handler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid vitals ID", err))
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"vitals":  entry,
	})
}

func (h *Handler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid vitals ID", err))
		return
	}

	var req model.UpdateVitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid vitals data", err))
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Vitals updated successfully",
		"vitals":  entry,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid vitals ID", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Vitals deleted successfully",
	})
}
