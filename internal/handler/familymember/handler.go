package familymember

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/familymember"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/httputil"
)

type Handler struct {
	svc *familymember.Service
}

func NewHandler(svc *familymember.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req model.CreateFamilyMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Please provide name and relation", err))
		return
	}

	member, err := h.svc.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Family member added successfully",
		"member":  member,
	})
}

func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	members, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"members": members,
	})
}

func (h *Handler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid member ID", err))
		return
	}

	member, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"member":  member,
	})
}

func (h *Handler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid member ID", err))
		return
	}

	var req model.UpdateFamilyMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid member data", err))
		return
	}

	member, err := h.svc.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Family member updated successfully",
		"member":  member,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid member ID", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Family member removed successfully",
	})
}
