package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/auth"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/httputil"
)

const cookieName = "token"

type Handler struct {
	svc          *auth.Service
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewHandler(svc *auth.Service, cookieMaxAge time.Duration, secureCookie bool) *Handler {
	return &Handler{svc: svc, cookieMaxAge: cookieMaxAge, secureCookie: secureCookie}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/profile", authn, h.GetProfile)
	r.PUT("/profile", authn, h.UpdateProfile)
}

func (h *Handler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, int(h.cookieMaxAge.Seconds()), "/", "", h.secureCookie, true)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Please provide name, email and password", err))
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Please provide email and password", err))
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(cookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid profile data", err))
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    updated,
	})
}
