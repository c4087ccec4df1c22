package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
)

type fakeResolver struct {
	users map[string]*model.User
}

func (f *fakeResolver) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return u, nil
}

func setupAuthRouter(resolver TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(resolver), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID.String()})
	})
	return r
}

func TestAuthBearerHeader(t *testing.T) {
	user := &model.User{Base: model.Base{ID: uuid.New()}}
	r := setupAuthRouter(&fakeResolver{users: map[string]*model.User{"good-token": user}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestAuthCookieFallback(t *testing.T) {
	user := &model.User{Base: model.Base{ID: uuid.New()}}
	r := setupAuthRouter(&fakeResolver{users: map[string]*model.User{"cookie-token": user}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMissingToken(t *testing.T) {
	r := setupAuthRouter(&fakeResolver{users: map[string]*model.User{}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token")
}

func TestAuthInvalidToken(t *testing.T) {
	r := setupAuthRouter(&fakeResolver{users: map[string]*model.User{}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
