package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointhub-backend/pkg/jwt"
)

func newTestRouter(m *jwt.Manager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	handlers := []gin.HandlerFunc{AuthMiddleware(m)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)
	userID := uuid.New()
	token, err := m.GenerateAccessToken(userID.String(), "hanif@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newTestRouter(m).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)

	w := httptest.NewRecorder()
	newTestRouter(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireRoles(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)
	token, err := m.GenerateAccessToken(uuid.NewString(), "cashier@example.com", "pos")
	require.NoError(t, err)

	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{"admin only", []string{"admin"}, http.StatusForbidden},
		{"admin or pos", []string{"admin", "pos"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			newTestRouter(m, tt.roles...).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
