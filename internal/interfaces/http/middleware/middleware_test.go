package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{Auth: config.AuthConfig{
		JWTSecret: "test-secret-that-is-long-enough-123456",
	}})
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := newJWTManager()
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "ana@example.com", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		email, _ := GetUserEmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "email": email})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
				assert.Contains(t, w.Body.String(), "ana@example.com")
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(newJWTManager()), func(c *gin.Context) {
		_, ok := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestSession(t *testing.T) {
	r := gin.New()
	r.GET("/", Session("session_id", time.Hour, false), func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	t.Run("issues a new session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "session_id="+w.Body.String())
	})

	t.Run("reuses the cookie", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: id})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String())
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", id)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: uuid.NewString()})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String())
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", "cart:session:*")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "cart:session:*", w.Body.String())
	})
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, int, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, 0, f.err
	}
	if f.allowed {
		return true, limit - 1, nil
	}
	return false, 0, nil
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter *fakeLimiter
		status  int
	}{
		{"within limit", &fakeLimiter{allowed: true}, http.StatusOK},
		{"over limit", &fakeLimiter{allowed: false}, http.StatusTooManyRequests},
		{"redis down fails open", &fakeLimiter{err: errors.New("connection refused")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RateLimit(tt.limiter, 10, logger.Discard()))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			require.Len(t, tt.limiter.keys, 1)
			assert.True(t, strings.HasPrefix(tt.limiter.keys[0], "rate_limit:"))
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{Security: config.SecurityConfig{
		CORSAllowedOrigins: []string{"https://shop.example.com", "*.preview.example.com"},
		CORSAllowedMethods: []string{"GET"},
	}}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://shop.example.com", true},
		{"https://pr-1.preview.example.com", true},
		{"https://evilpreview.example.com", false},
		{"https://other.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if tt.allowed {
			assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
