package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docrecon/internal/domain"
	"docrecon/internal/middleware"
	"docrecon/internal/service"
	"docrecon/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"},
		Email:            "ap@example.com",
		Role:             domain.RoleReviewer,
	}
	mockAuth.On("ValidateToken", "valid-token").Return(claims, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		subject, _ := middleware.GetSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject, "role": middleware.GetRole(c)})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-7", resp["subject"])
	assert.Equal(t, "reviewer", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"invalid token", "Bearer bad-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized)

			r := gin.New()
			r.Use(middleware.AuthMiddleware(mockAuth))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"reviewer denied", "reviewer", http.StatusForbidden},
		{"no role", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(middleware.ContextKeyRole, tt.role)
				}
				c.Next()
			})
			r.DELETE("/test", middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodDelete, "/test", http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://app.example.com", "http://localhost:3000"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://app.example.com"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://app.example.com"}))
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(zap.New(core)))
	r.GET("/test", func(c *gin.Context) {
		middleware.LoggerFrom(c).Info("inside handler")
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside handler", entries[0].Message)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "request", entries[1].Message)
	assert.EqualValues(t, http.StatusCreated, entries[1].ContextMap()["status"])
}

func TestRequestID_Generated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := gin.New()
	r.Use(middleware.Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("boom")) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, logs.Len())
}

func TestMaxBodySize(t *testing.T) {
	r := gin.New()
	r.Use(middleware.MaxBodySize(8))
	r.POST("/test", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"key":"a much longer value"}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
