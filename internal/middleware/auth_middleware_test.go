package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSessionSecret = "test-session-secret-for-middleware"
	testCookieName    = "admin_session"
	testLoginURL      = "/admin/login"
)

type stubValidator struct {
	revoked bool
}

func (v stubValidator) ValidateSession(ctx context.Context, token string) (*util.SessionClaims, error) {
	claims, err := util.ValidateSessionToken(token, testSessionSecret)
	if err != nil {
		return nil, err
	}
	if v.revoked {
		return nil, service.ErrSessionRevoked
	}
	return claims, nil
}

func setupGuardTest(validator SessionValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/admin/ping", AdminSessionGuard(validator, testCookieName, testLoginURL), func(c *gin.Context) {
		username, _ := GetAdminUsername(c)
		c.JSON(http.StatusOK, gin.H{"username": username})
	})
	return router
}

func newSessionToken(t *testing.T, ttl time.Duration) string {
	token, err := util.GenerateSessionToken("admin", testSessionSecret, ttl)
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAdminSessionGuard_ValidSession(t *testing.T) {
	router := setupGuardTest(stubValidator{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: newSessionToken(t, time.Hour)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
}

func TestAdminSessionGuard_MissingCookie(t *testing.T) {
	router := setupGuardTest(stubValidator{})

	t.Run("api client gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.AuthUnauthorized, decodeError(t, w).Error)
	})

	t.Run("browser is redirected to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, testLoginURL, w.Header().Get("Location"))
	})
}

func TestAdminSessionGuard_RejectedTokens(t *testing.T) {
	tests := []struct {
		name      string
		validator stubValidator
		token     func(t *testing.T) string
		code      string
	}{
		{
			name:  "tampered",
			token: func(t *testing.T) string { return newSessionToken(t, time.Hour) + "x" },
			code:  apperrors.AuthTokenInvalid,
		},
		{
			name:  "wrong secret",
			token: func(t *testing.T) string {
				token, err := util.GenerateSessionToken("admin", "another-secret", time.Hour)
				require.NoError(t, err)
				return token
			},
			code: apperrors.AuthTokenInvalid,
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return newSessionToken(t, -time.Minute) },
			code:  apperrors.AuthTokenExpired,
		},
		{
			name:      "revoked",
			validator: stubValidator{revoked: true},
			token:     func(t *testing.T) string { return newSessionToken(t, time.Hour) },
			code:      apperrors.AuthTokenRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupGuardTest(tt.validator)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
			req.AddCookie(&http.Cookie{Name: testCookieName, Value: tt.token(t)})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://kadunaconnect.ng"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://kadunaconnect.ng")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://kadunaconnect.ng", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://kadunaconnect.ng")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Body.String())
}
