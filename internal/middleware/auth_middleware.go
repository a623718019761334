package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/pkg/util"
)

const AdminUsernameKey = "admin_username"

// SessionValidator is the part of the auth service the guard needs.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*util.SessionClaims, error)
}

// AdminSessionGuard protects the admin surface. A request without a valid
// session cookie is redirected to loginURL when it comes from a browser page
// and gets a 401 JSON body otherwise.
func AdminSessionGuard(sessions SessionValidator, cookieName, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			log.Debug("Admin session cookie missing", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			rejectAdmin(c, loginURL, apperrors.AuthUnauthorized, "Authentication required")
			return
		}

		claims, err := sessions.ValidateSession(c.Request.Context(), token)
		if err != nil {
			log.Warn("Admin session rejected", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			code, message := apperrors.AuthTokenInvalid, "Invalid session"
			switch {
			case errors.Is(err, util.ErrExpiredToken):
				code, message = apperrors.AuthTokenExpired, "Session has expired"
			case errors.Is(err, service.ErrSessionRevoked):
				code, message = apperrors.AuthTokenRevoked, "Session has ended"
			}
			rejectAdmin(c, loginURL, code, message)
			return
		}

		c.Set(AdminUsernameKey, claims.Username)
		c.Next()
	}
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

func rejectAdmin(c *gin.Context, loginURL, code, message string) {
	if wantsHTML(c) && loginURL != "" {
		c.Redirect(http.StatusFound, loginURL)
		c.Abort()
		return
	}
	apperrors.RespondWithError(c, http.StatusUnauthorized, code, message)
	c.Abort()
}

// GetAdminUsername extracts the authenticated admin from context
func GetAdminUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(AdminUsernameKey)
	if !exists {
		return "", false
	}
	s, ok := username.(string)
	return s, ok
}
