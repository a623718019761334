package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/config"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

// AuthController handles the single admin account's cookie session.
type AuthController struct {
	authService service.AuthService
	cookie      config.AdminConfig
}

func NewAuthController(authService service.AuthService, cfg config.AdminConfig) *AuthController {
	return &AuthController{authService: authService, cookie: cfg}
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.CookieName, value, maxAge, "/", "", ctrl.cookie.SecureCookie, true)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Please enter both username and password.")
		return
	}

	session, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredentialsMissing):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Please enter both username and password.")
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid credentials.")
		default:
			log.Error("Admin login failed", err)
			apperrors.InternalError(c, "Login failed. Please try again.")
		}
		return
	}

	ctrl.setSessionCookie(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"session": session,
	})
}

// Logout clears the cookie and revokes the token even if the session was
// already invalid.
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if token, err := c.Cookie(ctrl.cookie.CookieName); err == nil && token != "" {
		if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
			log.Warn("Failed to revoke admin session", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	ctrl.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// Me reports the admin behind the current session.
func (ctrl *AuthController) Me(c *gin.Context) {
	username, _ := middleware.GetAdminUsername(c)
	c.JSON(http.StatusOK, gin.H{
		"username": username,
	})
}
