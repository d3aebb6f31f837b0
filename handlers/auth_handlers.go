// api/handlers/auth_handlers.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/api/middleware"
	"portfolio/api/models"
	"portfolio/api/utils"
)

type AuthHandlers struct {
	Auth   *middleware.AdminAuth
	Secure bool
	logger zerolog.Logger
}

func NewAuthHandlers(auth *middleware.AdminAuth, secure bool, logger zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		Auth:   auth,
		Secure: secure,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Login checks the admin credentials and issues a JWT, both as a cookie
// and in the body for non-browser clients.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !h.Auth.Verify(req.Username, req.Password) {
		h.logger.Warn().Str("username", req.Username).Str("ip", c.ClientIP()).Msg("login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := h.Auth.IssueToken()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate JWT")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.TokenCookie,
		tokenString,
		int(utils.TokenTTL.Seconds()),
		"/",
		"",
		h.Secure,
		true,
	)

	h.logger.Info().Str("username", req.Username).Msg("admin logged in")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   tokenString,
	})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(
		middleware.TokenCookie,
		"",
		-1,
		"/",
		"",
		h.Secure,
		true,
	)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
