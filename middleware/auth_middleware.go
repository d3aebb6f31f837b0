package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"portfolio/api/utils"
)

// TokenCookie is the cookie carrying the admin JWT.
const TokenCookie = "jwt_token"

// AdminAuth guards the mutating routes. The admin password is kept only as
// a bcrypt hash.
type AdminAuth struct {
	username string
	hash     []byte
	secret   []byte
	logger   zerolog.Logger
}

func NewAdminAuth(username, password string, secret []byte, logger zerolog.Logger) (*AdminAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminAuth{
		username: username,
		hash:     hash,
		secret:   secret,
		logger:   logger.With().Str("component", "auth").Logger(),
	}, nil
}

// Verify reports whether the credentials match the admin account.
func (a *AdminAuth) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	return userOK && passErr == nil
}

// IssueToken signs a token for the admin account.
func (a *AdminAuth) IssueToken() (string, error) {
	return utils.GenerateJWT(a.username, a.secret)
}

// Required accepts HTTP Basic admin credentials, a bearer token or the
// token cookie.
func (a *AdminAuth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, pass, ok := c.Request.BasicAuth(); ok {
			if !a.Verify(user, pass) {
				a.logger.Warn().Str("user", user).Msg("invalid basic credentials")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid credentials"})
				return
			}
			c.Set("admin_user", user)
			c.Next()
			return
		}

		tokenString, err := c.Cookie(TokenCookie)
		if err != nil || tokenString == "" {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if tokenString == "" {
			c.Header("WWW-Authenticate", `Basic realm="portfolio"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}

		claims, err := utils.ValidateJWT(tokenString, a.secret)
		if err != nil {
			a.logger.Warn().Err(err).Msg("invalid admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("admin_user", claims.Username)
		c.Next()
	}
}
