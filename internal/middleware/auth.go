package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/logger"
	"github.com/mouwaficbdr/my-facebook/pkg/apperrors"
)

// Session cookie names. The user session and the elevated admin session are
// carried in separate cookies so an admin can hold both at once.
const (
	SessionCookieName = "token"
	AdminCookieName   = "admin_jwt"
)

// AuthMiddleware verifies the user session token from the session cookie,
// falling back to an Authorization Bearer header, and stores the claims in
// the Gin context.
func AuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c, SessionCookieName)
		if tokenStr == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := issuer.Parse(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired session")
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

// AdminMiddleware verifies the elevated admin session from its dedicated
// cookie. An ordinary user token, even for an admin account, is not enough:
// the claims must carry the admin-session flag.
func AdminMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c, AdminCookieName)
		if tokenStr == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := issuer.Parse(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired session")
			return
		}
		if !claims.IsAdminSession || !auth.IsAdmin(claims) {
			logger.CtxWarn(c.Request.Context(), "admin access denied", "user_id", claims.UserID)
			c.AbortWithStatusJSON(http.StatusForbidden, apperrors.ErrorResponse{
				Success: false,
				Message: "Access denied",
			})
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func setSession(c *gin.Context, claims *auth.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("role", string(claims.Role))
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
