package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/config"
	"github.com/mouwaficbdr/my-facebook/internal/middleware"
	"github.com/mouwaficbdr/my-facebook/internal/services"
	"github.com/mouwaficbdr/my-facebook/internal/services/dto"
	"github.com/mouwaficbdr/my-facebook/pkg/apperrors"
)

// Messages for the enumeration-sensitive endpoints. Signup and
// forgot-password answer the same way whether or not the email is
// registered; do not specialize them.
const (
	msgSignupAccepted  = "Account created. Check your inbox to confirm your email address."
	msgEmailConfirmed  = "Email confirmed. You can now log in."
	msgLoggedIn        = "Logged in."
	msgLoggedOut       = "Logged out."
	msgResetRequested  = "If this email is registered, a reset link has been sent."
	msgPasswordChanged = "Password changed. You can now log in."
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	issuer      *auth.TokenIssuer
	env         config.Environment
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, issuer *auth.TokenIssuer, env config.Environment) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		issuer:      issuer,
		env:         env,
	}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.Signup(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": msgSignupAccepted,
	})
}

// ConfirmEmail handles GET /confirm-email?token=...
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.authService.ConfirmEmail(c.Request.Context(), token); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgEmailConfirmed,
	})
}

// Login handles POST /login. On success the session token travels in an
// HttpOnly cookie, never in the response body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, middleware.SessionCookieName, token, h.issuer.UserTTL(), http.SameSiteStrictMode)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoggedIn,
		"user":    user,
	})
}

// Logout handles POST /logout (and GET, for plain link logouts).
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c, middleware.SessionCookieName)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoggedOut,
	})
}

// AdminLogin handles POST /admin/login. The elevated session lives in its
// own cookie so it can coexist with an ordinary user session.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	token, user, err := h.authService.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, middleware.AdminCookieName, token, h.issuer.AdminTTL(), h.adminSameSite())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoggedIn,
		"user":    user,
	})
}

// AdminLogout handles POST /admin/logout.
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	h.clearSessionCookie(c, middleware.AdminCookieName)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoggedOut,
	})
}

// ForgotPassword handles POST /forgot-password. The response is identical
// for registered and unknown emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgResetRequested,
	})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgPasswordChanged,
	})
}

// Me handles GET /me for the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.HandleServiceError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, name, token string, ttl time.Duration, sameSite http.SameSite) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.env.IsProduction(),
		SameSite: sameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.env.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

// adminSameSite relaxes the admin cookie outside production so the admin UI
// can run on a separate dev origin.
func (h *AuthHandler) adminSameSite() http.SameSite {
	if h.env.IsProduction() {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}
