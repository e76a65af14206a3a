package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/config"
	"github.com/mouwaficbdr/my-facebook/internal/handlers"
	"github.com/mouwaficbdr/my-facebook/internal/middleware"
	"github.com/mouwaficbdr/my-facebook/internal/ratelimit"
)

// Register wires every endpoint onto the engine. Auth routes live at the
// root (no /api prefix), matching the public contract of the frontend.
func Register(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	issuer *auth.TokenIssuer,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	r.POST("/signup",
		middleware.RateLimit(limiter, "signup", policy(cfg.RateLimit.Signup)),
		authHandler.Signup,
	)
	r.GET("/confirm-email", authHandler.ConfirmEmail)

	r.POST("/login",
		middleware.RateLimit(limiter, "login", policy(cfg.RateLimit.Login)),
		authHandler.Login,
	)
	r.POST("/logout", authHandler.Logout)
	r.GET("/logout", authHandler.Logout)

	r.POST("/forgot-password",
		middleware.RateLimit(limiter, "forgot-password", policy(cfg.RateLimit.ForgotPassword)),
		authHandler.ForgotPassword,
	)
	r.POST("/reset-password", authHandler.ResetPassword)

	r.GET("/me", middleware.AuthMiddleware(issuer), authHandler.Me)

	admin := r.Group("/admin")
	{
		admin.POST("/login",
			middleware.RateLimit(limiter, "admin-login", policy(cfg.RateLimit.AdminLogin)),
			authHandler.AdminLogin,
		)
		admin.POST("/logout", middleware.AdminMiddleware(issuer), authHandler.AdminLogout)
	}
}

func policy(p config.LimitPolicy) ratelimit.Policy {
	return ratelimit.Policy{
		MaxAttempts: p.MaxAttempts,
		Window:      p.Window(),
	}
}
