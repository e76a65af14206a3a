package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/config"
	"github.com/mouwaficbdr/my-facebook/internal/email"
	"github.com/mouwaficbdr/my-facebook/internal/handlers"
	"github.com/mouwaficbdr/my-facebook/internal/logger"
	"github.com/mouwaficbdr/my-facebook/internal/middleware"
	"github.com/mouwaficbdr/my-facebook/internal/models"
	"github.com/mouwaficbdr/my-facebook/internal/ratelimit"
	"github.com/mouwaficbdr/my-facebook/internal/repositories"
	"github.com/mouwaficbdr/my-facebook/internal/routes"
	"github.com/mouwaficbdr/my-facebook/internal/services"
	"github.com/mouwaficbdr/my-facebook/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// Run assembles the application and serves HTTP until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(string(cfg.Server.Env))
	logger.Info("Starting server", "env", cfg.Server.Env, "port", cfg.Server.Port)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	userRepo := repositories.NewUserRepository(db)
	if err := seedFirstAdmin(userRepo, cfg); err != nil {
		return err
	}

	emailProvider, err := newEmailProvider(cfg)
	if err != nil {
		return err
	}

	store := ratelimit.NewMemoryStore()
	defer store.Stop()
	limiter := ratelimit.New(store)

	issuer := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.UserSessionTTL(), cfg.AdminSessionTTL())
	authService := services.NewAuthService(userRepo, emailProvider, issuer, cfg.Server.Env)

	router := NewRouter(cfg, authService, issuer, limiter)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	errC := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errC:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// NewRouter builds the engine with the full middleware chain and routes.
func NewRouter(
	cfg *config.Config,
	authService services.AuthService,
	issuer *auth.TokenIssuer,
	limiter *ratelimit.Limiter,
) *gin.Engine {
	if cfg.Server.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(cfg.Server.PublicBaseURL),
	)

	base := handlers.NewBaseHandler(validator.New(), cfg.Server.Env)
	authHandler := handlers.NewAuthHandler(base, authService, issuer, cfg.Server.Env)
	routes.Register(router, authHandler, issuer, limiter, cfg)
	return router
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	// TranslateError maps driver duplicate-key errors to
	// gorm.ErrDuplicatedKey; the repository relies on it to close the
	// check-then-insert race on signup.
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database ready")
	return db, nil
}

func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	if !cfg.Server.Env.IsProduction() {
		logger.Info("Using log email provider")
		return &email.LogProvider{PublicBaseURL: cfg.Server.PublicBaseURL}, nil
	}

	provider, err := email.NewSMTPProvider(email.Config{
		SMTPHost:      cfg.Email.SMTPHost,
		SMTPPort:      cfg.Email.SMTPPort,
		SMTPUsername:  cfg.Email.SMTPUsername,
		SMTPPassword:  cfg.Email.SMTPPassword,
		FromEmail:     cfg.Email.FromEmail,
		FromName:      cfg.Email.FromName,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure smtp provider: %w", err)
	}
	return provider, nil
}

// seedFirstAdmin creates the initial admin account on first boot when the
// config provides one. Existing accounts are left untouched.
func seedFirstAdmin(userRepo repositories.UserRepository, cfg *config.Config) error {
	if cfg.Admin.SeedEmail == "" || cfg.Admin.SeedPassword == "" {
		return nil
	}

	if _, err := userRepo.FindByEmail(cfg.Admin.SeedEmail); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Admin.SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:          cfg.Admin.SeedEmail,
		PasswordHash:   hash,
		Nom:            "Admin",
		Prenom:         "Admin",
		Genre:          models.GenreAutre,
		DateNaissance:  time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Role:           models.UserRoleAdmin,
		IsActive:       true,
		EmailConfirmed: true,
	}
	if err := userRepo.Create(admin); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	logger.Info("Seeded first admin account", "email", cfg.Admin.SeedEmail)
	return nil
}
