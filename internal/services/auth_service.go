package services

import (
	"context"
	"time"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/config"
	"github.com/mouwaficbdr/my-facebook/internal/email"
	"github.com/mouwaficbdr/my-facebook/internal/logger"
	"github.com/mouwaficbdr/my-facebook/internal/models"
	"github.com/mouwaficbdr/my-facebook/internal/repositories"
	"github.com/mouwaficbdr/my-facebook/internal/services/dto"
	"github.com/mouwaficbdr/my-facebook/pkg/apperrors"
)

const resetTokenTTL = time.Hour

// AuthService sequences the account state machine: signup -> confirm-email
// -> login, plus the password-reset pair. Enumeration-sensitive steps
// collapse distinct causes into one generic error on purpose; callers must
// not refine them.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) error
	ConfirmEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error)
	AdminLogin(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
	issuer        *auth.TokenIssuer
	env           config.Environment
}

func NewAuthService(
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	issuer *auth.TokenIssuer,
	env config.Environment,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		emailProvider: emailProvider,
		issuer:        issuer,
		env:           env,
	}
}

// Signup creates an unconfirmed account and mails the confirmation link.
// Field validation happens in the handler; this method owns hashing, token
// generation and the duplicate-email policy.
func (s *AuthServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) error {
	birthDate, err := time.Parse("2006-01-02", req.DateNaissance)
	if err != nil {
		return apperrors.ValidationError(map[string]string{"date_naissance": "Must be a valid date (YYYY-MM-DD)"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	confirmToken, err := auth.NewSingleUseToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Nom:               req.Nom,
		Prenom:            req.Prenom,
		Genre:             models.Genre(req.Genre),
		DateNaissance:     birthDate,
		Role:              models.UserRoleUser,
		IsActive:          true,
		EmailConfirmed:    false,
		EmailConfirmToken: &confirmToken,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			if s.env.IsProduction() {
				// Success-shaped response so the endpoint cannot be used to
				// probe registered emails. No second row exists, no mail goes out.
				logger.CtxWarn(ctx, "signup on already registered email", "email", user.Email)
				return nil
			}
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID)
	s.sendConfirmationEmail(ctx, user.Email, confirmToken)
	return nil
}

// ConfirmEmail consumes the confirmation token and activates the account.
// Unknown and already-used tokens get the same answer.
func (s *AuthServiceImpl) ConfirmEmail(ctx context.Context, token string) error {
	if !auth.IsSingleUseToken(token) {
		return apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.ConsumeConfirmToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "email confirmed", "user_id", user.ID)
	return nil
}

// Login checks credentials and issues a session token. Wrong password,
// unknown email, unconfirmed and disabled accounts all fail identically.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}

	s.touchLastLogin(ctx, user.ID)
	return token, dto.NewUserResponse(user), nil
}

// AdminLogin issues an elevated session. Non-admin accounts fail with the
// same generic error as bad credentials.
func (s *AuthServiceImpl) AdminLogin(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return "", nil, err
	}
	if user.Role != models.UserRoleAdmin {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issuer.IssueAdmin(user)
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}

	s.touchLastLogin(ctx, user.ID)
	logger.CtxInfo(ctx, "admin session opened", "user_id", user.ID)
	return token, dto.NewUserResponse(user), nil
}

// ForgotPassword never reveals whether the email is registered: the handler
// responds with the same generic success either way.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxDebug(ctx, "password reset requested for unknown email")
			return nil
		}
		return apperrors.InternalError(err)
	}

	resetToken, err := auth.NewSingleUseToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.SetResetToken(user.ID, resetToken, time.Now().Add(resetTokenTTL)); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password reset token issued", "user_id", user.ID)
	s.sendPasswordResetEmail(ctx, user.Email, resetToken)
	return nil
}

// ResetPassword consumes the reset token and stores the new hash. Expired,
// unknown and already-used tokens all fail identically.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if !auth.IsSingleUseToken(req.Token) {
		return apperrors.ErrInvalidToken
	}

	// Hash before consuming the token: a hashing failure must leave the
	// token intact so the user can retry with the same link.
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user, err := s.userRepo.ConsumeResetToken(req.Token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePasswordHash(user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password reset", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

// authenticate is the shared credential check behind Login and AdminLogin.
func (s *AuthServiceImpl) authenticate(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.CanAuthenticate() {
		logger.CtxWarn(ctx, "login on unconfirmed or disabled account", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// touchLastLogin is best-effort; a failed timestamp never fails a login.
func (s *AuthServiceImpl) touchLastLogin(ctx context.Context, userID uint) {
	if err := s.userRepo.UpdateLastLogin(userID); err != nil {
		logger.CtxWarn(ctx, "failed to update last_login", "user_id", userID, "error", err.Error())
	}
}

func (s *AuthServiceImpl) sendConfirmationEmail(ctx context.Context, to, token string) {
	if s.emailProvider == nil {
		return
	}
	// The request context ends with the response; carry only its log fields
	// into the send goroutine.
	log := logger.FromContext(ctx)
	go func() {
		if err := s.emailProvider.SendConfirmation(to, token); err != nil {
			log.Warn("failed to send confirmation email", "error", err.Error())
		}
	}()
}

func (s *AuthServiceImpl) sendPasswordResetEmail(ctx context.Context, to, token string) {
	if s.emailProvider == nil {
		return
	}
	log := logger.FromContext(ctx)
	go func() {
		if err := s.emailProvider.SendPasswordReset(to, token); err != nil {
			log.Warn("failed to send password reset email", "error", err.Error())
		}
	}()
}
