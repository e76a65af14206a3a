package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mouwaficbdr/my-facebook/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrTokenNotFound     = errors.New("token not found")
)

// NormalizeEmail lowercases and trims an address. Emails are compared and
// stored in this form only; two case-variants of one address must resolve to
// the same row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRepository interface {
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(user *models.User) error

	// ConsumeConfirmToken marks the matching unconfirmed account as confirmed
	// and clears the token in one atomic update. A second call with the same
	// token fails with ErrTokenNotFound.
	ConsumeConfirmToken(token string) (*models.User, error)

	SetResetToken(userID uint, token string, expiry time.Time) error

	// ConsumeResetToken clears a matching, unexpired reset token atomically
	// and returns the owning user. Expired tokens fail even when they still
	// match, independent of explicit clearing.
	ConsumeResetToken(token string) (*models.User, error)

	UpdatePasswordHash(userID uint, hash string) error
	UpdateLastLogin(userID uint) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", NormalizeEmail(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	user.Email = NormalizeEmail(user.Email)

	// Pre-check for a friendly error; the unique index on email remains the
	// authority for the check-and-insert race.
	var existing models.User
	if err := r.db.Select("id").Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) ConsumeConfirmToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email_confirm_token = ? AND email_confirmed = ?", token, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	// The update is keyed by the token itself, so of two concurrent consumers
	// exactly one sees RowsAffected == 1.
	result := r.db.Model(&models.User{}).
		Where("id = ? AND email_confirm_token = ?", user.ID, token).
		Updates(map[string]interface{}{
			"email_confirmed":     true,
			"email_confirm_token": nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTokenNotFound
	}

	user.EmailConfirmed = true
	user.EmailConfirmToken = nil
	return &user, nil
}

func (r *UserRepositoryImpl) SetResetToken(userID uint, token string, expiry time.Time) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reset_password_token": token,
		"reset_token_expiry":   expiry,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ConsumeResetToken(token string) (*models.User, error) {
	now := time.Now()

	var user models.User
	err := r.db.Where("reset_password_token = ? AND reset_token_expiry > ?", token, now).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	result := r.db.Model(&models.User{}).
		Where("id = ? AND reset_password_token = ? AND reset_token_expiry > ?", user.ID, token, now).
		Updates(map[string]interface{}{
			"reset_password_token": nil,
			"reset_token_expiry":   nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTokenNotFound
	}

	user.ResetPasswordToken = nil
	user.ResetTokenExpiry = nil
	return &user, nil
}

func (r *UserRepositoryImpl) UpdatePasswordHash(userID uint, hash string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("last_login", time.Now()).Error
}
