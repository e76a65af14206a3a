package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mouwaficbdr/my-facebook/internal/models"
)

var (
	// ErrTokenExpired is returned for a structurally valid token whose exp
	// has passed. Every other verification failure maps to ErrTokenInvalid.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the session payload carried in the JWT.
type Claims struct {
	UserID         uint            `json:"user_id"`
	Email          string          `json:"email"`
	Role           models.UserRole `json:"role"`
	IsAdminSession bool            `json:"is_admin_session,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens with a server-held HMAC
// secret. Two token classes exist: ordinary user sessions and shorter-lived
// admin sessions flagged with is_admin_session.
type TokenIssuer struct {
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
}

func NewTokenIssuer(secret string, userTTL, adminTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		userTTL:  userTTL,
		adminTTL: adminTTL,
	}
}

func (i *TokenIssuer) UserTTL() time.Duration  { return i.userTTL }
func (i *TokenIssuer) AdminTTL() time.Duration { return i.adminTTL }

// Issue creates an ordinary session token for u.
func (i *TokenIssuer) Issue(u *models.User) (string, error) {
	return i.sign(u, i.userTTL, false)
}

// IssueAdmin creates an elevated session token for u.
func (i *TokenIssuer) IssueAdmin(u *models.User) (string, error) {
	return i.sign(u, i.adminTTL, true)
}

func (i *TokenIssuer) sign(u *models.User, ttl time.Duration, admin bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           u.Role,
		IsAdminSession: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies the signature and expiry of tokenStr and returns its claims.
func (i *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
