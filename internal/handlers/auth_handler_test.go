package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/config"
	"github.com/mouwaficbdr/my-facebook/internal/middleware"
	"github.com/mouwaficbdr/my-facebook/internal/models"
	"github.com/mouwaficbdr/my-facebook/internal/ratelimit"
	"github.com/mouwaficbdr/my-facebook/internal/services/dto"
	"github.com/mouwaficbdr/my-facebook/internal/validator"
	"github.com/mouwaficbdr/my-facebook/pkg/apperrors"
)

// stubAuthService lets each test script the service outcome per method.
type stubAuthService struct {
	signupErr      error
	confirmErr     error
	loginToken     string
	loginUser      *dto.UserResponse
	loginErr       error
	forgotErr      error
	resetErr       error
	currentUser    *dto.UserResponse
	currentUserErr error
}

func (s *stubAuthService) Signup(ctx context.Context, req *dto.SignupRequest) error {
	return s.signupErr
}

func (s *stubAuthService) ConfirmEmail(ctx context.Context, token string) error {
	return s.confirmErr
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubAuthService) AdminLogin(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotErr
}

func (s *stubAuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return s.resetErr
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	return s.currentUser, s.currentUserErr
}

var testIssuer = auth.NewTokenIssuer("test-secret", time.Hour, 8*time.Hour)

func newTestRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	base := NewBaseHandler(validator.New(), config.EnvDevelopment)
	h := NewAuthHandler(base, svc, testIssuer, config.EnvDevelopment)

	r.POST("/signup", h.Signup)
	r.GET("/confirm-email", h.ConfirmEmail)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password", h.ResetPassword)
	r.POST("/admin/login", h.AdminLogin)
	r.GET("/me", middleware.AuthMiddleware(testIssuer), h.Me)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

const validSignupBody = `{
	"nom": "Dupont",
	"prenom": "Jean",
	"email": "jean@ex.com",
	"password": "Abcdef12",
	"genre": "Homme",
	"date_naissance": "1990-01-01"
}`

func TestSignup_Created(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(t, r, http.MethodPost, "/signup", validSignupBody)
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestSignup_ValidationErrors(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(t, r, http.MethodPost, "/signup", `{"email":"broken","password":"weak"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "field errors map present")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "nom")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	r := newTestRouter(&stubAuthService{signupErr: apperrors.ErrEmailAlreadyExists})

	w := doJSON(t, r, http.MethodPost, "/signup", validSignupBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestConfirmEmail(t *testing.T) {
	r := newTestRouter(&stubAuthService{})
	w := doJSON(t, r, http.MethodGet, "/confirm-email?token=abc", "")
	assert.Equal(t, http.StatusOK, w.Code)

	r = newTestRouter(&stubAuthService{confirmErr: apperrors.ErrInvalidToken})
	w = doJSON(t, r, http.MethodGet, "/confirm-email?token=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, w)["message"])
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	svc := &stubAuthService{
		loginToken: "signed.jwt.token",
		loginUser:  &dto.UserResponse{ID: 1, Email: "jean@ex.com", Role: models.UserRoleUser},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/login", `{"email":"jean@ex.com","password":"Abcdef12"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := findCookie(w.Result().Cookies(), middleware.SessionCookieName)
	require.NotNil(t, cookie, "session cookie set")
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure, "no Secure flag outside production")

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "jean@ex.com", user["email"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := newTestRouter(&stubAuthService{loginErr: apperrors.ErrInvalidCredentials})

	w := doJSON(t, r, http.MethodPost, "/login", `{"email":"jean@ex.com","password":"Wrong1234"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["message"])
	assert.Nil(t, findCookie(w.Result().Cookies(), middleware.SessionCookieName))
}

func TestLogout_ClearsCookie(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(t, r, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := findCookie(w.Result().Cookies(), middleware.SessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAdminLogin_SetsAdminCookie(t *testing.T) {
	svc := &stubAuthService{
		loginToken: "admin.jwt.token",
		loginUser:  &dto.UserResponse{ID: 1, Email: "root@ex.com", Role: models.UserRoleAdmin},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/admin/login", `{"email":"root@ex.com","password":"Abcdef12"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := findCookie(w.Result().Cookies(), middleware.AdminCookieName)
	require.NotNil(t, cookie, "admin cookie set")
	assert.Equal(t, "admin.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int((8 * time.Hour).Seconds()), cookie.MaxAge)

	// The ordinary session cookie is untouched.
	assert.Nil(t, findCookie(w.Result().Cookies(), middleware.SessionCookieName))
}

func TestForgotPassword_GenericSuccess(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(t, r, http.MethodPost, "/forgot-password", `{"email":"nobody@ex.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "If this email is registered, a reset link has been sent.", body["message"])
}

func TestResetPassword(t *testing.T) {
	r := newTestRouter(&stubAuthService{})
	token := strings.Repeat("ab", 32)

	w := doJSON(t, r, http.MethodPost, "/reset-password",
		`{"token":"`+token+`","password":"Newpass12","password_confirm":"Newpass12"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// Confirmation mismatch is a field-level validation error.
	w = doJSON(t, r, http.MethodPost, "/reset-password",
		`{"token":"`+token+`","password":"Newpass12","password_confirm":"Other1234"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := decodeBody(t, w)["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "password_confirm")
}

func TestMe(t *testing.T) {
	svc := &stubAuthService{
		currentUser: &dto.UserResponse{ID: 7, Email: "jean@ex.com"},
	}
	r := newTestRouter(svc)

	// No session.
	w := doJSON(t, r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid session cookie.
	token, err := testIssuer.Issue(&models.User{
		BaseModel: models.BaseModel{ID: 7},
		Email:     "jean@ex.com",
		Role:      models.UserRoleUser,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), user["id"])
}

func TestMe_ExpiredSession(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	expiredIssuer := auth.NewTokenIssuer("test-secret", -time.Minute, -time.Minute)
	token, err := expiredIssuer.Issue(&models.User{BaseModel: models.BaseModel{ID: 7}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitedEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	base := NewBaseHandler(validator.New(), config.EnvDevelopment)
	h := NewAuthHandler(base, &stubAuthService{loginErr: apperrors.ErrInvalidCredentials}, testIssuer, config.EnvDevelopment)

	limiter := ratelimit.New(ratelimit.NewMemoryStore())
	r.POST("/login",
		middleware.RateLimit(limiter, "login", ratelimit.Policy{MaxAttempts: 2, Window: time.Minute}),
		h.Login,
	)

	body := `{"email":"jean@ex.com","password":"Wrong1234"}`
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/login", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}
