package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouwaficbdr/my-facebook/internal/services/dto"
)

func validSignup() *dto.SignupRequest {
	return &dto.SignupRequest{
		Nom:           "Dupont",
		Prenom:        "Jean",
		Email:         "jean@ex.com",
		Password:      "Abcdef12",
		Genre:         "Homme",
		DateNaissance: "1990-01-01",
	}
}

func TestValidate_SignupRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(*dto.SignupRequest)
		wantField string
	}{
		{"valid", func(r *dto.SignupRequest) {}, ""},
		{"accented name", func(r *dto.SignupRequest) { r.Prenom = "Aimée-Lô" }, ""},
		{"missing nom", func(r *dto.SignupRequest) { r.Nom = "" }, "nom"},
		{"nom too short", func(r *dto.SignupRequest) { r.Nom = "D" }, "nom"},
		{"nom with digits", func(r *dto.SignupRequest) { r.Nom = "Dup0nt" }, "nom"},
		{"bad email", func(r *dto.SignupRequest) { r.Email = "not-an-email" }, "email"},
		{"weak password", func(r *dto.SignupRequest) { r.Password = "abcdef12" }, "password"},
		{"short password", func(r *dto.SignupRequest) { r.Password = "Ab1" }, "password"},
		// Over bcrypt's 72-byte input limit: rejected as a field error, not
		// left to fail at hashing time.
		{"overlong password", func(r *dto.SignupRequest) {
			r.Password = "Abcdef12" + strings.Repeat("x", 70)
		}, "password"},
		{"bad genre", func(r *dto.SignupRequest) { r.Genre = "homme" }, "genre"},
		{"bad date format", func(r *dto.SignupRequest) { r.DateNaissance = "01/01/1990" }, "date_naissance"},
		{"future birth date", func(r *dto.SignupRequest) {
			r.DateNaissance = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
		}, "date_naissance"},
		{"under 13", func(r *dto.SignupRequest) {
			r.DateNaissance = time.Now().AddDate(-12, 0, 0).Format("2006-01-02")
		}, "date_naissance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(req)

			err := v.Validate(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Errors, tt.wantField)
		})
	}
}

func TestValidate_BirthDateBoundary(t *testing.T) {
	v := New()

	// Exactly 13 years old today is accepted.
	req := validSignup()
	req.DateNaissance = time.Now().AddDate(-13, 0, 0).Format("2006-01-02")
	assert.NoError(t, v.Validate(req))
}

func TestValidate_ResetPasswordRequest(t *testing.T) {
	v := New()

	req := &dto.ResetPasswordRequest{
		Token:           "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Password:        "Abcdef12",
		PasswordConfirm: "Abcdef12",
	}
	assert.NoError(t, v.Validate(req))

	req.PasswordConfirm = "Different12"
	err := v.Validate(req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "password_confirm")

	long := "Abcdef12" + strings.Repeat("x", 70)
	req.Password = long
	req.PasswordConfirm = long
	err = v.Validate(req)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "password")
}

func TestValidate_FieldNamesUseJSONTags(t *testing.T) {
	v := New()

	err := v.Validate(&dto.SignupRequest{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	for _, field := range []string{"nom", "prenom", "email", "password", "genre", "date_naissance"} {
		assert.Contains(t, vErr.Errors, field)
	}
}
