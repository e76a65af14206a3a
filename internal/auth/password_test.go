package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Abcdef12")
	require.NoError(t, err)
	require.NotEqual(t, "Abcdef12", hash)

	assert.True(t, CheckPasswordHash("Abcdef12", hash))
	assert.False(t, CheckPasswordHash("abcdef12", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Abcdef12", false},
		{"valid long", "SuperSecret99", false},
		{"too short", "Abc12", true},
		{"no upper", "abcdef12", true},
		{"no lower", "ABCDEF12", true},
		{"no digit", "Abcdefgh", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
