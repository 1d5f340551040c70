package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig(t *testing.T, secret string) *config.Auth {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Auth{
		JWTSecret:     "test-signing-secret",
		APISecretHash: string(hash),
		TokenTTLHours: 12,
	}
}

func TestLogin_ValidSecretIssuesVerifiableToken(t *testing.T) {
	service := NewService(testAuthConfig(t, "operator-secret"))

	token, err := service.Login("operator-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "operator", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestLogin_RejectsBadSecrets(t *testing.T) {
	service := NewService(testAuthConfig(t, "operator-secret"))

	tests := []struct {
		name   string
		secret string
	}{
		{name: "wrong secret", secret: "not-the-secret"},
		{name: "empty secret", secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.Login(tt.secret)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, token)
		})
	}
}

func TestValidateToken_RejectsTamperedAndForeignTokens(t *testing.T) {
	service := NewService(testAuthConfig(t, "operator-secret"))

	token, err := service.Login("operator-secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "tampered signature", token: token + "x"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_RejectsTokensSignedWithAnotherKey(t *testing.T) {
	issuer := NewService(testAuthConfig(t, "operator-secret"))

	token, err := issuer.Login("operator-secret")
	require.NoError(t, err)

	verifier := NewService(&config.Auth{
		JWTSecret:     "a-different-signing-secret",
		TokenTTLHours: 12,
	})

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
