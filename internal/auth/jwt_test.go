package auth_test

import (
	"testing"
	"time"

	"github.com/geocoder89/libraryhub/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("unit-test-secret", 15*time.Minute)

	token, err := m.GenerateAccessToken(42, "jane@example.com", "student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.JTI)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-one", 15*time.Minute)
	verifier := auth.NewManager("secret-two", 15*time.Minute)

	token, err := issuer.GenerateAccessToken(1, "jane@example.com", "student")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("unit-test-secret", -1*time.Minute)

	token, err := m.GenerateAccessToken(1, "jane@example.com", "student")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := auth.NewManager("unit-test-secret", 15*time.Minute)

	_, err := m.VerifyAccessToken("not.a.jwt")
	assert.Error(t, err)
}
