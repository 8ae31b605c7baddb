package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), "mindvault", time.Hour)
	userID := uuid.New()

	token, err := m.Generate(userID)
	require.NoError(t, err)

	got, err := m.Validate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateRejectsBadHeader(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), "mindvault", time.Hour)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := m.Validate(header)
		assert.Error(t, err, "header %q", header)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issue := NewTokenManager([]byte("secret-a"), "mindvault", time.Hour)
	verify := NewTokenManager([]byte("secret-b"), "mindvault", time.Hour)

	token, err := issue.Generate(uuid.New())
	require.NoError(t, err)

	_, err = verify.Validate("Bearer " + token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), "mindvault", -time.Minute)

	token, err := m.Generate(uuid.New())
	require.NoError(t, err)

	_, err = m.Validate("Bearer " + token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issue := NewTokenManager([]byte("test-secret"), "other", time.Hour)
	verify := NewTokenManager([]byte("test-secret"), "mindvault", time.Hour)

	token, err := issue.Generate(uuid.New())
	require.NoError(t, err)

	_, err = verify.Validate("Bearer " + token)
	assert.Error(t, err)
}
