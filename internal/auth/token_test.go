package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehub-app/backend/internal/common"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)

	token, err := issuer.Issue("a@example.com")
	require.NoError(t, err)

	email, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), -time.Minute)

	token, err := issuer.Issue("a@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)
	other := NewTokenIssuer([]byte("other"), time.Hour)

	token, err := issuer.Issue("a@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)

	_, err := issuer.Verify("definitely.not.a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
