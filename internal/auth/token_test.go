package auth

import (
	"testing"
	"time"

	autherrors "leavedesk/internal/auth/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tokens, err := NewTokenManager("test-secret", time.Hour)
	assert.NoError(t, err)

	userID := uuid.NewString()
	signed, err := tokens.Issue(userID)
	assert.NoError(t, err)

	subject, err := tokens.Verify(signed)
	assert.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	tokens, err := NewTokenManager("test-secret", time.Hour)
	assert.NoError(t, err)
	tokens.ttl = -time.Minute

	signed, err := tokens.Issue(uuid.NewString())
	assert.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	signed, err := issuer.Issue(uuid.NewString())
	assert.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}
