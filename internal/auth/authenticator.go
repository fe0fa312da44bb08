package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/moviehub-app/backend/internal/common"
)

// Authenticator resolves a bearer token to an authenticated email. A token
// counts only if it verifies AND equals the user's current persisted
// session token, so a login elsewhere (session upsert) or a logout revokes
// older tokens immediately.
type Authenticator struct {
	tokens   *TokenIssuer
	cache    TokenCache
	sessions SessionStore
}

func NewAuthenticator(tokens *TokenIssuer, cache TokenCache, sessions SessionStore) *Authenticator {
	return &Authenticator{tokens: tokens, cache: cache, sessions: sessions}
}

// Authenticate returns the email bound to the token, or
// common.ErrInvalidToken.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (string, error) {
	email, err := a.tokens.Verify(token)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if a.cache != nil {
		if cached, err := a.cache.Lookup(ctx, token); err == nil && cached == email {
			return email, nil
		}
		// Cache errors fall through to the authoritative store.
	}

	sess, err := a.sessions.FindByUser(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(sess.JWT), []byte(token)) != 1 {
		return "", common.ErrInvalidToken
	}

	if a.cache != nil {
		_ = a.cache.Put(ctx, token, email)
	}
	return email, nil
}
