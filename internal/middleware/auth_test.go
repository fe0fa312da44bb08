package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehub-app/backend/internal/auth"
	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

type stubSessions struct {
	byUser map[string]string
}

func (s *stubSessions) FindByUser(_ context.Context, email string) (*models.Session, error) {
	token, ok := s.byUser[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.Session{UserID: email, JWT: token}, nil
}

func (s *stubSessions) Upsert(_ context.Context, email, token string) error {
	s.byUser[email] = token
	return nil
}

func (s *stubSessions) Delete(_ context.Context, email string) error {
	delete(s.byUser, email)
	return nil
}

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	sessions := &stubSessions{byUser: map[string]string{}}
	authn := auth.NewAuthenticator(issuer, nil, sessions)

	token, err := issuer.Issue("a@example.com")
	require.NoError(t, err)
	require.NoError(t, sessions.Upsert(context.Background(), "a@example.com", token))

	handler := RequireAuth(authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.EmailFromContext(r.Context())))
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "a@example.com"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not a bearer header", token, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer nonsense", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireAuthRejectsLoggedOutToken(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	sessions := &stubSessions{byUser: map[string]string{}}
	authn := auth.NewAuthenticator(issuer, nil, sessions)

	token, err := issuer.Issue("a@example.com")
	require.NoError(t, err)
	require.NoError(t, sessions.Upsert(context.Background(), "a@example.com", token))
	require.NoError(t, sessions.Delete(context.Background(), "a@example.com"))

	handler := RequireAuth(authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
