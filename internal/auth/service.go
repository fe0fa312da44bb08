package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// UserStore is the account persistence contract.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	UpdatePreferences(ctx context.Context, email string, prefs map[string]string) error
	Delete(ctx context.Context, email string) error
	PromoteToAdmin(ctx context.Context, email string) (*models.User, error)
	SetAvatarKey(ctx context.Context, email, key string) error
}

// SessionStore is the session persistence contract: at most one session
// per user after any Upsert.
type SessionStore interface {
	FindByUser(ctx context.Context, email string) (*models.Session, error)
	Upsert(ctx context.Context, email, token string) error
	Delete(ctx context.Context, email string) error
}

// Credential is a sealed two-variant type: either a plaintext Password to
// verify through the hasher, or a PasswordHash to compare against the
// stored hash byte for byte. Login switches over it exhaustively.
type Credential interface {
	credential()
}

// Password is a plaintext password.
type Password string

// PasswordHash is an already-hashed credential.
type PasswordHash string

func (Password) credential()     {}
func (PasswordHash) credential() {}

// Service composes the user store, session store, and hasher into the
// register/login/logout lifecycle.
type Service struct {
	users    UserStore
	sessions SessionStore
	hasher   *Hasher
}

func NewService(users UserStore, sessions SessionStore, hasher *Hasher) *Service {
	return &Service{users: users, sessions: sessions, hasher: hasher}
}

// Register hashes the password and creates the account, then re-fetches it
// so the caller sees exactly what was persisted. A taken email yields
// common.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Name: name, Email: email, Password: hashed}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.users.FindByEmail(ctx, email)
}

// Login verifies the credential and persists the caller-supplied token as
// the user's one session. The returned user carries the token. The service
// distinguishes ErrNotFound from ErrInvalidCredential; the HTTP layer
// collapses both into one generic response.
func (s *Service) Login(ctx context.Context, email string, cred Credential, token string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	switch c := cred.(type) {
	case PasswordHash:
		if subtle.ConstantTimeCompare([]byte(c), []byte(user.Password)) != 1 {
			return nil, common.ErrInvalidCredential
		}
	case Password:
		if !s.hasher.Verify(string(c), user.Password) {
			return nil, common.ErrInvalidCredential
		}
	default:
		return nil, fmt.Errorf("unsupported credential type %T", cred)
	}

	if err := s.sessions.Upsert(ctx, email, token); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	user.Token = token
	return user, nil
}

// Logout removes the user's session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, email string) error {
	return s.sessions.Delete(ctx, email)
}

// CurrentSession returns the user's session or common.ErrNotFound.
func (s *Service) CurrentSession(ctx context.Context, email string) (*models.Session, error) {
	return s.sessions.FindByUser(ctx, email)
}

// DeleteAccount removes the user and their session. Both deletes are
// attempted even if one fails, then both records are re-read; only
// confirmed absence of both counts as success. On ErrDeletionIncomplete
// the caller can simply retry.
func (s *Service) DeleteAccount(ctx context.Context, email string) error {
	// Attempt both deletes regardless of individual failures; the
	// verification reads below decide the outcome.
	_ = s.users.Delete(ctx, email)
	_ = s.sessions.Delete(ctx, email)

	if _, err := s.users.FindByEmail(ctx, email); !errors.Is(err, common.ErrNotFound) {
		return common.ErrDeletionIncomplete
	}
	if _, err := s.sessions.FindByUser(ctx, email); !errors.Is(err, common.ErrNotFound) {
		return common.ErrDeletionIncomplete
	}
	return nil
}
