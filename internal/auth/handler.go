package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// AvatarStore is the object-storage contract for user avatars.
type AvatarStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds the auth and profile HTTP handlers.
type Handler struct {
	svc     *Service
	users   UserStore
	tokens  *TokenIssuer
	cache   TokenCache
	avatars AvatarStore
}

func NewHandler(svc *Service, users UserStore, tokens *TokenIssuer, cache TokenCache, avatars AvatarStore) *Handler {
	return &Handler{svc: svc, users: users, tokens: tokens, cache: cache, avatars: avatars}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Register creates a new account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"name, email, and password are required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, common.ErrAlreadyExists) {
		http.Error(w, `{"error":"a user with that email already exists"}`, http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("register error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login authenticates the user, mints a token, and persists it as the
// user's one session. Missing-account and bad-password failures share one
// response body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		log.Printf("token issue error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, Password(req.Password), token)
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidCredential) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("login error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Put(r.Context(), token, user.Email); err != nil {
			log.Printf("session cache prime error (non-fatal): %v", err)
		}
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout removes the session; logging out twice is fine.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	email := EmailFromContext(r.Context())

	h.invalidateCachedSession(r.Context(), email)

	if err := h.svc.Logout(r.Context(), email); err != nil {
		log.Printf("logout error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByEmail(r.Context(), EmailFromContext(r.Context()))
	if errors.Is(err, common.ErrNotFound) {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdatePreferences replaces the user's preference map.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	email := EmailFromContext(r.Context())
	err := h.users.UpdatePreferences(r.Context(), email, req.Preferences)
	if errors.Is(err, common.ErrNotFound) {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("update preferences error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "preferences updated"})
}

// DeleteAccount removes the user, their session, and their avatar. On an
// incomplete deletion the client is told to retry.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	email := EmailFromContext(r.Context())

	// Grab the avatar key before the user document disappears.
	var avatarKey string
	if user, err := h.users.FindByEmail(r.Context(), email); err == nil {
		avatarKey = user.AvatarKey
	}

	h.invalidateCachedSession(r.Context(), email)

	if err := h.svc.DeleteAccount(r.Context(), email); err != nil {
		if errors.Is(err, common.ErrDeletionIncomplete) {
			http.Error(w, `{"error":"account deletion incomplete, please retry"}`, http.StatusInternalServerError)
			return
		}
		log.Printf("delete account error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if avatarKey != "" && h.avatars != nil {
		if err := h.avatars.Remove(r.Context(), avatarKey); err != nil {
			log.Printf("avatar cleanup error (non-fatal): %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// PromoteAdmin sets the admin flag on the target user. Admin only.
func (h *Handler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	caller, err := h.users.FindByEmail(r.Context(), EmailFromContext(r.Context()))
	if err != nil || !caller.IsAdmin {
		http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
		return
	}

	target := chi.URLParam(r, "email")
	user, err := h.users.PromoteToAdmin(r.Context(), target)
	if errors.Is(err, common.ErrNotFound) {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("promote error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar stores a new avatar object and records its key, removing
// the previous object afterwards.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	email := EmailFromContext(r.Context())

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("avatars/%s", uuid.New().String())
	if err := h.avatars.Put(r.Context(), key, r.Body, r.ContentLength, contentType); err != nil {
		log.Printf("avatar upload error: %v", err)
		http.Error(w, `{"error":"upload failed"}`, http.StatusInternalServerError)
		return
	}

	if err := h.users.SetAvatarKey(r.Context(), email, key); err != nil {
		log.Printf("avatar key update error: %v", err)
		http.Error(w, `{"error":"upload failed"}`, http.StatusInternalServerError)
		return
	}

	if user.AvatarKey != "" {
		if err := h.avatars.Remove(r.Context(), user.AvatarKey); err != nil {
			log.Printf("old avatar cleanup error (non-fatal): %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "avatar updated"})
}

// GetAvatar streams the user's avatar.
func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByEmail(r.Context(), EmailFromContext(r.Context()))
	if err != nil || user.AvatarKey == "" {
		http.Error(w, `{"error":"avatar not found"}`, http.StatusNotFound)
		return
	}

	obj, contentType, err := h.avatars.Get(r.Context(), user.AvatarKey)
	if err != nil {
		http.Error(w, `{"error":"download failed"}`, http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, obj)
}

// DeleteAvatar removes the avatar object and clears the key.
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	email := EmailFromContext(r.Context())

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if user.AvatarKey != "" {
		if err := h.avatars.Remove(r.Context(), user.AvatarKey); err != nil {
			log.Printf("avatar remove error (non-fatal): %v", err)
		}
	}

	if err := h.users.SetAvatarKey(r.Context(), email, ""); err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "avatar removed"})
}

// invalidateCachedSession drops the cached token for the user's current
// session, if any. Best effort.
func (h *Handler) invalidateCachedSession(ctx context.Context, email string) {
	if h.cache == nil {
		return
	}
	sess, err := h.svc.CurrentSession(ctx, email)
	if err != nil {
		return
	}
	if err := h.cache.Invalidate(ctx, sess.JWT); err != nil {
		log.Printf("session cache invalidate error (non-fatal): %v", err)
	}
}
