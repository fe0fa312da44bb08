package comments

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moviehub-app/backend/internal/auth"
	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// Handler serves comment mutations under /api/movies/{id}/comments.
type Handler struct {
	svc   *Service
	users auth.UserStore
}

func NewHandler(svc *Service, users auth.UserStore) *Handler {
	return &Handler{svc: svc, users: users}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// currentUser resolves the authenticated email to the full user record;
// comment documents capture both name and email at creation.
func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	return h.users.FindByEmail(r.Context(), auth.EmailFromContext(r.Context()))
}

func (h *Handler) requestIDs(r *http.Request, withComment bool) (movieID, commentID primitive.ObjectID, err error) {
	movieID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil || !withComment {
		return movieID, commentID, err
	}
	commentID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "cid"))
	return movieID, commentID, err
}

// Create posts a comment and responds with the refreshed movie.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	movieID, _, err := h.requestIDs(r, false)
	if err != nil {
		http.Error(w, `{"error":"invalid movie id"}`, http.StatusBadRequest)
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, `{"error":"comment text is required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.currentUser(r)
	if err != nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
		return
	}

	movie, err := h.svc.Add(r.Context(), user, movieID, req.Text)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

// Update edits a comment owned by the caller.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	movieID, commentID, err := h.requestIDs(r, true)
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, `{"error":"comment text is required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.currentUser(r)
	if err != nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
		return
	}

	movie, err := h.svc.Update(r.Context(), user, movieID, commentID, req.Text)
	if errors.Is(err, common.ErrNoMatch) {
		http.Error(w, `{"error":"comment not found or not yours"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// Delete removes a comment owned by the caller and responds with the
// refreshed movie either way.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	movieID, commentID, err := h.requestIDs(r, true)
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}

	user, err := h.currentUser(r)
	if err != nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
		return
	}

	movie, err := h.svc.Delete(r.Context(), user, movieID, commentID)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrMovieLookup) {
		log.Printf("movie lookup error: %v", err)
		http.Error(w, `{"error":"movie lookup failed"}`, http.StatusBadGateway)
		return
	}
	log.Printf("comment mutation error: %v", err)
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}
