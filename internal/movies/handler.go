package movies

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moviehub-app/backend/internal/common"
)

// Handler serves movie reads.
type Handler struct {
	lookup *Lookup
}

func NewHandler(lookup *Lookup) *Handler {
	return &Handler{lookup: lookup}
}

// Get returns a movie with its comments.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid movie id"}`, http.StatusBadRequest)
		return
	}

	movie, err := h.lookup.GetMovie(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		http.Error(w, `{"error":"movie not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movie)
}
