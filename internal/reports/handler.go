package reports

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/moviehub-app/backend/internal/models"
)

// Handler serves the reporting endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// TopCommenters returns the most active commenters, optionally truncated
// by a ?limit= query parameter.
func (h *Handler) TopCommenters(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, `{"error":"limit must be a positive integer"}`, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	stats, err := h.svc.TopCommenters(r.Context(), limit)
	if err != nil {
		log.Printf("top commenters error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = []models.CommenterStat{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
