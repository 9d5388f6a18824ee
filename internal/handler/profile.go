package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/box-tea/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	store AuthStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(store AuthStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// RegisterRoutes registers profile endpoints on the given Chi router.
// Expected to be mounted inside the authenticated group.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.Get)
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
			return
		}
		log.Printf("ERROR: get profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
