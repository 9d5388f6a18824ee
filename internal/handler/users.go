package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/box-tea/api/internal/database"
	"github.com/box-tea/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// UserStore defines the database methods needed by user admin handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type UserStore interface {
	ListUsers(ctx context.Context) ([]database.UserProfile, error)
	UpdateUserRole(ctx context.Context, arg database.UpdateUserRoleParams) (database.UserProfile, error)
}

// UserHandler handles the admin-only user management endpoints.
type UserHandler struct {
	store UserStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// RegisterRoutes registers user admin endpoints on the given Chi
// router. Expected to be mounted inside an admin-only group.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.List)
	r.Patch("/users/{email}/role", h.UpdateRole)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("ERROR: list users: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateRole handles PATCH /users/{email}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !isValidRole(req.Role) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
		return
	}

	user, err := h.store.UpdateUserRole(r.Context(), database.UpdateUserRoleParams{
		Email: email,
		Role:  req.Role,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		log.Printf("ERROR: update user role: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func isValidRole(role string) bool {
	switch role {
	case enum.RoleAdmin, enum.RoleWorker, enum.RoleCustomer:
		return true
	}
	return false
}
