package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bezrodnovart03/BnovAuto/internal/access"
	"github.com/bezrodnovart03/BnovAuto/internal/auth"
	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// UserHandler serves the user registry. Reads and updates of a single user
// are self-scoped for DRIVER callers.
type UserHandler struct {
	users       db.UserCollection
	authService *auth.Service
	metrics     *metrics.Metrics
}

// NewUserHandler creates a user handler.
func NewUserHandler(users db.UserCollection, authService *auth.Service, m *metrics.Metrics) *UserHandler {
	return &UserHandler{users: users, authService: authService, metrics: m}
}

// Handle routes /api/users requests.
func (h *UserHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "":
		h.list(w, r)
	case len(parts) == 2 && parts[0] == "company":
		h.listByCompany(w, r, parts[1])
	case len(parts) == 2 && parts[0] == "role":
		h.listByRole(w, r, parts[1])
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, parts[0])
		case http.MethodPut:
			h.update(w, r, parts[0])
		case http.MethodDelete:
			h.delete(w, r, parts[0])
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpListUsers, access.Target{}) {
		return
	}
	users, err := h.users.FindUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) listByCompany(w http.ResponseWriter, r *http.Request, companyID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpUsersByCompany, access.Target{}) {
		return
	}
	users, err := h.users.FindUsersByCompanyID(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, roleName string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpUsersByRole, access.Target{}) {
		return
	}

	role := models.Role(roleName)
	if !models.IsValidRole(role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	users, err := h.users.FindUsersByRole(r.Context(), role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpReadUser, access.Target{SubjectUserID: id}) {
		return
	}

	user, err := h.users.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpUpdateUser, access.Target{SubjectUserID: id}) {
		return
	}

	var updateReq struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &updateReq) {
		return
	}

	user, err := h.users.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}

	if updateReq.FullName != "" {
		user.FullName = updateReq.FullName
	}
	if updateReq.Email != "" && updateReq.Email != user.Email {
		// Email must stay unique across users.
		if existing, err := h.users.FindUserByEmail(r.Context(), updateReq.Email); err == nil && existing.ID != user.ID {
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}
		user.Email = updateReq.Email
	}
	if updateReq.Password != "" {
		if err := h.authService.ValidatePassword(updateReq.Password); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hash, err := h.authService.HashPassword(updateReq.Password)
		if err != nil {
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.UpdateUser(r.Context(), id, *user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpDeleteUser, access.Target{}) {
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
