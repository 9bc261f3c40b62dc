package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/middleware"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{userService: users}
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserView(user, user))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserView(user, caller))
}

type userListResponse struct {
	Items []userView      `json:"items"`
	Meta  domain.PageMeta `json:"meta"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var filter domain.UserFilter
	query := r.URL.Query()
	filter.Role = domain.Role(query.Get("role"))
	filter.Search = query.Get("search")
	if raw := query.Get("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	page, err := pageQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	filter.PageQuery = page

	users, meta, err := h.userService.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{Items: UserViews(users, caller), Meta: meta})
}

type userUpdatePayload struct {
	Email     *string `json:"email"`
	LastName  *string `json:"last_name"`
	FirstName *string `json:"first_name"`
	Phone     *string `json:"phone"`
	Position  *string `json:"position"`
	LevelID   *int64  `json:"level_id"`
	Active    *bool   `json:"active"`
}

// Update covers profile edits and account activation. Activation is the
// admin approval step completing a registration.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload userUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Update(r.Context(), r.PathValue("id"), ports.UserPatch{
		Email:     payload.Email,
		LastName:  payload.LastName,
		FirstName: payload.FirstName,
		Phone:     payload.Phone,
		Position:  payload.Position,
		LevelID:   payload.LevelID,
		Active:    payload.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserView(user, caller))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
