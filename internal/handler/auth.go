package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/todo-api/internal/service"
)

// AuthHandler handles user registration and session HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a user and signs them in.
// POST /users
// Request:  {"email":"...","password":"..."}
// Response: {"id":"...","email":"..."} with the token in x-auth
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set(AuthHeader, token)
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleLogin checks credentials and issues a new token.
// POST /users/login
// Request:  {"email":"...","password":"..."}
// Response: {"id":"...","email":"..."} with the token in x-auth
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set(AuthHeader, token)
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleMe returns the currently authenticated user.
// GET /users/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleLogout revokes the token the request was authenticated with.
// DELETE /users/me/token
// Response: 200 with an empty body
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.auth.Logout(r.Context(), id.User.ID, id.Token); err != nil {
		slog.ErrorContext(r.Context(), "logout user", "user_id", id.User.ID, "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
