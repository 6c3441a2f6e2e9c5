package handler

import (
	"net/http"

	"github.com/Meet3141/CampusConnect/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister creates an account.
// POST /api/auth/register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: 201 {"success":true,"token":"...","user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "register user", err)
		return
	}

	writeOK(w, http.StatusCreated, map[string]any{
		"token": sess.Token,
		"user":  toUserDTO(sess.User),
	})
}

// HandleLogin exchanges credentials for a token.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"success":true,"token":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login user", err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{
		"token": sess.Token,
		"user":  toUserDTO(sess.User),
	})
}

// HandleVerify returns the canonical record of the authenticated user.
// GET /api/auth/verify
// Response: {"success":true,"user":{...}}
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Verify(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "verify user", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleRefresh re-issues a token from one passed in the body, which may be expired.
// POST /api/auth/refresh-token
// Request:  {"token":"..."}
// Response: {"success":true,"token":"..."}
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Refresh(req.Token)
	if err != nil {
		writeServiceError(w, r, "refresh token", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"token": token})
}
