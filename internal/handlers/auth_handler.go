// file: internal/handlers/auth_handler.go
package handlers

import (
	"net/http"

	"personahub/internal/services"
)

// AuthHandler serves registration, login and token refresh
type AuthHandler struct {
	*Base
	auth services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base *Base, auth services.AuthService) *AuthHandler {
	return &AuthHandler{Base: base, auth: auth}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteCreated(w, r, result)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, result)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req services.RefreshTokenRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	tokens, err := h.auth.RefreshTokens(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, tokens)
}
