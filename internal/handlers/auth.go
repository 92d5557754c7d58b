package handlers

import (
	"errors"
	"net/http"

	"github.com/motormate/motormate/internal/auth"
	"github.com/motormate/motormate/internal/models"
)

// AuthHandler handles account requests
type AuthHandler struct {
	accounts *auth.Accounts
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(accounts *auth.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles user sign-in
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	resp, err := h.accounts.SignIn(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Register handles account registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Logout clears the local session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	h.accounts.SignOut()
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// PasswordReset issues a reset token for the given email
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	if err := h.accounts.SendPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset token issued"})
}
