package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/itlitshop/bookstore-api/internal/middleware"
	"github.com/itlitshop/bookstore-api/internal/repository"
	"github.com/itlitshop/bookstore-api/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			h.respondError(w, http.StatusBadRequest, "Invalid email address")
		case errors.Is(err, repository.ErrEmailTaken):
			h.respondError(w, http.StatusBadRequest, "Email already registered")
		default:
			h.respondInternal(w, "register user error", err)
		}
		return
	}

	h.respond(w, http.StatusCreated, "User registered successfully", user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidPassword):
			h.respondError(w, http.StatusUnauthorized, "Invalid password")
		default:
			h.respondInternal(w, "login user error", err)
		}
		return
	}

	signed, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.respondInternal(w, "issue token error", err, zap.String("userID", user.ID))
		return
	}

	h.respond(w, http.StatusOK, "Login success", map[string]string{"token": signed})
}

// GetMe returns the profile of the authenticated user.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.respondInternal(w, "get profile error", err, zap.String("userID", identity.ID))
		return
	}

	h.respond(w, http.StatusOK, "User profile", user)
}
