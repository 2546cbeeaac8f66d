package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tabscan/tabscan/internal/auth"
	"github.com/tabscan/tabscan/internal/models"
)

// AuthService handles account registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	validate      *validator.Validate
}

// NewAuthService creates the authentication endpoints.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the auth endpoints.
func (s *AuthService) RegisterRoutes(r chi.Router) {
	r.Post("/v1/auth/register", s.Register)
	r.Post("/v1/auth/login", s.Login)
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register creates a new account and returns a session token.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "request body is not valid JSON")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			respondError(w, http.StatusConflict, "email_exists", err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "weak_password", err.Error())
		default:
			slog.Error("Registration failed", "email", req.Email, "error", err)
			respondError(w, http.StatusInternalServerError, "internal", "registration failed")
		}
		return
	}

	s.respondWithToken(w, http.StatusCreated, user)
	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
}

// Login authenticates an account and returns a session token.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "request body is not valid JSON")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		respondError(w, http.StatusUnauthorized, "invalid_credentials", auth.ErrInvalidCredentials.Error())
		return
	}

	s.respondWithToken(w, http.StatusOK, user)
}

func (s *AuthService) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}
	respondJSON(w, status, authResponse{
		Token: token,
		User: userResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			CreatedAt:   user.CreatedAt,
		},
	})
}
