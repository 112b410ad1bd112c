package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hamroaawaz/complaint-server/internal/auth"
	"github.com/hamroaawaz/complaint-server/internal/middleware"
	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/services"
)

// AuthHandler handles registration, login, and account endpoints.
type AuthHandler struct {
	users  *services.UserService
	tokens *auth.TokenService
	logger *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService, tokens *auth.TokenService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Phone == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: name, phone, password")
		return
	}

	user, err := h.users.Register(req)
	if err != nil {
		h.logger.Warnw("Registration rejected", "phone", req.Phone, "error", err)
		respondServiceError(w, err)
		return
	}

	h.logger.Infow("User registered", "id", user.ID, "municipality", user.Municipality)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user.Redacted(),
	})
}

// Login handles POST /auth/login — verifies credentials and returns a
// signed bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(req.Phone, req.Password)
	if err != nil {
		// Unknown phone and wrong password are both 401 at the boundary.
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := h.tokens.Issue(auth.Claims{Phone: user.Phone, Role: user.Role, UserID: user.ID})
	if err != nil {
		h.logger.Errorw("Failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me handles GET /auth/me — echoes the verified claims.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"current_user": claims})
}

// Users handles GET /auth/users (admin only).
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	redacted := make([]models.User, 0, len(users))
	for _, u := range users {
		redacted = append(redacted, u.Redacted())
	}
	respondJSON(w, http.StatusOK, redacted)
}
