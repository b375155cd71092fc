package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mserrato/accounts-be/internal/apperrors"
	"github.com/mserrato/accounts-be/internal/auth"
	"github.com/mserrato/accounts-be/internal/models"
	"github.com/mserrato/accounts-be/internal/services"
	"github.com/mserrato/accounts-be/internal/validation"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	users  services.UserServiceProvider
	events services.EventServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, events services.EventServiceProvider) *UserHandler {
	return &UserHandler{users: users, events: events}
}

// AuthPayload defines the structure for authentication requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create handles new user registration.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := validation.ValidateRegistration(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Register(input.Email, input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recordEvent(models.EventUserRegistered, "info", "User registered", user.ID)

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// Authenticate handles login and bearer token issuance.
func (h *UserHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if appErr := apperrors.Classify(err); appErr.Kind == apperrors.KindBadRequest {
			h.recordEvent(models.EventUserLoginFail, "warn", "Failed login attempt", "")
		}
		writeError(w, r, err)
		return
	}

	h.recordEvent(models.EventUserLogin, "info", "User logged in", user.ID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Me returns the account of the authenticated caller.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("No token provided"))
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// recordEvent writes an audit event; failures are logged, never surfaced.
func (h *UserHandler) recordEvent(eventType, level, message, actorID string) {
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	if err := h.events.CreateEvent(eventType, level, message, actor); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record audit event")
	}
}
