package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/service"
	"github.com/google/uuid"
)

type AuthHandler struct {
	sessions *service.SessionService
}

func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// GoogleLoginRequestDTO is the simulated OAuth flow: the resolved profile
// arrives in the request body instead of an id token exchange.
type GoogleLoginRequestDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "invalid_password", "password must be at least 6 characters")
		return
	}

	name := req.Name
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	h.startSession(w, r, domain.User{Name: name, Email: req.Email, IsGuest: false})
}

func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	name := req.Name
	if name == "" {
		name = "Usuario Cineplanet"
	}

	h.startSession(w, r, domain.User{Name: name, Email: req.Email, IsGuest: false})
}

func (h *AuthHandler) LoginGuest(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, domain.GuestUser())
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user domain.User) {
	// A fresh login replaces whatever session the cookie still points at,
	// cart included, mirroring logout.
	if prev, err := r.Cookie(SessionCookie); err == nil && prev.Value != "" {
		if err := h.sessions.Logout(r.Context(), prev.Value); err != nil {
			respondError(w, http.StatusInternalServerError, "session_store_failed", "could not reset previous session")
			return
		}
	}

	sessionID := uuid.NewString()

	if err := h.sessions.SetUser(r.Context(), sessionID, user); err != nil {
		respondError(w, http.StatusInternalServerError, "session_store_failed", "could not start session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no active session")
		return
	}

	if err := h.sessions.Logout(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "logout_failed", "could not end session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no active session")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
