package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"overtime-approval/handlers/response"
	"overtime-approval/middleware"
	"overtime-approval/models"
	"overtime-approval/services"
)

type AuthHandler struct {
	sessions *services.SessionService
	session  *middleware.Session
}

func NewAuthHandler(sessions *services.SessionService, session *middleware.Session) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		session:  session,
	}
}

type LoginResponse struct {
	NIK     string          `json:"nik"`
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	profile, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		slog.Warn("Login failed", "nik", req.NIK, "error", err)
		response.HandleError(w, err)
		return
	}

	token, expiresAt, err := h.session.GenerateToken(profile)
	if err != nil {
		slog.Error("Login token error", "error", err)
		response.InternalServerError(w, "Failed to generate token")
		return
	}
	h.session.SetCookie(w, token, expiresAt)

	slog.Info("User logged in", "nik", profile.NIK)
	response.SuccessWithMessage(w, "Login successful", LoginResponse{
		NIK:     profile.NIK,
		Token:   token,
		Profile: profile,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.ClearCookie(w)
	response.SuccessWithMessage(w, "Logged out", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}
	response.Success(w, profile)
}

func currentProfile(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	profile := middleware.GetProfileFromContext(r.Context())
	if profile == nil {
		response.Unauthorized(w, "Authentication required")
		return nil, false
	}
	return profile, true
}
