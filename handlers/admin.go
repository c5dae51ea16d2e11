package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"overtime-approval/handlers/response"
	"overtime-approval/services"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.admin.ListProfiles(r.Context())
	if err != nil {
		slog.Error("ListProfiles service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, profiles)
}

func (h *AdminHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	profile, err := h.admin.CreateProfile(r.Context(), req)
	if err != nil {
		slog.Error("CreateProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Profile created", profile)
}

func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	profile, err := h.admin.UpdateProfile(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("UpdateProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated", profile)
}

func (h *AdminHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("DeleteProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile deleted", nil)
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.admin.ListCategories(r.Context())
	if err != nil {
		slog.Error("ListCategories service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, categories)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateCategory decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	category, err := h.admin.CreateCategory(r.Context(), req)
	if err != nil {
		slog.Error("CreateCategory service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Overtime category created", category)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateCategory decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	category, err := h.admin.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("UpdateCategory service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime category updated", category)
}
