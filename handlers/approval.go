package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"overtime-approval/handlers/response"
	"overtime-approval/models"
	"overtime-approval/services"

	"github.com/go-chi/chi/v5"
)

type ApprovalHandler struct {
	overtime *services.OvertimeService
}

func NewApprovalHandler(overtime *services.OvertimeService) *ApprovalHandler {
	return &ApprovalHandler{overtime: overtime}
}

func (h *ApprovalHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	submissions, err := h.overtime.Inbox(r.Context(), profile)
	if err != nil {
		slog.Error("Inbox service error", "nik", profile.NIK, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, submissions)
}

func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "Overtime approved", h.overtime.Approve)
}

func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "Overtime rejected", h.overtime.Reject)
}

type decisionFunc func(ctx context.Context, actor *models.Profile, id string, req services.DecisionRequest) (*models.OvertimeSubmission, error)

func (h *ApprovalHandler) decide(w http.ResponseWriter, r *http.Request, message string, decide decisionFunc) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	// an empty body is a decision without comments
	var req services.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Decision decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	submission, err := decide(r.Context(), profile, chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Warn("Decision rejected", "nik", profile.NIK, "submission_id", chi.URLParam(r, "id"), "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, submission)
}
