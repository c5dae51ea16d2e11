package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"overtime-approval/handlers/response"
	"overtime-approval/models"
	"overtime-approval/services"
	"overtime-approval/validator"

	"github.com/go-chi/chi/v5"
)

type OvertimeHandler struct {
	overtime *services.OvertimeService
}

func NewOvertimeHandler(overtime *services.OvertimeService) *OvertimeHandler {
	return &OvertimeHandler{overtime: overtime}
}

func (h *OvertimeHandler) ActiveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.overtime.ActiveCategories(r.Context())
	if err != nil {
		slog.Error("ActiveCategories service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, categories)
}

type DurationResponse struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	TotalHours float64 `json:"total_hours"`
}

func (h *OvertimeHandler) Duration(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	hours, err := h.overtime.Duration(start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, DurationResponse{Start: start, End: end, TotalHours: hours})
}

func (h *OvertimeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	var req services.SubmitOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	submission, err := h.overtime.Submit(r.Context(), profile, req)
	if err != nil {
		slog.Error("Submit service error", "nik", profile.NIK, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Overtime submitted", submission)
}

func (h *OvertimeHandler) My(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	submissions, err := h.overtime.My(r.Context(), profile, filter)
	if err != nil {
		slog.Error("My service error", "nik", profile.NIK, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, submissions)
}

func (h *OvertimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	detail, err := h.overtime.Get(r.Context(), profile, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, detail)
}

func parseListFilter(r *http.Request) (services.ListFilter, error) {
	q := r.URL.Query()
	filter := services.ListFilter{Status: models.OvertimeStatus(q.Get("status"))}

	var errs validator.ValidationErrors
	filter.Month = queryInt(q.Get("month"), "month", &errs)
	filter.Year = queryInt(q.Get("year"), "year", &errs)
	return filter, errs.Err()
}

func queryInt(raw, field string, errs *validator.ValidationErrors) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, field+" must be a number")
		return 0
	}
	return v
}
