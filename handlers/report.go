package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"overtime-approval/handlers/response"
	"overtime-approval/models"
	"overtime-approval/services"
	"overtime-approval/validator"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.reports.Summary(r.Context(), profile, filter)
	if err != nil {
		slog.Error("Summary service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv", services.WriteCSV)
}

func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", services.WriteXLSX)
}

type reportWriter func(w io.Writer, rows []models.OvertimeSubmission) error

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write reportWriter) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := h.reports.Export(r.Context(), profile, filter)
	if err != nil {
		slog.Error("Export service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// render fully before sending headers so a failure can still become JSON
	var buf bytes.Buffer
	if err := write(&buf, rows); err != nil {
		slog.Error("Export render error", "format", ext, "error", err)
		response.InternalServerError(w, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("overtime_%d_%02d.%s", filter.Year, filter.Month, ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Export write error", "error", err)
	}
}

func parseReportFilter(r *http.Request) (services.ReportFilter, error) {
	q := r.URL.Query()
	filter := services.ReportFilter{LineArea: q.Get("line_area")}

	var errs validator.ValidationErrors
	filter.Month = queryInt(q.Get("month"), "month", &errs)
	filter.Year = queryInt(q.Get("year"), "year", &errs)
	return filter, errs.Err()
}
