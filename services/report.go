package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"overtime-approval/models"
	"overtime-approval/repository"
	"overtime-approval/validator"

	"github.com/xuri/excelize/v2"
)

type ReportFilter struct {
	Month    int
	Year     int
	LineArea string
}

func (f ReportFilter) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(f.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year < 2000 || f.Year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	return errs.Err()
}

type StatusSummary struct {
	Status models.OvertimeStatus `json:"status"`
	Count  int                   `json:"count"`
	Hours  float64               `json:"hours"`
}

type MonitoringSummary struct {
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	LineArea         string          `json:"line_area,omitempty"`
	TotalSubmissions int             `json:"total_submissions"`
	TotalHours       float64         `json:"total_hours"`
	ByStatus         []StatusSummary `json:"by_status"`
}

type ReportService struct {
	submissions repository.SubmissionRepository
}

func NewReportService(submissions repository.SubmissionRepository) *ReportService {
	return &ReportService{submissions: submissions}
}

// Summary counts the month's submissions and hours per status. Leaders only
// see their own line/area.
func (s *ReportService) Summary(ctx context.Context, viewer *models.Profile, filter ReportFilter) (*MonitoringSummary, error) {
	if !viewer.CanViewMonitoring() {
		return nil, ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && !viewer.IsManager() {
		filter.LineArea = viewer.LineArea
	}

	rows, err := s.rows(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.OvertimeStatus]*StatusSummary, len(models.Statuses))
	summary := &MonitoringSummary{Month: filter.Month, Year: filter.Year, LineArea: filter.LineArea}
	for _, status := range models.Statuses {
		summary.ByStatus = append(summary.ByStatus, StatusSummary{Status: status})
	}
	for i := range summary.ByStatus {
		byStatus[summary.ByStatus[i].Status] = &summary.ByStatus[i]
	}

	for _, row := range rows {
		entry, ok := byStatus[row.Status]
		if !ok {
			continue
		}
		entry.Count++
		entry.Hours += row.TotalHours
		summary.TotalSubmissions++
		summary.TotalHours += row.TotalHours
	}
	for i := range summary.ByStatus {
		summary.ByStatus[i].Hours = models.RoundHours(summary.ByStatus[i].Hours)
	}
	summary.TotalHours = models.RoundHours(summary.TotalHours)

	return summary, nil
}

// Export returns the month's submissions ordered by date then employee.
func (s *ReportService) Export(ctx context.Context, viewer *models.Profile, filter ReportFilter) ([]models.OvertimeSubmission, error) {
	if !viewer.CanExport() {
		return nil, ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].SubmissionDate.Equal(rows[j].SubmissionDate) {
			return rows[i].SubmissionDate.Before(rows[j].SubmissionDate)
		}
		return rows[i].EmployeeNIK < rows[j].EmployeeNIK
	})
	return rows, nil
}

func (s *ReportService) rows(ctx context.Context, filter ReportFilter) ([]models.OvertimeSubmission, error) {
	rows, err := s.submissions.List(ctx, models.SubmissionFilter{
		Month:    filter.Month,
		Year:     filter.Year,
		LineArea: filter.LineArea,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	return rows, nil
}

var reportHeader = []string{"NIK", "Employee", "Line/Area", "Date", "Category", "Start", "End", "Hours", "Status", "Job Description"}

func reportRecord(row models.OvertimeSubmission) []string {
	employee, lineArea, category := row.EmployeeNIK, "", ""
	if row.Employee != nil {
		employee = row.Employee.DisplayName()
		lineArea = row.Employee.LineArea
	}
	if row.Category != nil {
		category = row.Category.Name
	}
	return []string{
		row.EmployeeNIK,
		employee,
		lineArea,
		row.SubmissionDate.Format("2006-01-02"),
		category,
		row.StartTime.String(),
		row.EndTime.String(),
		fmt.Sprintf("%.2f", row.TotalHours),
		string(row.Status),
		row.JobDescription,
	}
}

func WriteCSV(w io.Writer, rows []models.OvertimeSubmission) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(reportRecord(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

const reportSheet = "Sheet1"

func WriteXLSX(w io.Writer, rows []models.OvertimeSubmission) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, cell, title); err != nil {
			return err
		}
	}

	for i, row := range rows {
		record := reportRecord(row)
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			var v interface{} = value
			if reportHeader[col] == "Hours" {
				v = row.TotalHours
			}
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
