package postgresql

import (
	"context"

	"overtime-approval/models"
	"overtime-approval/repository"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *models.OvertimeSubmission) error {
	return translate(r.db.WithContext(ctx).Omit("Employee", "Category").Create(submission).Error)
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.OvertimeSubmission, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	var submission models.OvertimeSubmission
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Category").
		First(&submission, "overtime_submissions.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.OvertimeSubmission, error) {
	query := r.db.WithContext(ctx).Preload("Employee").Preload("Category")

	if filter.EmployeeNIK != "" {
		query = query.Where("overtime_submissions.employee_nik = ?", filter.EmployeeNIK)
	}
	if filter.Status != "" {
		query = query.Where("overtime_submissions.status = ?", filter.Status)
	}
	if filter.LineArea != "" {
		query = query.Joins("JOIN profiles ON profiles.nik = overtime_submissions.employee_nik").
			Where("profiles.line_area = ?", filter.LineArea)
	}
	if filter.ActionableBy != "" {
		query = query.Where(
			"(overtime_submissions.approver1_nik = ? AND overtime_submissions.status = ?) OR (overtime_submissions.approver2_nik = ? AND overtime_submissions.status = ?)",
			filter.ActionableBy, models.StatusPending, filter.ActionableBy, models.StatusApprovedLevel1,
		)
	}
	if filter.Actionable {
		query = query.Where("overtime_submissions.status IN ?", []models.OvertimeStatus{models.StatusPending, models.StatusApprovedLevel1})
	}

	if from, to, ok := filter.DateRange(); ok {
		query = query.Where("overtime_submissions.submission_date >= ? AND overtime_submissions.submission_date < ?", from, to)
	} else if filter.Month > 0 {
		query = query.Where("EXTRACT(MONTH FROM overtime_submissions.submission_date) = ?", filter.Month)
	}

	var submissions []models.OvertimeSubmission
	err := query.Order("overtime_submissions.submission_date desc, overtime_submissions.created_at desc").Find(&submissions).Error
	return submissions, translate(err)
}

func (r *SubmissionRepository) CountByEmployee(ctx context.Context, nik string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OvertimeSubmission{}).Where("employee_nik = ?", nik).Count(&count).Error
	return count, translate(err)
}

func (r *SubmissionRepository) ApplyDecision(ctx context.Context, submission *models.OvertimeSubmission, from models.OvertimeStatus, entry *models.ApprovalHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OvertimeSubmission{}).
			Where("id = ? AND status = ?", submission.ID, from).
			Updates(map[string]interface{}{
				"status":                submission.Status,
				"approver1_approved_at": submission.Approver1ApprovedAt,
				"approver2_approved_at": submission.Approver2ApprovedAt,
				"rejection_reason":      submission.RejectionReason,
				"updated_at":            submission.UpdatedAt,
			})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrStaleStatus
		}

		return translate(tx.Create(entry).Error)
	})
}

func (r *SubmissionRepository) History(ctx context.Context, submissionID string) ([]models.ApprovalHistory, error) {
	var history []models.ApprovalHistory
	err := r.db.WithContext(ctx).Where("overtime_id = ?", submissionID).Order("created_at asc").Find(&history).Error
	return history, translate(err)
}
