package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"overtime-approval/cache"
	"overtime-approval/events"
	"overtime-approval/models"
	"overtime-approval/notify"
	"overtime-approval/repository"
	"overtime-approval/validator"
)

type SubmitOvertimeRequest struct {
	SubmissionDate string `json:"submission_date"`
	CategoryID     string `json:"category_id"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	JobDescription string `json:"job_description"`
}

func (r *SubmitOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CategoryID) {
		errs.Add("category_id", "category_id is required")
	}
	if validator.IsEmpty(r.JobDescription) {
		errs.Add("job_description", "job_description is required")
	}
	if len(r.JobDescription) > 1000 {
		errs.Add("job_description", "job_description must not exceed 1000 characters")
	}
	if r.SubmissionDate != "" {
		if _, ok := validator.IsValidDate(r.SubmissionDate); !ok {
			errs.Add("submission_date", "submission_date must be YYYY-MM-DD")
		}
	}
	if r.StartTime != "" {
		if _, err := models.ParseClock(r.StartTime); err != nil {
			errs.Add("start_time", "start_time must be HH:MM")
		}
	}
	if r.EndTime != "" {
		if _, err := models.ParseClock(r.EndTime); err != nil {
			errs.Add("end_time", "end_time must be HH:MM")
		}
	}

	return errs.Err()
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Comments = strings.TrimSpace(r.Comments)
	if len(r.Comments) > 500 {
		errs.Add("comments", "comments must not exceed 500 characters")
	}
	return errs.Err()
}

type ListFilter struct {
	Status models.OvertimeStatus
	Month  int
	Year   int
}

func (f ListFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != "" && !f.Status.Valid() {
		errs.Add("status", "status must be one of pending, approved_level1, approved_level2, rejected")
	}
	if f.Month != 0 && !validator.IsValidMonth(f.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year < 0 {
		errs.Add("year", "year must be positive")
	}
	return errs.Err()
}

type SubmissionDetail struct {
	Submission *models.OvertimeSubmission `json:"submission"`
	History    []models.ApprovalHistory   `json:"history"`
}

type OvertimeService struct {
	profiles    repository.ProfileRepository
	categories  repository.CategoryRepository
	submissions repository.SubmissionRepository
	cache       *cache.Cache
	publisher   events.Publisher
	notifier    notify.Notifier
	now         func() time.Time
}

func NewOvertimeService(repos Repositories, c *cache.Cache, publisher events.Publisher, notifier notify.Notifier) *OvertimeService {
	return &OvertimeService{
		profiles:    repos.Profiles,
		categories:  repos.Categories,
		submissions: repos.Submissions,
		cache:       c,
		publisher:   publisher,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Duration previews the hours between two HH:MM times.
func (s *OvertimeService) Duration(start, end string) (float64, error) {
	var errs validator.ValidationErrors
	startTime, err := models.ParseClock(start)
	if err != nil {
		errs.Add("start", "start must be HH:MM")
	}
	endTime, err := models.ParseClock(end)
	if err != nil {
		errs.Add("end", "end must be HH:MM")
	}
	if err := errs.Err(); err != nil {
		return 0, err
	}
	return models.CalculateTotalHours(startTime, endTime), nil
}

// ActiveCategories lists the categories offered on the submission form.
func (s *OvertimeService) ActiveCategories(ctx context.Context) ([]models.OvertimeCategory, error) {
	return cache.Load(s.cache, cache.KeyActiveCategories, func() ([]models.OvertimeCategory, error) {
		return s.categories.List(ctx, true)
	})
}

func (s *OvertimeService) Submit(ctx context.Context, employee *models.Profile, req SubmitOvertimeRequest) (*models.OvertimeSubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if !category.IsActive {
		return nil, ErrCategoryInactive
	}

	start, end := category.StartTime, category.EndTime
	if req.StartTime != "" {
		start = models.MustParseClock(req.StartTime)
	}
	if req.EndTime != "" {
		end = models.MustParseClock(req.EndTime)
	}

	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.SubmissionDate != "" {
		date, _ = validator.IsValidDate(req.SubmissionDate)
	}

	submission := &models.OvertimeSubmission{
		EmployeeNIK:    employee.NIK,
		SubmissionDate: date,
		CategoryID:     &category.ID,
		StartTime:      start,
		EndTime:        end,
		TotalHours:     models.CalculateTotalHours(start, end),
		JobDescription: strings.TrimSpace(req.JobDescription),
		Status:         models.StatusPending,
		Approver1NIK:   snapshotNIK(employee.Approver1NIK),
		Approver2NIK:   snapshotNIK(employee.Approver2NIK),
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	submission.Employee = employee
	submission.Category = category

	slog.Info("Overtime submitted", "submission_id", submission.ID, "employee_nik", employee.NIK, "total_hours", submission.TotalHours)

	s.publish(events.SubjectSubmissionCreated, submission, employee.NIK, "")
	s.notifyStageApprover(ctx, submission)

	return submission, nil
}

func (s *OvertimeService) My(ctx context.Context, employee *models.Profile, filter ListFilter) ([]models.OvertimeSubmission, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.submissions.List(ctx, models.SubmissionFilter{
		EmployeeNIK: employee.NIK,
		Status:      filter.Status,
		Month:       filter.Month,
		Year:        filter.Year,
	})
}

func (s *OvertimeService) Get(ctx context.Context, viewer *models.Profile, id string) (*SubmissionDetail, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanView(submission) {
		return nil, ErrForbidden
	}

	history, err := s.submissions.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval history: %w", err)
	}
	return &SubmissionDetail{Submission: submission, History: history}, nil
}

// Inbox lists submissions waiting on the viewer. Admins see every open
// submission.
func (s *OvertimeService) Inbox(ctx context.Context, viewer *models.Profile) ([]models.OvertimeSubmission, error) {
	filter := models.SubmissionFilter{ActionableBy: viewer.NIK}
	if viewer.IsAdmin() {
		filter = models.SubmissionFilter{Actionable: true}
	}
	return s.submissions.List(ctx, filter)
}

func (s *OvertimeService) Approve(ctx context.Context, actor *models.Profile, id string, req DecisionRequest) (*models.OvertimeSubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	submission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := submission.Status.NextApproval()
	if !ok {
		return nil, ErrSubmissionAlreadyProcessed
	}

	updated, err := s.decide(ctx, actor, submission, next, req.Comments)
	if err != nil {
		return nil, err
	}

	s.publish(events.SubjectSubmissionApproved, updated, actor.NIK, req.Comments)
	if updated.Status == models.StatusApprovedLevel1 {
		s.notifyStageApprover(ctx, updated)
	}
	return updated, nil
}

func (s *OvertimeService) Reject(ctx context.Context, actor *models.Profile, id string, req DecisionRequest) (*models.OvertimeSubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	submission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.decide(ctx, actor, submission, models.StatusRejected, req.Comments)
	if err != nil {
		return nil, err
	}

	s.publish(events.SubjectSubmissionRejected, updated, actor.NIK, req.Comments)
	return updated, nil
}

// decide moves submission to next and appends the history entry. The stored
// status must still match the one read, otherwise another decision won.
func (s *OvertimeService) decide(ctx context.Context, actor *models.Profile, submission *models.OvertimeSubmission, next models.OvertimeStatus, comments string) (*models.OvertimeSubmission, error) {
	from := submission.Status
	if !from.CanTransitionTo(next) {
		return nil, ErrSubmissionAlreadyProcessed
	}
	if !actor.IsAdmin() {
		approver := submission.StageApprover()
		if approver == nil || *approver != actor.NIK {
			return nil, ErrNotApprover
		}
	}

	now := s.now()
	switch next {
	case models.StatusApprovedLevel1:
		submission.Approver1ApprovedAt = &now
	case models.StatusApprovedLevel2:
		submission.Approver2ApprovedAt = &now
	case models.StatusRejected:
		submission.RejectionReason = optional(comments)
	}
	submission.Status = next
	submission.UpdatedAt = now

	entry := &models.ApprovalHistory{
		OvertimeID:  submission.ID,
		Action:      next,
		ApproverNIK: actor.NIK,
		Comments:    optional(comments),
	}
	if err := s.submissions.ApplyDecision(ctx, submission, from, entry); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrSubmissionAlreadyProcessed
		}
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}

	slog.Info("Overtime decision recorded",
		"submission_id", submission.ID,
		"from", from,
		"to", next,
		"actor_nik", actor.NIK,
	)
	return submission, nil
}

func (s *OvertimeService) load(ctx context.Context, id string) (*models.OvertimeSubmission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	return submission, nil
}

func (s *OvertimeService) publish(subject string, submission *models.OvertimeSubmission, actorNIK, comments string) {
	event := &events.SubmissionEvent{
		SubmissionID: submission.ID,
		EmployeeNIK:  submission.EmployeeNIK,
		Status:       string(submission.Status),
		ActorNIK:     actorNIK,
		TotalHours:   submission.TotalHours,
		Comments:     comments,
		OccurredAt:   s.now(),
	}
	if approver := submission.StageApprover(); approver != nil {
		event.NextApprover = *approver
	}

	if err := s.publisher.Publish(subject, event); err != nil {
		slog.Warn("Failed to publish submission event", "subject", subject, "submission_id", submission.ID, "error", err)
	}
}

// notifyStageApprover mails the approver of the submission's current stage
// when that profile has an e-mail address.
func (s *OvertimeService) notifyStageApprover(ctx context.Context, submission *models.OvertimeSubmission) {
	approverNIK := submission.StageApprover()
	if approverNIK == nil {
		return
	}
	approver, err := s.profiles.GetByNIK(ctx, *approverNIK)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Failed to load approver for notification", "approver_nik", *approverNIK, "error", err)
		}
		return
	}
	if approver.Email == nil || *approver.Email == "" {
		return
	}

	stage := 1
	if submission.Status == models.StatusApprovedLevel1 {
		stage = 2
	}
	employeeName := submission.EmployeeNIK
	if submission.Employee != nil {
		employeeName = submission.Employee.DisplayName()
	}

	msg, err := notify.ApprovalRequestMessage(*approver.Email, notify.ApprovalRequest{
		ApproverName:   approver.DisplayName(),
		EmployeeName:   employeeName,
		EmployeeNIK:    submission.EmployeeNIK,
		SubmissionDate: submission.SubmissionDate.Format("2006-01-02"),
		StartTime:      submission.StartTime.String(),
		EndTime:        submission.EndTime.String(),
		TotalHours:     submission.TotalHours,
		JobDescription: submission.JobDescription,
		Stage:          stage,
	})
	if err != nil {
		slog.Warn("Failed to render approval mail", "submission_id", submission.ID, "error", err)
		return
	}
	if err := s.notifier.Send(msg); err != nil {
		slog.Warn("Failed to send approval mail", "submission_id", submission.ID, "approver_nik", approver.NIK, "error", err)
	}
}

func snapshotNIK(nik *string) *string {
	if nik == nil || strings.TrimSpace(*nik) == "" {
		return nil
	}
	v := strings.TrimSpace(*nik)
	return &v
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
