package memory

import (
	"context"
	"sort"

	"overtime-approval/models"
	"overtime-approval/repository"

	"github.com/google/uuid"
)

type SubmissionRepository struct {
	store *Store
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *models.OvertimeSubmission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if _, exists := r.store.submissions[submission.ID]; exists {
		return repository.ErrDuplicate
	}
	if submission.Status == "" {
		submission.Status = models.StatusPending
	}
	now := r.store.now()
	submission.CreatedAt = now
	submission.UpdatedAt = now

	stored := *submission
	stored.Employee = nil
	stored.Category = nil
	r.store.submissions[submission.ID] = stored
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.OvertimeSubmission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s = r.withAssociations(s)
	return &s, nil
}

func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.OvertimeSubmission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	from, to, hasRange := filter.DateRange()

	submissions := make([]models.OvertimeSubmission, 0)
	for _, s := range r.store.submissions {
		if filter.EmployeeNIK != "" && s.EmployeeNIK != filter.EmployeeNIK {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.LineArea != "" {
			employee, ok := r.store.profileByNIK(s.EmployeeNIK)
			if !ok || employee.LineArea != filter.LineArea {
				continue
			}
		}
		if filter.ActionableBy != "" {
			approver := s.StageApprover()
			if approver == nil || *approver != filter.ActionableBy {
				continue
			}
		}
		if filter.Actionable && s.Status.IsTerminal() {
			continue
		}
		if hasRange {
			if s.SubmissionDate.Before(from) || !s.SubmissionDate.Before(to) {
				continue
			}
		} else if filter.Month > 0 && int(s.SubmissionDate.Month()) != filter.Month {
			continue
		}
		submissions = append(submissions, r.withAssociations(s))
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		a, b := submissions[i], submissions[j]
		if !a.SubmissionDate.Equal(b.SubmissionDate) {
			return a.SubmissionDate.After(b.SubmissionDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return submissions, nil
}

func (r *SubmissionRepository) CountByEmployee(ctx context.Context, nik string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, s := range r.store.submissions {
		if s.EmployeeNIK == nik {
			count++
		}
	}
	return count, nil
}

func (r *SubmissionRepository) ApplyDecision(ctx context.Context, submission *models.OvertimeSubmission, from models.OvertimeStatus, entry *models.ApprovalHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.submissions[submission.ID]
	if !ok || current.Status != from {
		return repository.ErrStaleStatus
	}

	current.Status = submission.Status
	current.Approver1ApprovedAt = submission.Approver1ApprovedAt
	current.Approver2ApprovedAt = submission.Approver2ApprovedAt
	current.RejectionReason = submission.RejectionReason
	current.UpdatedAt = submission.UpdatedAt
	r.store.submissions[submission.ID] = current

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = r.store.now()
	r.store.history = append(r.store.history, *entry)
	return nil
}

func (r *SubmissionRepository) History(ctx context.Context, submissionID string) ([]models.ApprovalHistory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	history := make([]models.ApprovalHistory, 0)
	for _, h := range r.store.history {
		if h.OvertimeID == submissionID {
			history = append(history, h)
		}
	}
	return history, nil
}

// withAssociations must be called with the store lock held.
func (r *SubmissionRepository) withAssociations(s models.OvertimeSubmission) models.OvertimeSubmission {
	if employee, ok := r.store.profileByNIK(s.EmployeeNIK); ok {
		e := r.store.profileWithRoles(employee)
		s.Employee = &e
	}
	if s.CategoryID != nil {
		if category, ok := r.store.categories[*s.CategoryID]; ok {
			s.Category = &category
		}
	}
	return s
}
