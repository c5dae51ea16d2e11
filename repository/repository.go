// Package repository declares the storage contracts used by the services.
// The postgresql sub-package backs them with GORM; memory keeps everything in
// process for local runs and tests.
package repository

import (
	"context"
	"errors"

	"overtime-approval/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleStatus is returned when a conditional status update finds the
	// row no longer in the expected state.
	ErrStaleStatus = errors.New("submission status changed")
	ErrDuplicate   = errors.New("duplicate key")
)

type ProfileRepository interface {
	List(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByNIK(ctx context.Context, nik string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id string) error
	// ReplaceRoles deletes every app role of the user and inserts roles.
	ReplaceRoles(ctx context.Context, userID string, roles []models.AppRole) error
}

type CategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.OvertimeCategory, error)
	GetByID(ctx context.Context, id string) (*models.OvertimeCategory, error)
	Create(ctx context.Context, category *models.OvertimeCategory) error
	Update(ctx context.Context, category *models.OvertimeCategory) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.OvertimeSubmission) error
	GetByID(ctx context.Context, id string) (*models.OvertimeSubmission, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.OvertimeSubmission, error)
	CountByEmployee(ctx context.Context, nik string) (int64, error)
	// ApplyDecision persists the submission's new status fields only if the
	// stored status still equals from, and appends entry in the same unit of work.
	ApplyDecision(ctx context.Context, submission *models.OvertimeSubmission, from models.OvertimeStatus, entry *models.ApprovalHistory) error
	History(ctx context.Context, submissionID string) ([]models.ApprovalHistory, error)
}
