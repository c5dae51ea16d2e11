package services

import "errors"

var (
	ErrProfileNotFound            = errors.New("profile not found")
	ErrNIKNotFound                = errors.New("NIK not found")
	ErrCategoryNotFound           = errors.New("overtime category not found")
	ErrCategoryInactive           = errors.New("overtime category is inactive")
	ErrSubmissionNotFound         = errors.New("overtime submission not found")
	ErrSubmissionAlreadyProcessed = errors.New("overtime submission already processed")
	ErrNotApprover                = errors.New("not the approver for this stage")
	ErrNIKExists                  = errors.New("NIK already registered")
	ErrProfileHasSubmissions      = errors.New("profile has overtime submissions")
	ErrForbidden                  = errors.New("forbidden")
)
