package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"overtime-approval/models"
	"overtime-approval/repository"
	"overtime-approval/validator"
)

type LoginRequest struct {
	NIK string `json:"nik"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	r.NIK = strings.TrimSpace(r.NIK)
	if validator.IsEmpty(r.NIK) {
		errs.Add("nik", "nik is required")
	}
	return errs.Err()
}

// SessionService identifies users by NIK. There is no credential check.
type SessionService struct {
	profiles repository.ProfileRepository
}

func NewSessionService(profiles repository.ProfileRepository) *SessionService {
	return &SessionService{profiles: profiles}
}

func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*models.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.Resolve(ctx, req.NIK)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, ErrNIKNotFound
	}
	return profile, err
}

// Resolve loads the current profile for a session NIK.
func (s *SessionService) Resolve(ctx context.Context, nik string) (*models.Profile, error) {
	profile, err := s.profiles.GetByNIK(ctx, strings.TrimSpace(nik))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}
