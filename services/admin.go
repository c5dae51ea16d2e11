package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"overtime-approval/cache"
	"overtime-approval/models"
	"overtime-approval/repository"
	"overtime-approval/validator"
)

type ProfileRequest struct {
	NIK          string      `json:"nik"`
	FullName     string      `json:"full_name"`
	LineArea     string      `json:"line_area"`
	Role         models.Role `json:"role"`
	Approver1NIK *string     `json:"approver1_nik"`
	Approver2NIK *string     `json:"approver2_nik"`
	Email        *string     `json:"email"`
	IsAdmin      bool        `json:"is_admin"`
	IsManager    bool        `json:"is_manager"`
}

func (r *ProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	r.NIK = strings.TrimSpace(r.NIK)
	r.FullName = strings.TrimSpace(r.FullName)
	r.LineArea = strings.TrimSpace(r.LineArea)
	if r.Role == "" {
		r.Role = models.RoleOperator
	}

	if validator.IsEmpty(r.NIK) {
		errs.Add("nik", "nik is required")
	}
	if len(r.NIK) > 50 {
		errs.Add("nik", "nik must not exceed 50 characters")
	}
	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	}
	if validator.IsEmpty(r.LineArea) {
		errs.Add("line_area", "line_area is required")
	}
	if !r.Role.Valid() {
		errs.Add("role", "role must be one of admin, operator, leader, manager")
	}
	if r.Email != nil && !validator.IsEmpty(*r.Email) && !validator.IsValidEmail(strings.TrimSpace(*r.Email)) {
		errs.Add("email", "email is invalid")
	}
	for field, nik := range map[string]*string{"approver1_nik": r.Approver1NIK, "approver2_nik": r.Approver2NIK} {
		if nik != nil && strings.TrimSpace(*nik) == r.NIK && r.NIK != "" {
			errs.Add(field, field+" must differ from nik")
		}
	}

	return errs.Err()
}

func (r *ProfileRequest) appRoles() []models.AppRole {
	var roles []models.AppRole
	if r.IsAdmin {
		roles = append(roles, models.AppRoleAdmin)
	}
	if r.IsManager {
		roles = append(roles, models.AppRoleManager)
	}
	return roles
}

func (r *ProfileRequest) apply(p *models.Profile) {
	p.NIK = r.NIK
	p.FullName = r.FullName
	p.LineArea = r.LineArea
	p.Role = r.Role
	p.Approver1NIK = snapshotNIK(r.Approver1NIK)
	p.Approver2NIK = snapshotNIK(r.Approver2NIK)
	p.Email = nil
	if r.Email != nil {
		p.Email = optional(*r.Email)
	}
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	IsActive    *bool   `json:"is_active"`
}

func (r *CategoryRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if _, err := models.ParseClock(r.StartTime); err != nil {
		errs.Add("start_time", "start_time must be HH:MM")
	}
	if _, err := models.ParseClock(r.EndTime); err != nil {
		errs.Add("end_time", "end_time must be HH:MM")
	}

	return errs.Err()
}

func (r *CategoryRequest) apply(c *models.OvertimeCategory) {
	c.Name = r.Name
	c.Description = nil
	if r.Description != nil {
		c.Description = optional(*r.Description)
	}
	c.StartTime = models.MustParseClock(r.StartTime)
	c.EndTime = models.MustParseClock(r.EndTime)
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}

// AdminService manages profiles and overtime categories. Every write drops the
// cached lists it affects.
type AdminService struct {
	profiles    repository.ProfileRepository
	categories  repository.CategoryRepository
	submissions repository.SubmissionRepository
	cache       *cache.Cache
}

func NewAdminService(repos Repositories, c *cache.Cache) *AdminService {
	return &AdminService{
		profiles:    repos.Profiles,
		categories:  repos.Categories,
		submissions: repos.Submissions,
		cache:       c,
	}
}

func (s *AdminService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return cache.Load(s.cache, cache.KeyProfiles, func() ([]models.Profile, error) {
		return s.profiles.List(ctx)
	})
}

func (s *AdminService) CreateProfile(ctx context.Context, req ProfileRequest) (*models.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile := &models.Profile{}
	req.apply(profile)
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNIKExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	defer s.cache.Invalidate(cache.KeyProfiles)

	if err := s.profiles.ReplaceRoles(ctx, profile.ID, req.appRoles()); err != nil {
		return nil, fmt.Errorf("failed to assign roles: %w", err)
	}

	slog.Info("Profile created", "profile_id", profile.ID, "nik", profile.NIK)
	return s.getProfile(ctx, profile.ID)
}

func (s *AdminService) UpdateProfile(ctx context.Context, id string, req ProfileRequest) (*models.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.NIK != req.NIK {
		if err := s.ensureNoSubmissions(ctx, profile.NIK); err != nil {
			return nil, err
		}
	}

	req.apply(profile)
	if err := s.profiles.Update(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrNIKExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	defer s.cache.Invalidate(cache.KeyProfiles)

	if err := s.profiles.ReplaceRoles(ctx, profile.ID, req.appRoles()); err != nil {
		return nil, fmt.Errorf("failed to replace roles: %w", err)
	}

	slog.Info("Profile updated", "profile_id", profile.ID, "nik", profile.NIK)
	return s.getProfile(ctx, profile.ID)
}

// DeleteProfile removes the profile and its app roles. Categories and other
// profiles are untouched.
func (s *AdminService) DeleteProfile(ctx context.Context, id string) error {
	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureNoSubmissions(ctx, profile.NIK); err != nil {
		return err
	}

	if err := s.profiles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	s.cache.Invalidate(cache.KeyProfiles)

	slog.Info("Profile deleted", "profile_id", id, "nik", profile.NIK)
	return nil
}

func (s *AdminService) ListCategories(ctx context.Context) ([]models.OvertimeCategory, error) {
	return cache.Load(s.cache, cache.KeyCategories, func() ([]models.OvertimeCategory, error) {
		return s.categories.List(ctx, false)
	})
}

func (s *AdminService) CreateCategory(ctx context.Context, req CategoryRequest) (*models.OvertimeCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := &models.OvertimeCategory{IsActive: true}
	req.apply(category)
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.cache.Invalidate(cache.KeyCategories, cache.KeyActiveCategories)

	slog.Info("Overtime category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*models.OvertimeCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	req.apply(category)
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	s.cache.Invalidate(cache.KeyCategories, cache.KeyActiveCategories)

	slog.Info("Overtime category updated", "category_id", category.ID, "is_active", category.IsActive)
	return category, nil
}

func (s *AdminService) getProfile(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *AdminService) ensureNoSubmissions(ctx context.Context, nik string) error {
	count, err := s.submissions.CountByEmployee(ctx, nik)
	if err != nil {
		return fmt.Errorf("failed to count submissions: %w", err)
	}
	if count > 0 {
		return ErrProfileHasSubmissions
	}
	return nil
}
