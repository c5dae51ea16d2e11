package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"overtime-approval/models"
	"overtime-approval/repository"

	"gopkg.in/yaml.v3"
)

const DefaultAdminNIK = "admin"

type SeedProfile struct {
	NIK          string           `yaml:"nik"`
	FullName     string           `yaml:"full_name"`
	LineArea     string           `yaml:"line_area"`
	Role         models.Role      `yaml:"role"`
	Approver1NIK string           `yaml:"approver1_nik"`
	Approver2NIK string           `yaml:"approver2_nik"`
	Email        string           `yaml:"email"`
	AppRoles     []models.AppRole `yaml:"app_roles"`
}

type SeedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	StartTime   string `yaml:"start_time"`
	EndTime     string `yaml:"end_time"`
	Active      *bool  `yaml:"is_active"`
}

type SeedData struct {
	Profiles   []SeedProfile  `yaml:"profiles"`
	Categories []SeedCategory `yaml:"categories"`
}

func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// Seed inserts the default admin profile plus everything in data that does not
// exist yet. Profiles are matched by NIK and categories by name, so running it
// twice is harmless.
func Seed(ctx context.Context, profiles repository.ProfileRepository, categories repository.CategoryRepository, data *SeedData) error {
	if data == nil {
		data = &SeedData{}
	}

	seedProfiles := append([]SeedProfile{{
		NIK:      DefaultAdminNIK,
		FullName: "Administrator",
		LineArea: "Office",
		Role:     models.RoleAdmin,
		AppRoles: []models.AppRole{models.AppRoleAdmin},
	}}, data.Profiles...)

	for _, sp := range seedProfiles {
		if err := seedProfile(ctx, profiles, sp); err != nil {
			return err
		}
	}

	if len(data.Categories) == 0 {
		return nil
	}
	existing, err := categories.List(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		names[c.Name] = true
	}

	for _, sc := range data.Categories {
		if names[sc.Name] {
			continue
		}
		category, err := sc.toModel()
		if err != nil {
			return err
		}
		if err := categories.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", sc.Name, err)
		}
		names[sc.Name] = true
		slog.Info("Seeded overtime category", "name", category.Name)
	}
	return nil
}

func seedProfile(ctx context.Context, profiles repository.ProfileRepository, sp SeedProfile) error {
	_, err := profiles.GetByNIK(ctx, sp.NIK)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up profile %q: %w", sp.NIK, err)
	}

	role := sp.Role
	if role == "" {
		role = models.RoleOperator
	}
	if !role.Valid() {
		return fmt.Errorf("seed profile %q: invalid role %q", sp.NIK, role)
	}

	profile := &models.Profile{
		NIK:          sp.NIK,
		FullName:     sp.FullName,
		LineArea:     sp.LineArea,
		Role:         role,
		Approver1NIK: nonEmpty(sp.Approver1NIK),
		Approver2NIK: nonEmpty(sp.Approver2NIK),
		Email:        nonEmpty(sp.Email),
	}
	if err := profiles.Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to seed profile %q: %w", sp.NIK, err)
	}
	if len(sp.AppRoles) > 0 {
		if err := profiles.ReplaceRoles(ctx, profile.ID, sp.AppRoles); err != nil {
			return fmt.Errorf("failed to seed roles for %q: %w", sp.NIK, err)
		}
	}

	slog.Info("Seeded profile", "nik", profile.NIK, "role", profile.Role)
	return nil
}

func (sc SeedCategory) toModel() (*models.OvertimeCategory, error) {
	start, err := models.ParseClock(sc.StartTime)
	if err != nil {
		return nil, fmt.Errorf("seed category %q: %w", sc.Name, err)
	}
	end, err := models.ParseClock(sc.EndTime)
	if err != nil {
		return nil, fmt.Errorf("seed category %q: %w", sc.Name, err)
	}
	active := true
	if sc.Active != nil {
		active = *sc.Active
	}
	return &models.OvertimeCategory{
		Name:        sc.Name,
		Description: nonEmpty(sc.Description),
		StartTime:   start,
		EndTime:     end,
		IsActive:    active,
	}, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
