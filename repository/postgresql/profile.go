package postgresql

import (
	"context"

	"overtime-approval/models"
	"overtime-approval/repository"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).Preload("AppRoles").Order("created_at desc").Find(&profiles).Error
	return profiles, translate(err)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	var profile models.Profile
	if err := r.db.WithContext(ctx).Preload("AppRoles").First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByNIK(ctx context.Context, nik string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Preload("AppRoles").Where("nik = ?", nik).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Omit("AppRoles").Create(profile).Error)
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{ID: profile.ID}).
		Select("nik", "full_name", "line_area", "role", "approver1_nik", "approver2_nik", "email").
		Updates(profile)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the profile; its user_roles go with it through the
// ON DELETE CASCADE constraint.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return repository.ErrNotFound
	}
	result := r.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) ReplaceRoles(ctx context.Context, userID string, roles []models.AppRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return translate(err)
		}
		if len(roles) == 0 {
			return nil
		}

		rows := make([]models.UserRole, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, models.UserRole{UserID: userID, Role: role})
		}
		return translate(tx.Create(&rows).Error)
	})
}
