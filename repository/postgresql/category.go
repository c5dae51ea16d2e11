package postgresql

import (
	"context"

	"overtime-approval/models"
	"overtime-approval/repository"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.OvertimeCategory, error) {
	query := r.db.WithContext(ctx).Order("name asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.OvertimeCategory
	err := query.Find(&categories).Error
	return categories, translate(err)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.OvertimeCategory, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	var category models.OvertimeCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// Create selects every column so an inactive category is not overridden by
// the is_active column default.
func (r *CategoryRepository) Create(ctx context.Context, category *models.OvertimeCategory) error {
	return translate(r.db.WithContext(ctx).Select("*").Create(category).Error)
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.OvertimeCategory) error {
	result := r.db.WithContext(ctx).Model(&models.OvertimeCategory{ID: category.ID}).
		Select("name", "description", "start_time", "end_time", "is_active").
		Updates(category)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
