package memory

import (
	"context"
	"sort"

	"overtime-approval/models"
	"overtime-approval/repository"

	"github.com/google/uuid"
)

type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.OvertimeCategory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]models.OvertimeCategory, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.OvertimeCategory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.OvertimeCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if _, exists := r.store.categories[category.ID]; exists {
		return repository.ErrDuplicate
	}
	category.CreatedAt = r.store.now()
	r.store.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.OvertimeCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.categories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Name = category.Name
	current.Description = category.Description
	current.StartTime = category.StartTime
	current.EndTime = category.EndTime
	current.IsActive = category.IsActive
	r.store.categories[category.ID] = current
	return nil
}
