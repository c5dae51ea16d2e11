package memory

import (
	"context"
	"sort"

	"overtime-approval/models"
	"overtime-approval/repository"

	"github.com/google/uuid"
)

type ProfileRepository struct {
	store *Store
}

func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profiles := make([]models.Profile, 0, len(r.store.profiles))
	for _, p := range r.store.profiles {
		profiles = append(profiles, r.store.profileWithRoles(p))
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = r.store.profileWithRoles(p)
	return &p, nil
}

func (r *ProfileRepository) GetByNIK(ctx context.Context, nik string) (*models.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.profileByNIK(nik)
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = r.store.profileWithRoles(p)
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.profileByNIK(profile.NIK); exists {
		return repository.ErrDuplicate
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.Role == "" {
		profile.Role = models.RoleOperator
	}
	now := r.store.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	stored := *profile
	stored.AppRoles = nil
	r.store.profiles[profile.ID] = stored
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.profiles[profile.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if other, exists := r.store.profileByNIK(profile.NIK); exists && other.ID != profile.ID {
		return repository.ErrDuplicate
	}

	current.NIK = profile.NIK
	current.FullName = profile.FullName
	current.LineArea = profile.LineArea
	current.Role = profile.Role
	current.Approver1NIK = profile.Approver1NIK
	current.Approver2NIK = profile.Approver2NIK
	current.Email = profile.Email
	current.UpdatedAt = r.store.now()
	r.store.profiles[profile.ID] = current
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.profiles, id)
	delete(r.store.roles, id)
	return nil
}

func (r *ProfileRepository) ReplaceRoles(ctx context.Context, userID string, roles []models.AppRole) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.profiles[userID]; !ok {
		return repository.ErrNotFound
	}

	rows := make([]models.UserRole, 0, len(roles))
	for _, role := range roles {
		rows = append(rows, models.UserRole{ID: uuid.NewString(), UserID: userID, Role: role})
	}
	if len(rows) == 0 {
		delete(r.store.roles, userID)
		return nil
	}
	r.store.roles[userID] = rows
	return nil
}
