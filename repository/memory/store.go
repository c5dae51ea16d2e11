// Package memory implements the repositories in process. It backs
// STORAGE=memory runs and the service and handler tests.
package memory

import (
	"sync"
	"time"

	"overtime-approval/models"
	"overtime-approval/repository"
)

var (
	_ repository.ProfileRepository    = (*ProfileRepository)(nil)
	_ repository.CategoryRepository   = (*CategoryRepository)(nil)
	_ repository.SubmissionRepository = (*SubmissionRepository)(nil)
)

type Store struct {
	mu          sync.RWMutex
	profiles    map[string]models.Profile
	roles       map[string][]models.UserRole
	categories  map[string]models.OvertimeCategory
	submissions map[string]models.OvertimeSubmission
	history     []models.ApprovalHistory
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		profiles:    make(map[string]models.Profile),
		roles:       make(map[string][]models.UserRole),
		categories:  make(map[string]models.OvertimeCategory),
		submissions: make(map[string]models.OvertimeSubmission),
		now:         time.Now,
	}
}

func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{store: s}
}

func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{store: s}
}

func (s *Store) Submissions() *SubmissionRepository {
	return &SubmissionRepository{store: s}
}

// profileWithRoles must be called with s.mu held.
func (s *Store) profileWithRoles(p models.Profile) models.Profile {
	p.AppRoles = append([]models.UserRole(nil), s.roles[p.ID]...)
	return p
}

func (s *Store) profileByNIK(nik string) (models.Profile, bool) {
	for _, p := range s.profiles {
		if p.NIK == nik {
			return p, true
		}
	}
	return models.Profile{}, false
}
