package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleLeader   Role = "leader"
	RoleManager  Role = "manager"
)

var Roles = []Role{RoleAdmin, RoleOperator, RoleLeader, RoleManager}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AppRole is an elevated application role granted on top of the profile role.
type AppRole string

const (
	AppRoleAdmin   AppRole = "admin"
	AppRoleManager AppRole = "manager"
)

type Profile struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	NIK          string     `gorm:"uniqueIndex;not null;size:50" json:"nik"`
	FullName     string     `gorm:"not null;size:200" json:"full_name"`
	LineArea     string     `gorm:"not null;size:100" json:"line_area"`
	Role         Role       `gorm:"not null;size:20;default:operator" json:"role"`
	Approver1NIK *string    `gorm:"size:50" json:"approver1_nik"`
	Approver2NIK *string    `gorm:"size:50" json:"approver2_nik"`
	Email        *string    `gorm:"size:200" json:"email,omitempty"`
	AppRoles     []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user_roles"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type UserRole struct {
	ID     string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string  `gorm:"not null;index;type:uuid" json:"user_id"`
	Role   AppRole `gorm:"not null;size:20" json:"role"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.NIK
}

func (p *Profile) HasAppRole(role AppRole) bool {
	for _, r := range p.AppRoles {
		if r.Role == role {
			return true
		}
	}
	return false
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || p.HasAppRole(AppRoleAdmin)
}

func (p *Profile) IsManager() bool {
	return p.Role == RoleManager || p.HasAppRole(AppRoleManager)
}

func (p *Profile) IsLeader() bool {
	return p.Role == RoleLeader
}

// HasRole reports whether the profile acts as role, counting app roles.
func (p *Profile) HasRole(role Role) bool {
	switch role {
	case RoleAdmin:
		return p.IsAdmin()
	case RoleManager:
		return p.IsManager()
	default:
		return p.Role == role
	}
}

func (p *Profile) CanViewMonitoring() bool {
	return p.IsAdmin() || p.IsManager() || p.IsLeader()
}

func (p *Profile) CanExport() bool {
	return p.IsAdmin() || p.IsManager()
}

// CanView reports whether the profile may read the given submission.
func (p *Profile) CanView(s *OvertimeSubmission) bool {
	if p.IsAdmin() || s.EmployeeNIK == p.NIK {
		return true
	}
	return equalNIK(s.Approver1NIK, p.NIK) || equalNIK(s.Approver2NIK, p.NIK)
}

func equalNIK(nik *string, want string) bool {
	return nik != nil && *nik == want
}
