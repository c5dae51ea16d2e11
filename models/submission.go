package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OvertimeStatus string

const (
	StatusPending        OvertimeStatus = "pending"
	StatusApprovedLevel1 OvertimeStatus = "approved_level1"
	StatusApprovedLevel2 OvertimeStatus = "approved_level2"
	StatusRejected       OvertimeStatus = "rejected"
)

var Statuses = []OvertimeStatus{StatusPending, StatusApprovedLevel1, StatusApprovedLevel2, StatusRejected}

func (s OvertimeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApprovedLevel1, StatusApprovedLevel2, StatusRejected:
		return true
	}
	return false
}

func (s OvertimeStatus) IsTerminal() bool {
	return s == StatusApprovedLevel2 || s == StatusRejected
}

// CanTransitionTo is the only place the lifecycle is encoded:
// pending -> approved_level1 -> approved_level2, and rejected from either
// non-terminal state.
func (s OvertimeStatus) CanTransitionTo(next OvertimeStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApprovedLevel1 || next == StatusRejected
	case StatusApprovedLevel1:
		return next == StatusApprovedLevel2 || next == StatusRejected
	default:
		return false
	}
}

// NextApproval returns the status an approval moves s to.
func (s OvertimeStatus) NextApproval() (OvertimeStatus, bool) {
	switch s {
	case StatusPending:
		return StatusApprovedLevel1, true
	case StatusApprovedLevel1:
		return StatusApprovedLevel2, true
	}
	return "", false
}

type OvertimeSubmission struct {
	ID                  string            `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	EmployeeNIK         string            `gorm:"not null;index;size:50" json:"employee_nik"`
	Employee            *Profile          `gorm:"foreignKey:EmployeeNIK;references:NIK" json:"employee,omitempty"`
	SubmissionDate      time.Time         `gorm:"not null;type:date;index" json:"submission_date"`
	CategoryID          *string           `gorm:"type:uuid;index" json:"category_id"`
	Category            *OvertimeCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	StartTime           ClockTime         `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime             ClockTime         `gorm:"type:varchar(8);not null" json:"end_time"`
	TotalHours          float64           `gorm:"not null;type:numeric(5,2)" json:"total_hours"`
	JobDescription      string            `gorm:"not null;size:1000" json:"job_description"`
	Status              OvertimeStatus    `gorm:"not null;size:20;default:pending;index" json:"status"`
	Approver1NIK        *string           `gorm:"size:50;index" json:"approver1_nik"`
	Approver2NIK        *string           `gorm:"size:50;index" json:"approver2_nik"`
	Approver1ApprovedAt *time.Time        `json:"approver1_approved_at"`
	Approver2ApprovedAt *time.Time        `json:"approver2_approved_at"`
	RejectionReason     *string           `gorm:"size:500" json:"rejection_reason"`
}

func (OvertimeSubmission) TableName() string {
	return "overtime_submissions"
}

func (s *OvertimeSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StageApprover returns the NIK expected to act on the submission's current
// stage, or nil when no further action is possible.
func (s *OvertimeSubmission) StageApprover() *string {
	switch s.Status {
	case StatusPending:
		return s.Approver1NIK
	case StatusApprovedLevel1:
		return s.Approver2NIK
	}
	return nil
}

type SubmissionFilter struct {
	EmployeeNIK string
	Status      OvertimeStatus
	LineArea    string
	Month       int
	Year        int

	// ActionableBy selects submissions whose current stage is assigned to the NIK.
	ActionableBy string
	// Actionable selects every submission that still awaits a decision.
	Actionable bool
}

// DateRange returns the half-open [from, to) range selected by Month/Year.
func (f SubmissionFilter) DateRange() (from, to time.Time, ok bool) {
	switch {
	case f.Year > 0 && f.Month > 0:
		from = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	case f.Year > 0:
		from = time.Date(f.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}
