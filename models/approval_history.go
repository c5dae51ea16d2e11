package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalHistory is the append-only audit trail of decisions on a submission.
type ApprovalHistory struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	OvertimeID  string         `gorm:"not null;index;type:uuid" json:"overtime_id"`
	Action      OvertimeStatus `gorm:"not null;size:20" json:"action"`
	ApproverNIK string         `gorm:"not null;size:50" json:"approver_nik"`
	Comments    *string        `gorm:"size:500" json:"comments"`
}

func (ApprovalHistory) TableName() string {
	return "approval_history"
}

func (h *ApprovalHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
