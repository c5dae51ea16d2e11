package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OvertimeCategory is a shift template that suggests default start and end
// times on the submission form.
type OvertimeCategory struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Description *string   `gorm:"size:500" json:"description"`
	StartTime   ClockTime `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime     ClockTime `gorm:"type:varchar(8);not null" json:"end_time"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
}

func (OvertimeCategory) TableName() string {
	return "overtime_categories"
}

func (c *OvertimeCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *OvertimeCategory) DefaultHours() float64 {
	return CalculateTotalHours(c.StartTime, c.EndTime)
}
