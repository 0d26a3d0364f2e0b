package models

import "time"

// Report represents a user-submitted report against a post or another user
type Report struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReporterID uint      `json:"reporter_id" gorm:"index"`
	TargetType string    `json:"target_type" gorm:"size:20;index"` // post, user
	TargetID   string    `json:"target_id" gorm:"index"`
	Reason     string    `json:"reason" gorm:"size:500"`
	Status     string    `json:"status" gorm:"size:20;default:'open'"` // open, reviewed, dismissed
	CreatedAt  time.Time `json:"created_at"`
}

// CreateReportRequest defines the request body for filing a report
type CreateReportRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=post user"`
	TargetID   string `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,min=3,max=500"`
}
