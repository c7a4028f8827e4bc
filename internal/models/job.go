package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobPosting struct {
	BaseModel
	OwnerID     string         `gorm:"not null;index" json:"owner_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Trade       string         `gorm:"index" json:"trade"`
	Location    string         `gorm:"index" json:"location"`
	PayMin      float64        `json:"pay_min"`
	PayMax      float64        `json:"pay_max"`
	Tags        datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Status      JobStatus      `gorm:"type:varchar(20);default:'active';index" json:"status"`
	ExpiresAt   *time.Time     `json:"expires_at"`
}

type Application struct {
	BaseModel
	JobID       string            `gorm:"not null;index" json:"job_id"`
	ApplicantID string            `gorm:"not null;index" json:"applicant_id"`
	CoverNote   string            `json:"cover_note"`
	Status      ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Relations
	Job JobPosting `gorm:"foreignKey:JobID" json:"-"`
}
