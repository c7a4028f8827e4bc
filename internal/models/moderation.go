package models

import "time"

// Certification is a trade credential submitted by a worker and reviewed by
// an administrator. CreatedAt doubles as the submission instant.
type Certification struct {
	BaseModel
	UserID     string              `gorm:"not null;index" json:"user_id"`
	Trade      string              `gorm:"not null" json:"trade"`
	IssuedBy   string              `json:"issued_by"`
	DocumentID string              `json:"document_id"`
	Status     CertificationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedAt *time.Time          `gorm:"index" json:"reviewed_at,omitempty"`
	ReviewerID string              `json:"reviewer_id"`
}

// ContentReport is a user-filed report against a listing, profile or message.
type ContentReport struct {
	BaseModel
	ReporterID string       `gorm:"not null;index" json:"reporter_id"`
	TargetType string       `gorm:"not null" json:"target_type"` // "job", "profile", "message"
	TargetID   string       `gorm:"not null;index" json:"target_id"`
	Reason     string       `json:"reason"`
	Status     ReportStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ResolvedAt *time.Time   `gorm:"index" json:"resolved_at,omitempty"`
	ResolverID string       `json:"resolver_id"`
}
