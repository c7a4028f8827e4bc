package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubscriptionPlan struct {
	BaseModel
	Name     string         `gorm:"not null" json:"name"`
	Price    float64        `gorm:"not null" json:"price"`
	Currency string         `gorm:"default:'USD'" json:"currency"`
	Duration string         `gorm:"not null" json:"duration"`   // "monthly", "yearly"
	Features datatypes.JSON `gorm:"type:jsonb" json:"features"` // {"priority_listing": true, ...}
	Limits   datatypes.JSON `gorm:"type:jsonb" json:"limits"`   // {"job_posts": 5, "applications": 20}
	IsActive bool           `gorm:"default:true" json:"is_active"`
}

type Subscription struct {
	BaseModel
	UserID      string             `gorm:"not null;index" json:"user_id"`
	PlanID      string             `gorm:"not null;index" json:"plan_id"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	Amount      float64            `gorm:"not null" json:"amount"` // monthly charge at signup time
	StartDate   time.Time          `json:"start_date"`
	EndDate     time.Time          `json:"end_date"`
	AutoRenew   bool               `gorm:"default:true" json:"auto_renew"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`

	// Relations
	Plan SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan"`
}
