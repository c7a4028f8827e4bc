package dto

import (
	"time"

	"tradelink_backend/internal/analytics"
	"tradelink_backend/internal/models"
)

// Actor identifies the caller for report authorization. A nil *Actor means
// the request carried no authenticated user.
type Actor struct {
	ID   string          `json:"id"`
	Role models.UserRole `json:"role"`
}

// ReportQuery is the shared request shape for all dashboard reports.
type ReportQuery struct {
	Preset    string `form:"preset" json:"preset"`
	StartDate string `form:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate   string `form:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Compare   bool   `form:"compare" json:"compare"`

	Role               string `form:"role" json:"role" validate:"omitempty,oneof=worker employer admin"`
	SubscriptionStatus string `form:"subscription_status" json:"subscription_status" validate:"omitempty,oneof=free pro"`
	Location           string `form:"location" json:"location"`
	EmployerType       string `form:"employer_type" json:"employer_type"`
}

// ActiveUsersComparison carries per-metric change versus the preceding
// period of equal length.
type ActiveUsersComparison struct {
	DAU analytics.Comparison `json:"dau"`
	WAU analytics.Comparison `json:"wau"`
	MAU analytics.Comparison `json:"mau"`
}

type ActiveUsersResult struct {
	DAU        int                    `json:"dau"`
	WAU        int                    `json:"wau"`
	MAU        int                    `json:"mau"`
	Comparison *ActiveUsersComparison `json:"comparison,omitempty"`
}

type FunnelResult struct {
	Stages []analytics.FunnelStage `json:"stages"`
}

type SubscriptionComparison struct {
	FreeUsers      analytics.Comparison `json:"free_users"`
	ProUsers       analytics.Comparison `json:"pro_users"`
	ConversionRate analytics.Comparison `json:"conversion_rate"`
	MRR            analytics.Comparison `json:"mrr"`
}

type SubscriptionResult struct {
	FreeUsers      int64                   `json:"free_users"`
	ProUsers       int64                   `json:"pro_users"`
	ConversionRate float64                 `json:"conversion_rate"`
	MRR            float64                 `json:"mrr"`
	ChurnRate      float64                 `json:"churn_rate"`
	Comparison     *SubscriptionComparison `json:"comparison,omitempty"`
}

// DailyPendingSnapshot is the reconstructed queue depth at the end of one
// day realistically covered by the weekly trend.
type DailyPendingSnapshot struct {
	Date                  time.Time `json:"date"`
	PendingCertifications int64     `json:"pending_certifications"`
	PendingReports        int64     `json:"pending_reports"`
}

type OperationalLoadResult struct {
	PendingCertifications       int64                  `json:"pending_certifications"`
	AvgCertificationReviewTime  float64                `json:"avg_certification_review_time_hours"`
	ModerationQueueBacklog      int64                  `json:"moderation_queue_backlog"`
	AvgModerationResolutionTime float64                `json:"avg_moderation_resolution_time_hours"`
	WeeklyTrend                 []DailyPendingSnapshot `json:"weekly_trend"`
}
