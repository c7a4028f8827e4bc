package models

type UserRole string
type UserStatus string
type SubscriptionTier string
type SubscriptionStatus string
type JobStatus string
type ApplicationStatus string
type CertificationStatus string
type ReportStatus string

const (
	UserRoleWorker   UserRole = "worker"
	UserRoleEmployer UserRole = "employer"
	UserRoleAdmin    UserRole = "admin"

	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	SubscriptionTierFree SubscriptionTier = "free"
	SubscriptionTierPro  SubscriptionTier = "pro"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	CertificationStatusPending  CertificationStatus = "pending"
	CertificationStatusApproved CertificationStatus = "approved"
	CertificationStatusRejected CertificationStatus = "rejected"

	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)
