package repositories

import "gorm.io/gorm"

// SegmentFilter narrows a population query by profile attributes. Empty
// fields mean "no constraint on that attribute", so the zero value is a
// no-op. It is a plain query transform: the same filter applies to a
// population query and to an id-set query derived from activity.
type SegmentFilter struct {
	Role               string `json:"role,omitempty"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	Location           string `json:"location,omitempty"`
	EmployerType       string `json:"employer_type,omitempty"`
}

// IsZero reports whether no attribute constraint is set.
func (s SegmentFilter) IsZero() bool {
	return s == SegmentFilter{}
}

// Scope returns a GORM scope adding one equality constraint per non-empty
// attribute. Applying the scope of a zero filter leaves the query unchanged.
func (s SegmentFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if s.Role != "" {
			q = q.Where("role = ?", s.Role)
		}
		if s.SubscriptionStatus != "" {
			q = q.Where("subscription_status = ?", s.SubscriptionStatus)
		}
		if s.Location != "" {
			q = q.Where("location = ?", s.Location)
		}
		if s.EmployerType != "" {
			q = q.Where("employer_type = ?", s.EmployerType)
		}
		return q
	}
}
