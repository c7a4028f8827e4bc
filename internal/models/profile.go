package models

// Profile carries the demographic and account attributes the dashboard
// segments the population by. Activity tables reference only the user id,
// so every segment check goes through this table.
type Profile struct {
	BaseModel
	UserID             string           `gorm:"not null;uniqueIndex" json:"user_id"`
	Name               string           `json:"name"`
	Role               UserRole         `gorm:"type:varchar(20);index" json:"role"`
	Trade              string           `gorm:"index" json:"trade"` // plumbing, electrical, carpentry, ...
	Location           string           `gorm:"index" json:"location"`
	EmployerType       string           `gorm:"index" json:"employer_type"` // contractor, agency, homeowner
	SubscriptionStatus SubscriptionTier `gorm:"type:varchar(20);default:'free';index" json:"subscription_status"`
	Bio                string           `json:"bio"`
	AvatarURL          string           `json:"avatar_url"`
}

// IsComplete reports whether the profile counts as "completed" for the
// signup funnel: name, trade and location all filled in.
func (p *Profile) IsComplete() bool {
	return p.Name != "" && p.Trade != "" && p.Location != ""
}
