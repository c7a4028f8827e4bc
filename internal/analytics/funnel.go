package analytics

// Funnel stage names, in order.
const (
	StageSignup          = "Signup"
	StageProfileComplete = "Profile Complete"
	StageFirstAction     = "First Action"
)

// FunnelStage is one step of the signup conversion funnel. Percentage is
// always relative to the funnel's top count; DropOffRate is always relative
// to the immediately preceding stage's count. The first stage has no
// predecessor, so its DropOffRate is nil.
type FunnelStage struct {
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	Percentage  float64  `json:"percentage"`
	DropOffRate *float64 `json:"drop_off_rate"`
}

// BuildFunnelStages assembles the three signup-funnel stages from raw
// counts: signups created in range, the subset with a complete profile, and
// the subset of those who took a first action. Zero denominators yield 0
// rather than dividing.
func BuildFunnelStages(signups, profileComplete, firstAction int) []FunnelStage {
	stage2Pct, stage2Drop := 0.0, 0.0
	stage3Pct, stage3Drop := 0.0, 0.0

	if signups > 0 {
		stage2Pct = round2(float64(profileComplete) / float64(signups) * 100)
		stage2Drop = round2(float64(signups-profileComplete) / float64(signups) * 100)
		// Percentage stays anchored to the top of the funnel, not to stage 2.
		stage3Pct = round2(float64(firstAction) / float64(signups) * 100)
	}
	if profileComplete > 0 {
		stage3Drop = round2(float64(profileComplete-firstAction) / float64(profileComplete) * 100)
	}

	return []FunnelStage{
		{Name: StageSignup, Count: signups, Percentage: 100, DropOffRate: nil},
		{Name: StageProfileComplete, Count: profileComplete, Percentage: stage2Pct, DropOffRate: &stage2Drop},
		{Name: StageFirstAction, Count: firstAction, Percentage: stage3Pct, DropOffRate: &stage3Drop},
	}
}
