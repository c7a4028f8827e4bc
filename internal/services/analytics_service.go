package services

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"tradelink_backend/internal/analytics"
	"tradelink_backend/internal/appErrors"
	"tradelink_backend/internal/logger"
	"tradelink_backend/internal/models"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/services/dto"
)

// Activity source names as they appear in fetch error messages.
const (
	sourceJobs         = "jobs"
	sourceApplications = "applications"
	sourceMessages     = "messages"
)

type AnalyticsService interface {
	GetActiveUsers(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.ActiveUsersResult, error)
	GetConversionFunnel(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.FunnelResult, error)
	GetSubscriptionMetrics(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec) (*dto.SubscriptionResult, error)
	GetOperationalLoad(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec) (*dto.OperationalLoadResult, error)
}

type AnalyticsServiceImpl struct {
	profileRepo       repositories.ProfileRepository
	jobRepo           repositories.JobRepository
	applicationRepo   repositories.ApplicationRepository
	messageRepo       repositories.MessageRepository
	subscriptionRepo  repositories.SubscriptionRepository
	certificationRepo repositories.CertificationRepository
	contentReportRepo repositories.ContentReportRepository

	// now is swappable so tests control the reference instant.
	now func() time.Time
}

func NewAnalyticsService(
	profileRepo repositories.ProfileRepository,
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
	messageRepo repositories.MessageRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	certificationRepo repositories.CertificationRepository,
	contentReportRepo repositories.ContentReportRepository,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		profileRepo:       profileRepo,
		jobRepo:           jobRepo,
		applicationRepo:   applicationRepo,
		messageRepo:       messageRepo,
		subscriptionRepo:  subscriptionRepo,
		certificationRepo: certificationRepo,
		contentReportRepo: contentReportRepo,
		now:               time.Now,
	}
}

// requireAdmin gates the admin-only reports. A missing actor reads as an
// unauthenticated request, any non-admin role as a forbidden one.
func requireAdmin(actor *dto.Actor) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.UserRoleAdmin {
		return appErrors.ErrForbidden
	}
	return nil
}

// GetActiveUsers computes DAU/WAU/MAU over the requested range. Unlike the
// other reports this one carries no admin gate; any authenticated dashboard
// user may read it.
func (s *AnalyticsServiceImpl) GetActiveUsers(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.ActiveUsersResult, error) {
	now := s.now()
	bounds, err := analytics.Resolve(spec, now)
	if err != nil {
		return nil, appErrors.InvalidDateRange(err)
	}

	current, err := s.activeUsersForBounds(ctx, bounds, segment, now)
	if err != nil {
		return nil, err
	}

	result := &dto.ActiveUsersResult{
		DAU: current.dau,
		WAU: current.wau,
		MAU: current.mau,
	}

	if spec.CompareEnabled {
		prior, err := s.activeUsersForBounds(ctx, analytics.ComparisonBounds(bounds), segment, now)
		if err != nil {
			return nil, err
		}
		result.Comparison = &dto.ActiveUsersComparison{
			DAU: analytics.Compare(float64(current.dau), float64(prior.dau)),
			WAU: analytics.Compare(float64(current.wau), float64(prior.wau)),
			MAU: analytics.Compare(float64(current.mau), float64(prior.mau)),
		}
	}

	logger.CtxInfo(ctx, "active users report computed",
		"dau", result.DAU, "wau", result.WAU, "mau", result.MAU,
		"compare", spec.CompareEnabled)
	return result, nil
}

type activeUsersCounts struct {
	dau, wau, mau int
}

// activeUsersForBounds runs one full active-users pass over a single window.
// The comparison path calls it a second time with the preceding window, so
// both periods go through identical logic.
func (s *AnalyticsServiceImpl) activeUsersForBounds(ctx context.Context, bounds analytics.Bounds, segment repositories.SegmentFilter, now time.Time) (activeUsersCounts, error) {
	records, err := s.collectActivity(ctx, bounds)
	if err != nil {
		return activeUsersCounts{}, err
	}

	lastSeen := make(map[string]time.Time, len(records))
	for _, rec := range records {
		if prev, ok := lastSeen[rec.ActorID]; !ok || rec.OccurredAt.After(prev) {
			lastSeen[rec.ActorID] = rec.OccurredAt
		}
	}

	actorIDs := make([]string, 0, len(lastSeen))
	for id := range lastSeen {
		actorIDs = append(actorIDs, id)
	}

	// Activity rows carry only the actor id; segment attributes live on the
	// profile, so membership is checked in a second pass.
	filtered, err := s.profileRepo.FilterUserIDsBySegment(ctx, actorIDs, segment)
	if err != nil {
		return activeUsersCounts{}, appErrors.SourceFetch("profiles", err)
	}

	// The day and week windows anchor to the instant the computation runs,
	// not to the requested range's end. A range that ended in the past
	// reports 0 daily and weekly actives, and the comparison pass inherits
	// the same near-zero baseline.
	dayStart := analytics.StartOfDay(now)
	weekStart := now.AddDate(0, 0, -7)

	logger.CtxDebug(ctx, "active population collected",
		"actors", len(lastSeen), "in_segment", len(filtered))

	counts := activeUsersCounts{mau: len(filtered)}
	for _, id := range filtered {
		seen := lastSeen[id]
		if !seen.Before(dayStart) {
			counts.dau++
		}
		if !seen.Before(weekStart) {
			counts.wau++
		}
	}
	return counts, nil
}

// collectActivity fans out to the three activity sources concurrently and
// fails fast on the first error. Each source is capped, so the deduplicated
// population is a lower bound on very large windows.
func (s *AnalyticsServiceImpl) collectActivity(ctx context.Context, bounds analytics.Bounds) ([]repositories.ActivityRecord, error) {
	var jobRecs, appRecs, msgRecs []repositories.ActivityRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobRecs, err = s.jobRepo.FindActivityBetween(gctx, bounds.Gte, bounds.Lte, repositories.ActivitySourceLimit)
		if err != nil {
			return appErrors.SourceFetch(sourceJobs, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		appRecs, err = s.applicationRepo.FindActivityBetween(gctx, bounds.Gte, bounds.Lte, repositories.ActivitySourceLimit)
		if err != nil {
			return appErrors.SourceFetch(sourceApplications, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		msgRecs, err = s.messageRepo.FindActivityBetween(gctx, bounds.Gte, bounds.Lte, repositories.ActivitySourceLimit)
		if err != nil {
			return appErrors.SourceFetch(sourceMessages, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for source, n := range map[string]int{
		sourceJobs:         len(jobRecs),
		sourceApplications: len(appRecs),
		sourceMessages:     len(msgRecs),
	} {
		if n >= repositories.ActivitySourceLimit {
			logger.CtxWarn(ctx, "activity source hit row cap, counts are lower bounds",
				"source", source, "cap", repositories.ActivitySourceLimit)
		}
	}

	records := make([]repositories.ActivityRecord, 0, len(jobRecs)+len(appRecs)+len(msgRecs))
	records = append(records, jobRecs...)
	records = append(records, appRecs...)
	records = append(records, msgRecs...)
	return records, nil
}

// GetConversionFunnel builds the three-stage signup funnel for the window.
func (s *AnalyticsServiceImpl) GetConversionFunnel(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec, segment repositories.SegmentFilter) (*dto.FunnelResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	bounds, err := analytics.Resolve(spec, s.now())
	if err != nil {
		return nil, appErrors.InvalidDateRange(err)
	}

	signupIDs, err := s.profileRepo.FindUserIDsCreatedBetween(ctx, bounds.Gte, bounds.Lte, segment)
	if err != nil {
		return nil, appErrors.SourceFetch("profiles", err)
	}

	completeIDs, err := s.profileRepo.FindCompleteProfileUserIDs(ctx, signupIDs)
	if err != nil {
		return nil, appErrors.SourceFetch("profiles", err)
	}

	firstAction := 0
	if len(completeIDs) > 0 {
		acted, err := s.firstActionUserIDs(ctx, completeIDs)
		if err != nil {
			return nil, err
		}
		firstAction = len(acted)
	}

	stages := analytics.BuildFunnelStages(len(signupIDs), len(completeIDs), firstAction)
	logger.CtxInfo(ctx, "conversion funnel computed",
		"signups", len(signupIDs), "profile_complete", len(completeIDs), "first_action", firstAction)
	return &dto.FunnelResult{Stages: stages}, nil
}

// firstActionUserIDs returns the users among userIDs that ever posted a job
// or applied to one. First actions are not bounded by the report window.
func (s *AnalyticsServiceImpl) firstActionUserIDs(ctx context.Context, userIDs []string) ([]string, error) {
	var ownerIDs, applicantIDs []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ownerIDs, err = s.jobRepo.FindOwnerIDsIn(gctx, userIDs)
		if err != nil {
			return appErrors.SourceFetch(sourceJobs, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		applicantIDs, err = s.applicationRepo.FindApplicantIDsIn(gctx, userIDs)
		if err != nil {
			return appErrors.SourceFetch(sourceApplications, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(ownerIDs)+len(applicantIDs))
	for _, id := range ownerIDs {
		seen[id] = struct{}{}
	}
	for _, id := range applicantIDs {
		seen[id] = struct{}{}
	}

	acted := make([]string, 0, len(seen))
	for id := range seen {
		acted = append(acted, id)
	}
	return acted, nil
}

// GetSubscriptionMetrics reports signup tier mix and revenue for the window.
func (s *AnalyticsServiceImpl) GetSubscriptionMetrics(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec) (*dto.SubscriptionResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	bounds, err := analytics.Resolve(spec, s.now())
	if err != nil {
		return nil, appErrors.InvalidDateRange(err)
	}

	free, pro, err := s.tierCounts(ctx, bounds)
	if err != nil {
		return nil, err
	}

	// MRR reads current active subscriptions; it is a point-in-time figure
	// and does not respect the date range.
	mrr, err := s.subscriptionRepo.SumActiveAmounts(ctx)
	if err != nil {
		return nil, appErrors.SourceFetch("subscriptions", err)
	}

	result := &dto.SubscriptionResult{
		FreeUsers:      free,
		ProUsers:       pro,
		ConversionRate: conversionRate(free, pro),
		MRR:            mrr,
		// TODO: derive churn from cancellation events once those are recorded
		// with a cancellation timestamp per subscription period.
		ChurnRate: 0,
	}

	if spec.CompareEnabled {
		priorBounds := analytics.ComparisonBounds(bounds)
		priorFree, priorPro, err := s.tierCounts(ctx, priorBounds)
		if err != nil {
			return nil, err
		}
		result.Comparison = &dto.SubscriptionComparison{
			FreeUsers:      analytics.Compare(float64(free), float64(priorFree)),
			ProUsers:       analytics.Compare(float64(pro), float64(priorPro)),
			ConversionRate: analytics.Compare(conversionRate(free, pro), conversionRate(priorFree, priorPro)),
			// Both sides read the same live figure, so the change is 0 until
			// revenue history is snapshotted.
			MRR: analytics.Compare(mrr, mrr),
		}
	}

	logger.CtxInfo(ctx, "subscription report computed",
		"free_users", free, "pro_users", pro, "mrr", mrr)
	return result, nil
}

func (s *AnalyticsServiceImpl) tierCounts(ctx context.Context, bounds analytics.Bounds) (free, pro int64, err error) {
	free, err = s.profileRepo.CountCreatedBetweenByTier(ctx, bounds.Gte, bounds.Lte, models.SubscriptionTierFree)
	if err != nil {
		return 0, 0, appErrors.SourceFetch("profiles", err)
	}
	pro, err = s.profileRepo.CountCreatedBetweenByTier(ctx, bounds.Gte, bounds.Lte, models.SubscriptionTierPro)
	if err != nil {
		return 0, 0, appErrors.SourceFetch("profiles", err)
	}
	return free, pro, nil
}

func conversionRate(free, pro int64) float64 {
	total := free + pro
	if total == 0 {
		return 0
	}
	return round2(float64(pro) / float64(total) * 100)
}

// GetOperationalLoad reports current moderation queue depth, review speed
// over the window, and a seven-day backlog trend.
func (s *AnalyticsServiceImpl) GetOperationalLoad(ctx context.Context, actor *dto.Actor, spec analytics.DateRangeSpec) (*dto.OperationalLoadResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	bounds, err := analytics.Resolve(spec, s.now())
	if err != nil {
		return nil, appErrors.InvalidDateRange(err)
	}

	pendingCerts, err := s.certificationRepo.CountPending(ctx)
	if err != nil {
		return nil, appErrors.SourceFetch("certifications", err)
	}

	reviewed, err := s.certificationRepo.FindReviewedBetween(ctx, bounds.Gte, bounds.Lte)
	if err != nil {
		return nil, appErrors.SourceFetch("certifications", err)
	}

	pendingReports, err := s.contentReportRepo.CountPending(ctx)
	if err != nil {
		return nil, appErrors.SourceFetch("reports", err)
	}

	resolved, err := s.contentReportRepo.FindResolvedBetween(ctx, bounds.Gte, bounds.Lte)
	if err != nil {
		return nil, appErrors.SourceFetch("reports", err)
	}

	trend, err := s.weeklyPendingTrend(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.OperationalLoadResult{
		PendingCertifications:       pendingCerts,
		AvgCertificationReviewTime:  avgCertificationReviewHours(reviewed),
		ModerationQueueBacklog:      pendingReports,
		AvgModerationResolutionTime: avgReportResolutionHours(resolved),
		WeeklyTrend:                 trend,
	}

	logger.CtxInfo(ctx, "operational load computed",
		"pending_certifications", pendingCerts, "moderation_backlog", pendingReports)
	return result, nil
}

// weeklyPendingTrend reconstructs end-of-day queue depths for the last seven
// days, oldest first. The fourteen point queries run concurrently.
func (s *AnalyticsServiceImpl) weeklyPendingTrend(ctx context.Context) ([]dto.DailyPendingSnapshot, error) {
	now := s.now()
	trend := make([]dto.DailyPendingSnapshot, 7)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 7; i++ {
		day := analytics.StartOfDay(now.AddDate(0, 0, i-6))
		at := analytics.EndOfDay(day)
		snapshot := &trend[i]
		snapshot.Date = day

		g.Go(func() error {
			count, err := s.certificationRepo.CountPendingAsOf(gctx, at)
			if err != nil {
				return appErrors.SourceFetch("certifications", err)
			}
			snapshot.PendingCertifications = count
			return nil
		})
		g.Go(func() error {
			count, err := s.contentReportRepo.CountPendingAsOf(gctx, at)
			if err != nil {
				return appErrors.SourceFetch("reports", err)
			}
			snapshot.PendingReports = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trend, nil
}

func avgCertificationReviewHours(reviewed []models.Certification) float64 {
	if len(reviewed) == 0 {
		return 0
	}
	var total float64
	for _, cert := range reviewed {
		if cert.ReviewedAt == nil {
			continue
		}
		total += cert.ReviewedAt.Sub(cert.CreatedAt).Hours()
	}
	return round2(total / float64(len(reviewed)))
}

func avgReportResolutionHours(resolved []models.ContentReport) float64 {
	if len(resolved) == 0 {
		return 0
	}
	var total float64
	for _, report := range resolved {
		if report.ResolvedAt == nil {
			continue
		}
		total += report.ResolvedAt.Sub(report.CreatedAt).Hours()
	}
	return round2(total / float64(len(resolved)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
