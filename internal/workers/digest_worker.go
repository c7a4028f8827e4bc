package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradelink_backend/internal/analytics"
	"tradelink_backend/internal/email"
	"tradelink_backend/internal/logger"
	"tradelink_backend/internal/models"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/services"
	"tradelink_backend/internal/services/dto"
)

// DigestWorker periodically emails an operations summary to the configured
// recipient, built from the same reports the dashboard serves.
type DigestWorker struct {
	analyticsService services.AnalyticsService
	provider         email.Provider
	recipient        string
	interval         time.Duration
}

func NewDigestWorker(analyticsService services.AnalyticsService, provider email.Provider, recipient string, interval time.Duration) *DigestWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DigestWorker{
		analyticsService: analyticsService,
		provider:         provider,
		recipient:        recipient,
		interval:         interval,
	}
}

// Run blocks until ctx is cancelled, sending one digest per interval. A
// failed cycle is logged and retried at the next tick.
func (w *DigestWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("digest worker started", "recipient", w.recipient, "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("digest worker stopped")
			return
		case <-ticker.C:
			if err := w.sendDigest(ctx); err != nil {
				logger.Error("digest send failed", "error", err)
			}
		}
	}
}

func (w *DigestWorker) sendDigest(ctx context.Context) error {
	// The scheduler acts with admin authority; the reports themselves gate
	// on the actor role.
	actor := &dto.Actor{ID: "digest-worker", Role: models.UserRoleAdmin}
	spec := analytics.DateRangeSpec{Preset: analytics.PresetLast7Days}

	activeUsers, err := w.analyticsService.GetActiveUsers(ctx, actor, spec, repositories.SegmentFilter{})
	if err != nil {
		return fmt.Errorf("active users: %w", err)
	}
	load, err := w.analyticsService.GetOperationalLoad(ctx, actor, spec)
	if err != nil {
		return fmt.Errorf("operational load: %w", err)
	}

	subject := fmt.Sprintf("Operations digest %s", time.Now().Format("2006-01-02"))
	body := buildDigestBody(activeUsers, load)
	return w.provider.Send(ctx, w.recipient, subject, body)
}

func buildDigestBody(users *dto.ActiveUsersResult, load *dto.OperationalLoadResult) string {
	var b strings.Builder
	b.WriteString("<h2>Weekly operations digest</h2>")
	b.WriteString(fmt.Sprintf("<p>DAU: %d &middot; WAU: %d &middot; MAU: %d</p>", users.DAU, users.WAU, users.MAU))
	b.WriteString(fmt.Sprintf("<p>Pending certifications: %d (avg review %.2fh)</p>",
		load.PendingCertifications, load.AvgCertificationReviewTime))
	b.WriteString(fmt.Sprintf("<p>Moderation backlog: %d (avg resolution %.2fh)</p>",
		load.ModerationQueueBacklog, load.AvgModerationResolutionTime))

	b.WriteString("<h3>Backlog trend</h3><ul>")
	for _, day := range load.WeeklyTrend {
		b.WriteString(fmt.Sprintf("<li>%s: %d certifications, %d reports</li>",
			day.Date.Format("Mon Jan 2"), day.PendingCertifications, day.PendingReports))
	}
	b.WriteString("</ul>")
	return b.String()
}
