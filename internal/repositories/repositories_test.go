package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradelink_backend/internal/models"
)

var repoNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.JobPosting{},
		&models.Application{},
		&models.Message{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.Certification{},
		&models.ContentReport{},
	))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, userID, name, trade, location string, role models.UserRole, tier models.SubscriptionTier, createdAt time.Time) {
	t.Helper()
	p := &models.Profile{
		BaseModel:          models.BaseModel{CreatedAt: createdAt},
		UserID:             userID,
		Name:               name,
		Role:               role,
		Trade:              trade,
		Location:           location,
		SubscriptionStatus: tier,
	}
	require.NoError(t, db.Create(p).Error)
}

func TestProfileRepositoryFindUserIDsCreatedBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	seedProfile(t, db, "u1", "Ann", "plumbing", "austin", models.UserRoleWorker, models.SubscriptionTierFree, repoNow.AddDate(0, 0, -5))
	seedProfile(t, db, "u2", "Bob", "electrical", "dallas", models.UserRoleWorker, models.SubscriptionTierPro, repoNow.AddDate(0, 0, -5))
	seedProfile(t, db, "u3", "Cal", "plumbing", "austin", models.UserRoleEmployer, models.SubscriptionTierFree, repoNow.AddDate(0, 0, -40))

	ids, err := repo.FindUserIDsCreatedBetween(ctx, repoNow.AddDate(0, 0, -30), repoNow, SegmentFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids)

	ids, err = repo.FindUserIDsCreatedBetween(ctx, repoNow.AddDate(0, 0, -30), repoNow, SegmentFilter{Location: "austin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

func TestProfileRepositoryFilterUserIDsBySegment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	seedProfile(t, db, "u1", "Ann", "plumbing", "austin", models.UserRoleWorker, models.SubscriptionTierPro, repoNow)
	seedProfile(t, db, "u2", "Bob", "electrical", "dallas", models.UserRoleEmployer, models.SubscriptionTierFree, repoNow)

	ids, err := repo.FilterUserIDsBySegment(ctx, []string{"u1", "u2", "ghost"}, SegmentFilter{})
	require.NoError(t, err)
	// Ids without a profile row drop out even with an empty segment.
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids)

	ids, err = repo.FilterUserIDsBySegment(ctx, []string{"u1", "u2"}, SegmentFilter{Role: "worker", SubscriptionStatus: "pro"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)

	ids, err = repo.FilterUserIDsBySegment(ctx, nil, SegmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProfileRepositoryFindCompleteProfileUserIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profiles := []*models.Profile{
		{UserID: "complete", Name: "Ann", Trade: "plumbing", Location: "austin"},
		{UserID: "no-trade", Name: "Bob", Location: "dallas"},
		{UserID: "no-name", Trade: "roofing", Location: "waco"},
	}
	for _, p := range profiles {
		require.NoError(t, repo.Create(p))
	}

	ids, err := repo.FindCompleteProfileUserIDs(ctx, []string{"complete", "no-trade", "no-name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"complete"}, ids)

	// The SQL completeness predicate and the model helper agree.
	for _, p := range profiles {
		assert.Equal(t, p.IsComplete(), ids[0] == p.UserID, "profile %s", p.UserID)
	}
}

func TestProfileRepositoryCountCreatedBetweenByTier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	seedProfile(t, db, "u1", "Ann", "plumbing", "austin", models.UserRoleWorker, models.SubscriptionTierFree, repoNow.AddDate(0, 0, -2))
	seedProfile(t, db, "u2", "Bob", "electrical", "dallas", models.UserRoleWorker, models.SubscriptionTierFree, repoNow.AddDate(0, 0, -2))
	seedProfile(t, db, "u3", "Cal", "roofing", "waco", models.UserRoleWorker, models.SubscriptionTierPro, repoNow.AddDate(0, 0, -2))
	seedProfile(t, db, "u4", "Dee", "roofing", "waco", models.UserRoleWorker, models.SubscriptionTierPro, repoNow.AddDate(0, 0, -60))

	free, err := repo.CountCreatedBetweenByTier(ctx, repoNow.AddDate(0, 0, -30), repoNow, models.SubscriptionTierFree)
	require.NoError(t, err)
	assert.Equal(t, int64(2), free)

	pro, err := repo.CountCreatedBetweenByTier(ctx, repoNow.AddDate(0, 0, -30), repoNow, models.SubscriptionTierPro)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pro)
}

func TestJobRepositoryActivityProjection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	inRange := repoNow.AddDate(0, 0, -3)
	outOfRange := repoNow.AddDate(0, 0, -40)
	require.NoError(t, repo.Create(&models.JobPosting{
		BaseModel: models.BaseModel{CreatedAt: inRange},
		OwnerID:   "owner-1", Title: "fix sink",
	}))
	require.NoError(t, repo.Create(&models.JobPosting{
		BaseModel: models.BaseModel{CreatedAt: outOfRange},
		OwnerID:   "owner-2", Title: "rewire panel",
	}))

	records, err := repo.FindActivityBetween(ctx, repoNow.AddDate(0, 0, -30), repoNow, ActivitySourceLimit)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "owner-1", records[0].ActorID)
	assert.WithinDuration(t, inRange, records[0].OccurredAt, time.Second)
}

func TestJobRepositoryActivityLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.JobPosting{
			BaseModel: models.BaseModel{CreatedAt: repoNow.Add(-time.Hour)},
			OwnerID:   "owner", Title: "job",
		}))
	}

	records, err := repo.FindActivityBetween(ctx, repoNow.AddDate(0, 0, -1), repoNow, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestJobRepositoryFindOwnerIDsIn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	// Two postings by the same owner collapse to one id.
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(&models.JobPosting{OwnerID: "owner-1", Title: "job"}))
	}
	require.NoError(t, repo.Create(&models.JobPosting{OwnerID: "other", Title: "job"}))

	ids, err := repo.FindOwnerIDsIn(ctx, []string{"owner-1", "never-posted"})
	require.NoError(t, err)
	assert.Equal(t, []string{"owner-1"}, ids)
}

func TestApplicationRepositoryActivityProjection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(&models.Application{
		BaseModel:   models.BaseModel{CreatedAt: repoNow.Add(-time.Hour)},
		JobID:       "j1",
		ApplicantID: "applicant-1",
	}))

	records, err := repo.FindActivityBetween(ctx, repoNow.AddDate(0, 0, -7), repoNow, ActivitySourceLimit)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "applicant-1", records[0].ActorID)
}

func TestMessageRepositoryActivityProjection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(&models.Message{
		BaseModel:   models.BaseModel{CreatedAt: repoNow.Add(-time.Hour)},
		SenderID:    "sender-1",
		RecipientID: "r1",
		Body:        "hello",
	}))

	records, err := repo.FindActivityBetween(ctx, repoNow.AddDate(0, 0, -7), repoNow, ActivitySourceLimit)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sender-1", records[0].ActorID)
}

func TestRepositoryFindByIDSentinels(t *testing.T) {
	db := setupTestDB(t)
	jobs := NewJobRepository(db)
	applications := NewApplicationRepository(db)
	messages := NewMessageRepository(db)

	_, err := jobs.FindByID("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = applications.FindByID("missing")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	_, err = messages.FindByID("missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	job := &models.JobPosting{OwnerID: "owner-1", Title: "fix sink"}
	require.NoError(t, jobs.Create(job))

	found, err := jobs.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", found.OwnerID)
}

func TestSubscriptionRepositorySumActiveAmounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	plan := &models.SubscriptionPlan{Name: "Pro", Price: 100, Duration: "monthly"}
	require.NoError(t, repo.CreatePlan(plan))

	for _, userID := range []string{"ua", "ub", "uc", "ud"} {
		require.NoError(t, repo.Create(&models.Subscription{
			UserID: userID,
			PlanID: plan.ID,
			Status: models.SubscriptionStatusActive,
			Amount: 100,
		}))
	}
	require.NoError(t, repo.UpdateStatus("ud", models.SubscriptionStatusCancelled))

	cancelled, err := repo.FindByUser("ud")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, cancelled.Status)
	assert.Equal(t, "Pro", cancelled.Plan.Name)

	// The cancelled subscription drops out of the revenue figure.
	total, err := repo.SumActiveAmounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)
}

func TestSubscriptionRepositoryUpdateStatusMissingUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	err := repo.UpdateStatus("ghost", models.SubscriptionStatusCancelled)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestSubscriptionRepositorySumActiveAmountsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	total, err := repo.SumActiveAmounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestCertificationRepositoryPendingCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCertificationRepository(db)
	ctx := context.Background()

	reviewed := &models.Certification{
		BaseModel: models.BaseModel{CreatedAt: repoNow.AddDate(0, 0, -5)},
		UserID:    "u1", Trade: "plumbing",
	}
	require.NoError(t, repo.Create(reviewed))
	require.NoError(t, repo.Create(&models.Certification{
		BaseModel: models.BaseModel{CreatedAt: repoNow.AddDate(0, 0, -4)},
		UserID:    "u2", Trade: "roofing",
	}))
	require.NoError(t, repo.Review(reviewed.ID, models.CertificationStatusApproved, "admin-1", repoNow.AddDate(0, 0, -2)))

	approved, err := repo.FindByID(reviewed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CertificationStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	// Three days ago both certifications were still unreviewed.
	asOf, err := repo.CountPendingAsOf(ctx, repoNow.AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), asOf)

	// Yesterday only the unreviewed one remained.
	asOf, err = repo.CountPendingAsOf(ctx, repoNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), asOf)

	// Before either was submitted the queue was empty.
	asOf, err = repo.CountPendingAsOf(ctx, repoNow.AddDate(0, 0, -10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), asOf)
}

func TestCertificationRepositoryFindReviewedBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCertificationRepository(db)
	ctx := context.Background()

	recent := &models.Certification{UserID: "u1", Trade: "plumbing"}
	old := &models.Certification{UserID: "u2", Trade: "roofing"}
	for _, cert := range []*models.Certification{recent, old, {UserID: "u3", Trade: "hvac"}} {
		require.NoError(t, repo.Create(cert))
	}
	require.NoError(t, repo.Review(recent.ID, models.CertificationStatusApproved, "admin-1", repoNow.AddDate(0, 0, -2)))
	require.NoError(t, repo.Review(old.ID, models.CertificationStatusRejected, "admin-1", repoNow.AddDate(0, 0, -20)))

	reviewed, err := repo.FindReviewedBetween(ctx, repoNow.AddDate(0, 0, -7), repoNow)
	require.NoError(t, err)
	require.Len(t, reviewed, 1)
	assert.Equal(t, "u1", reviewed[0].UserID)
}

func TestContentReportRepositoryPendingCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentReportRepository(db)
	ctx := context.Background()

	resolved := &models.ContentReport{
		BaseModel:  models.BaseModel{CreatedAt: repoNow.AddDate(0, 0, -3)},
		ReporterID: "r1", TargetType: "job", TargetID: "j1",
	}
	require.NoError(t, repo.Create(resolved))
	require.NoError(t, repo.Create(&models.ContentReport{
		BaseModel:  models.BaseModel{CreatedAt: repoNow.AddDate(0, 0, -2)},
		ReporterID: "r2", TargetType: "profile", TargetID: "p1",
	}))
	require.NoError(t, repo.Resolve(resolved.ID, models.ReportStatusResolved, "admin-1", repoNow.AddDate(0, 0, -1)))

	closed, err := repo.FindByID(resolved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, closed.Status)
	require.NotNil(t, closed.ResolvedAt)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	asOf, err := repo.CountPendingAsOf(ctx, repoNow.AddDate(0, 0, -2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), asOf)
}

func TestContentReportRepositoryFindResolvedBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentReportRepository(db)
	ctx := context.Background()

	recent := &models.ContentReport{ReporterID: "r1", TargetType: "job", TargetID: "j1"}
	old := &models.ContentReport{ReporterID: "r2", TargetType: "message", TargetID: "m1"}
	for _, report := range []*models.ContentReport{recent, old, {ReporterID: "r3", TargetType: "profile", TargetID: "p1"}} {
		require.NoError(t, repo.Create(report))
	}
	require.NoError(t, repo.Resolve(recent.ID, models.ReportStatusDismissed, "admin-1", repoNow.AddDate(0, 0, -1)))
	require.NoError(t, repo.Resolve(old.ID, models.ReportStatusResolved, "admin-1", repoNow.AddDate(0, 0, -30)))

	resolved, err := repo.FindResolvedBetween(ctx, repoNow.AddDate(0, 0, -7), repoNow)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "r1", resolved[0].ReporterID)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&models.User{
		Email: "ann@example.com", PasswordHash: "x", Role: models.UserRoleWorker,
	}))

	user, err := repo.FindByEmail("ann@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSegmentFilterIsZero(t *testing.T) {
	assert.True(t, SegmentFilter{}.IsZero())
	assert.False(t, SegmentFilter{Role: "worker"}.IsZero())
}
