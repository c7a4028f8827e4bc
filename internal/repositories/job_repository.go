package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrJobNotFound = errors.New("job posting not found")

type JobRepository interface {
	Create(job *models.JobPosting) error
	FindByID(id string) (*models.JobPosting, error)

	// Analytics methods
	FindActivityBetween(ctx context.Context, gte, lte time.Time, limit int) ([]ActivityRecord, error)
	FindOwnerIDsIn(ctx context.Context, userIDs []string) ([]string, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.JobPosting) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.JobPosting, error) {
	var job models.JobPosting
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindActivityBetween projects job postings created in the window into
// normalized activity rows, owner as actor.
func (r *JobRepositoryImpl) FindActivityBetween(ctx context.Context, gte, lte time.Time, limit int) ([]ActivityRecord, error) {
	var records []ActivityRecord
	err := r.db.WithContext(ctx).Model(&models.JobPosting{}).
		Select("owner_id AS actor_id, created_at AS occurred_at").
		Where("created_at BETWEEN ? AND ?", gte, lte).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// FindOwnerIDsIn returns the distinct subset of userIDs that own at least
// one job posting, regardless of when it was created.
func (r *JobRepositoryImpl) FindOwnerIDsIn(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.JobPosting{}).
		Distinct("owner_id").
		Where("owner_id IN ?", userIDs).
		Pluck("owner_id", &ids).Error
	return ids, err
}
