package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(application *models.Application) error
	FindByID(id string) (*models.Application, error)

	// Analytics methods
	FindActivityBetween(ctx context.Context, gte, lte time.Time, limit int) ([]ActivityRecord, error)
	FindApplicantIDsIn(ctx context.Context, userIDs []string) ([]string, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(application *models.Application) error {
	return r.db.Create(application).Error
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var application models.Application
	err := r.db.First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindActivityBetween(ctx context.Context, gte, lte time.Time, limit int) ([]ActivityRecord, error) {
	var records []ActivityRecord
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("applicant_id AS actor_id, created_at AS occurred_at").
		Where("created_at BETWEEN ? AND ?", gte, lte).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// FindApplicantIDsIn returns the distinct subset of userIDs that submitted
// at least one application, regardless of when.
func (r *ApplicationRepositoryImpl) FindApplicantIDsIn(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Distinct("applicant_id").
		Where("applicant_id IN ?", userIDs).
		Pluck("applicant_id", &ids).Error
	return ids, err
}
