package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrCertificationNotFound = errors.New("certification not found")

type CertificationRepository interface {
	Create(certification *models.Certification) error
	FindByID(id string) (*models.Certification, error)
	Review(id string, status models.CertificationStatus, reviewerID string, reviewedAt time.Time) error

	// Analytics methods
	CountPending(ctx context.Context) (int64, error)
	CountPendingAsOf(ctx context.Context, at time.Time) (int64, error)
	FindReviewedBetween(ctx context.Context, gte, lte time.Time) ([]models.Certification, error)
}

type CertificationRepositoryImpl struct {
	db *gorm.DB
}

func NewCertificationRepository(db *gorm.DB) CertificationRepository {
	return &CertificationRepositoryImpl{db: db}
}

func (r *CertificationRepositoryImpl) Create(certification *models.Certification) error {
	return r.db.Create(certification).Error
}

func (r *CertificationRepositoryImpl) FindByID(id string) (*models.Certification, error) {
	var certification models.Certification
	err := r.db.First(&certification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificationNotFound
		}
		return nil, err
	}
	return &certification, nil
}

func (r *CertificationRepositoryImpl) Review(id string, status models.CertificationStatus, reviewerID string, reviewedAt time.Time) error {
	result := r.db.Model(&models.Certification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"reviewer_id": reviewerID,
		"reviewed_at": reviewedAt,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCertificationNotFound
	}
	return nil
}

func (r *CertificationRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Certification{}).
		Where("status = ?", models.CertificationStatusPending).
		Count(&count).Error
	return count, err
}

// CountPendingAsOf reconstructs the pending queue depth at a past instant:
// submitted on or before `at` and not yet reviewed at that moment.
func (r *CertificationRepositoryImpl) CountPendingAsOf(ctx context.Context, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Certification{}).
		Where("created_at <= ?", at).
		Where("reviewed_at IS NULL OR reviewed_at > ?", at).
		Count(&count).Error
	return count, err
}

func (r *CertificationRepositoryImpl) FindReviewedBetween(ctx context.Context, gte, lte time.Time) ([]models.Certification, error) {
	var certifications []models.Certification
	err := r.db.WithContext(ctx).
		Where("reviewed_at IS NOT NULL").
		Where("reviewed_at BETWEEN ? AND ?", gte, lte).
		Find(&certifications).Error
	return certifications, err
}
