package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrContentReportNotFound = errors.New("content report not found")

type ContentReportRepository interface {
	Create(report *models.ContentReport) error
	FindByID(id string) (*models.ContentReport, error)
	Resolve(id string, status models.ReportStatus, resolverID string, resolvedAt time.Time) error

	// Analytics methods
	CountPending(ctx context.Context) (int64, error)
	CountPendingAsOf(ctx context.Context, at time.Time) (int64, error)
	FindResolvedBetween(ctx context.Context, gte, lte time.Time) ([]models.ContentReport, error)
}

type ContentReportRepositoryImpl struct {
	db *gorm.DB
}

func NewContentReportRepository(db *gorm.DB) ContentReportRepository {
	return &ContentReportRepositoryImpl{db: db}
}

func (r *ContentReportRepositoryImpl) Create(report *models.ContentReport) error {
	return r.db.Create(report).Error
}

func (r *ContentReportRepositoryImpl) FindByID(id string) (*models.ContentReport, error) {
	var report models.ContentReport
	err := r.db.First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ContentReportRepositoryImpl) Resolve(id string, status models.ReportStatus, resolverID string, resolvedAt time.Time) error {
	result := r.db.Model(&models.ContentReport{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"resolver_id": resolverID,
		"resolved_at": resolvedAt,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContentReportNotFound
	}
	return nil
}

func (r *ContentReportRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContentReport{}).
		Where("status = ?", models.ReportStatusPending).
		Count(&count).Error
	return count, err
}

func (r *ContentReportRepositoryImpl) CountPendingAsOf(ctx context.Context, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContentReport{}).
		Where("created_at <= ?", at).
		Where("resolved_at IS NULL OR resolved_at > ?", at).
		Count(&count).Error
	return count, err
}

func (r *ContentReportRepositoryImpl) FindResolvedBetween(ctx context.Context, gte, lte time.Time) ([]models.ContentReport, error) {
	var reports []models.ContentReport
	err := r.db.WithContext(ctx).
		Where("resolved_at IS NOT NULL").
		Where("resolved_at BETWEEN ? AND ?", gte, lte).
		Find(&reports).Error
	return reports, err
}
