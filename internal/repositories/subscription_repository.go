package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	CreatePlan(plan *models.SubscriptionPlan) error
	Create(subscription *models.Subscription) error
	FindByUser(userID string) (*models.Subscription, error)
	UpdateStatus(userID string, status models.SubscriptionStatus) error

	// Analytics methods
	SumActiveAmounts(ctx context.Context) (float64, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) CreatePlan(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *SubscriptionRepositoryImpl) Create(subscription *models.Subscription) error {
	return r.db.Create(subscription).Error
}

func (r *SubscriptionRepositoryImpl) FindByUser(userID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Preload("Plan").Where("user_id = ?", userID).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(userID string, status models.SubscriptionStatus) error {
	result := r.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// SumActiveAmounts totals the amounts of currently-active subscriptions.
// This is the MRR figure: it deliberately ignores any report date range.
func (r *SubscriptionRepositoryImpl) SumActiveAmounts(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
