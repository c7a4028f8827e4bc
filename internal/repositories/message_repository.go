package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *models.Message) error
	FindByID(id string) (*models.Message, error)

	// Analytics methods
	FindActivityBetween(ctx context.Context, gte, lte time.Time, limit int) ([]ActivityRecord, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(id string) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepositoryImpl) FindActivityBetween(ctx context.Context, gte, lte time.Time, limit int) ([]ActivityRecord, error) {
	var records []ActivityRecord
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id AS actor_id, created_at AS occurred_at").
		Where("created_at BETWEEN ? AND ?", gte, lte).
		Limit(limit).
		Find(&records).Error
	return records, err
}
