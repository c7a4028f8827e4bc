package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradelink_backend/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	Update(profile *models.Profile) error

	// Analytics methods
	FindUserIDsCreatedBetween(ctx context.Context, gte, lte time.Time, segment SegmentFilter) ([]string, error)
	FilterUserIDsBySegment(ctx context.Context, userIDs []string, segment SegmentFilter) ([]string, error)
	FindCompleteProfileUserIDs(ctx context.Context, userIDs []string) ([]string, error)
	CountCreatedBetweenByTier(ctx context.Context, gte, lte time.Time, tier models.SubscriptionTier) (int64, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(profile *models.Profile) error {
	result := r.db.Model(profile).Updates(map[string]interface{}{
		"name":          profile.Name,
		"trade":         profile.Trade,
		"location":      profile.Location,
		"employer_type": profile.EmployerType,
		"bio":           profile.Bio,
		"avatar_url":    profile.AvatarURL,
		"updated_at":    time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// FindUserIDsCreatedBetween returns the user ids of profiles created within
// the inclusive window, narrowed by the segment.
func (r *ProfileRepositoryImpl) FindUserIDsCreatedBetween(ctx context.Context, gte, lte time.Time, segment SegmentFilter) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("created_at BETWEEN ? AND ?", gte, lte).
		Scopes(segment.Scope()).
		Pluck("user_id", &ids).Error
	return ids, err
}

// FilterUserIDsBySegment re-verifies that each id belongs to the requested
// segment. Ids without a profile row drop out even with an empty segment.
func (r *ProfileRepositoryImpl) FilterUserIDsBySegment(ctx context.Context, userIDs []string, segment SegmentFilter) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id IN ?", userIDs).
		Scopes(segment.Scope()).
		Pluck("user_id", &ids).Error
	return ids, err
}

// FindCompleteProfileUserIDs returns the subset of userIDs whose profile
// has name, trade and location all filled in.
func (r *ProfileRepositoryImpl) FindCompleteProfileUserIDs(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id IN ?", userIDs).
		Where("name <> '' AND trade <> '' AND location <> ''").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ProfileRepositoryImpl) CountCreatedBetweenByTier(ctx context.Context, gte, lte time.Time, tier models.SubscriptionTier) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("created_at BETWEEN ? AND ?", gte, lte).
		Where("subscription_status = ?", tier).
		Count(&count).Error
	return count, err
}
