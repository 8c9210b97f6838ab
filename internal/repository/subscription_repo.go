package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/woofadaar/server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetActiveByUser returns the user's current active subscription, newest first.
func (r *SubscriptionRepository) GetActiveByUser(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.
		Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		Order("expires_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountByUser counts every subscription the user ever held, for the
// first-time-user check.
func (r *SubscriptionRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// UpdateExpiry sets a new expiry timestamp computed by the caller.
func (r *SubscriptionRepository) UpdateExpiry(id int64, expiresAt time.Time) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}

// ListDueForExpiry returns active subscriptions whose expiry has passed.
func (r *SubscriptionRepository) ListDueForExpiry(now time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.
		Where("status = ? AND expires_at < ?", model.SubscriptionStatusActive, now).
		Find(&subs).Error
	return subs, err
}

// MarkExpired flips due subscriptions to expired and reports how many changed.
func (r *SubscriptionRepository) MarkExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("status = ? AND expires_at < ?", model.SubscriptionStatusActive, now).
		Update("status", model.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
