package model

import (
	"time"
)

// Subscription statuses.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

type Subscription struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	Plan          string    `gorm:"size:50;not null" json:"plan"`
	Amount        float64   `gorm:"type:decimal(10,2)" json:"amount"`
	StartedAt     time.Time `gorm:"not null" json:"started_at"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	Status        string    `gorm:"size:20;default:active;index" json:"status"`
	TransactionID string    `gorm:"size:100" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
