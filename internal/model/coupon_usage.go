package model

import (
	"time"
)

// CouponUsage is the append-only redemption ledger: one row per successful
// application, created inside the apply transaction and never mutated.
type CouponUsage struct {
	ID       int64 `gorm:"primaryKey" json:"id"`
	CouponID int64 `gorm:"not null;index" json:"coupon_id"`
	UserID   int64 `gorm:"not null;index" json:"user_id"`

	OriginalAmount float64 `gorm:"type:decimal(10,2);not null" json:"original_amount"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);not null" json:"discount_amount"`
	FinalAmount    float64 `gorm:"type:decimal(10,2);not null" json:"final_amount"`

	// OrderID doubles as the caller's de-duplication key: the unique index
	// makes a retried apply for the same order return the recorded outcome
	// instead of redeeming twice.
	OrderID        *string `gorm:"size:100;uniqueIndex" json:"order_id,omitempty"`
	SubscriptionID *int64  `gorm:"index" json:"subscription_id,omitempty"`
	PlanID         *string `gorm:"size:50" json:"plan_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (CouponUsage) TableName() string {
	return "coupon_usages"
}
