package model

import (
	"strings"
	"time"
)

// Coupon discount types.
const (
	CouponTypePercentage         = "percentage"
	CouponTypeFixedAmount        = "fixed_amount"
	CouponTypeFreeTrialExtension = "free_trial_extension"
)

type Coupon struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Code  string `gorm:"size:50;uniqueIndex;not null" json:"code"` // stored upper-case
	Type  string `gorm:"size:30;not null" json:"type"`
	Value float64 `gorm:"type:decimal(10,2);not null" json:"value"`

	MinOrderAmount    float64  `gorm:"type:decimal(10,2);default:0" json:"min_order_amount"`
	MaxDiscountAmount *float64 `gorm:"type:decimal(10,2)" json:"max_discount_amount,omitempty"`

	// UsageLimit caps total redemptions, UsageLimitPerUser caps one user's.
	// Nil means uncapped. UsageCount is bumped by a conditional update inside
	// the apply transaction and must stay equal to the ledger row count.
	UsageLimit        *int `json:"usage_limit,omitempty"`
	UsageLimitPerUser *int `json:"usage_limit_per_user,omitempty"`
	UsageCount        int  `gorm:"default:0" json:"usage_count"`

	ValidFrom  time.Time `gorm:"not null;index" json:"valid_from"`
	ValidUntil time.Time `gorm:"not null;index" json:"valid_until"`

	// ApplicablePlans is a comma-separated list of plan IDs, empty = all plans.
	ApplicablePlans string `gorm:"size:500" json:"applicable_plans"`
	FirstTimeOnly   bool   `gorm:"default:false" json:"first_time_only"`

	// Coupons are soft-disabled, never deleted: the usage ledger keeps
	// referencing them.
	IsActive bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// PlanIDs returns the applicable plan list, nil when unrestricted.
func (c *Coupon) PlanIDs() []string {
	if c.ApplicablePlans == "" {
		return nil
	}
	parts := strings.Split(c.ApplicablePlans, ",")
	plans := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			plans = append(plans, p)
		}
	}
	return plans
}

// AppliesTo reports whether the coupon may be used for the given plan.
func (c *Coupon) AppliesTo(planID string) bool {
	plans := c.PlanIDs()
	if len(plans) == 0 {
		return true
	}
	for _, p := range plans {
		if p == planID {
			return true
		}
	}
	return false
}

// NormalizeCouponCode maps user input onto the stored representation.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
