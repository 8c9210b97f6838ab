package dto

// Typed rejection reasons for coupon validation. Rejections are business
// outcomes returned as data, never errors; each maps to a distinct
// user-facing message so checkout can explain why a code was refused.
const (
	ReasonCouponNotFound     = "coupon_not_found"
	ReasonCouponNotYetActive = "coupon_not_yet_active"
	ReasonCouponExpired      = "coupon_expired"
	ReasonBelowMinimumOrder  = "below_minimum_order"
	ReasonPlanNotEligible    = "plan_not_eligible"
	ReasonGlobalLimitReached = "global_limit_reached"
	ReasonUserLimitReached   = "user_limit_reached"
	ReasonNotFirstTimeUser   = "not_first_time_user"
)

// ValidateCouponRequest is the validate payload.
type ValidateCouponRequest struct {
	Code        string  `json:"code" binding:"required,max=50"`
	OrderAmount float64 `json:"order_amount" binding:"required,gt=0"`
	PlanID      string  `json:"plan_id,omitempty" binding:"omitempty,max=50"`
}

// ApplyCouponRequest is the apply payload. OrderID, when supplied, acts as
// the caller's de-duplication key for retries.
type ApplyCouponRequest struct {
	Code           string  `json:"code" binding:"required,max=50"`
	OrderAmount    float64 `json:"order_amount" binding:"required,gt=0"`
	PlanID         string  `json:"plan_id,omitempty" binding:"omitempty,max=50"`
	OrderID        *string `json:"order_id,omitempty" binding:"omitempty,max=100"`
	SubscriptionID *int64  `json:"subscription_id,omitempty"`
}

// CouponInfo is the coupon shape returned to clients.
type CouponInfo struct {
	ID                int64    `json:"id"`
	Code              string   `json:"code"`
	Type              string   `json:"type"`
	Value             float64  `json:"value"`
	MinOrderAmount    float64  `json:"min_order_amount"`
	MaxDiscountAmount *float64 `json:"max_discount_amount,omitempty"`
	ValidFrom         string   `json:"valid_from"`
	ValidUntil        string   `json:"valid_until"`
	ApplicablePlans   []string `json:"applicable_plans,omitempty"`
	FirstTimeOnly     bool     `json:"first_time_only"`
}

// CouponValidationResult is returned by validate and embedded in apply.
// Valid=false carries Reason plus a display Message and no amounts.
type CouponValidationResult struct {
	Valid              bool        `json:"valid"`
	Reason             string      `json:"reason,omitempty"`
	Message            string      `json:"message"`
	Coupon             *CouponInfo `json:"coupon,omitempty"`
	DiscountAmount     float64     `json:"discount_amount"`
	FinalAmount        float64     `json:"final_amount"`
	TrialExtensionDays int         `json:"trial_extension_days,omitempty"`
}

// CouponApplicationResult is returned by apply. Replayed is set when the
// order_id had already been redeemed and the recorded outcome is returned.
type CouponApplicationResult struct {
	CouponValidationResult
	UsageID  int64 `json:"usage_id,omitempty"`
	Replayed bool  `json:"replayed,omitempty"`
}

// AvailableCoupon is one entry of the available-coupons listing.
type AvailableCoupon struct {
	CouponInfo
	RemainingUses *int `json:"remaining_uses,omitempty"`
}

// CreateCouponRequest is the admin create payload.
type CreateCouponRequest struct {
	Code              string   `json:"code" binding:"required,min=3,max=50"`
	Type              string   `json:"type" binding:"required,oneof=percentage fixed_amount free_trial_extension"`
	Value             float64  `json:"value" binding:"required,gt=0"`
	MinOrderAmount    float64  `json:"min_order_amount" binding:"omitempty,gte=0"`
	MaxDiscountAmount *float64 `json:"max_discount_amount,omitempty" binding:"omitempty,gt=0"`
	UsageLimit        *int     `json:"usage_limit,omitempty" binding:"omitempty,gt=0"`
	UsageLimitPerUser *int     `json:"usage_limit_per_user,omitempty" binding:"omitempty,gt=0"`
	ValidFrom         string   `json:"valid_from" binding:"required"`
	ValidUntil        string   `json:"valid_until" binding:"required"`
	ApplicablePlans   []string `json:"applicable_plans,omitempty"`
	FirstTimeOnly     bool     `json:"first_time_only"`
}

// UpdateCouponStatusRequest toggles soft-disable.
type UpdateCouponStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
