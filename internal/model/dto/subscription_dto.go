package dto

// PurchaseSubscriptionRequest is the purchase payload.
type PurchaseSubscriptionRequest struct {
	Plan       string `json:"plan" binding:"required,max=50"`
	CouponCode string `json:"coupon_code,omitempty" binding:"omitempty,max=50"`
}

// SubscriptionInfo is the subscription shape returned to clients.
type SubscriptionInfo struct {
	ID            int64   `json:"id"`
	Plan          string  `json:"plan"`
	Amount        float64 `json:"amount"`
	StartedAt     string  `json:"started_at"`
	ExpiresAt     string  `json:"expires_at"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

// PurchaseSubscriptionResponse reports the charge breakdown and the
// subscription that was opened.
type PurchaseSubscriptionResponse struct {
	Subscription   *SubscriptionInfo `json:"subscription"`
	OriginalAmount float64           `json:"original_amount"`
	DiscountAmount float64           `json:"discount_amount"`
	FinalAmount    float64           `json:"final_amount"`
	CouponApplied  bool              `json:"coupon_applied"`
}
