package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/woofadaar/server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser creates a user row.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        fmt.Sprintf("test_%d@example.com", seq),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail sets the user email.
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithUsername sets the username.
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithAdmin marks the user as an administrator.
func WithAdmin() func(*model.User) {
	return func(u *model.User) {
		u.IsAdmin = true
	}
}

// TestCoupon creates an active percentage coupon valid for a day around now.
func TestCoupon(t *testing.T, db *gorm.DB, opts ...func(*model.Coupon)) *model.Coupon {
	t.Helper()

	now := time.Now()
	coupon := &model.Coupon{
		Code:       fmt.Sprintf("TEST%d", nextSeq()),
		Type:       model.CouponTypePercentage,
		Value:      10,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		IsActive:   true,
	}

	for _, opt := range opts {
		opt(coupon)
	}

	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("Failed to create test coupon: %v", err)
	}

	return coupon
}

// WithCode sets the coupon code.
func WithCode(code string) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.Code = code
	}
}

// WithType sets the coupon type and value.
func WithType(couponType string, value float64) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.Type = couponType
		c.Value = value
	}
}

// WithWindow sets the validity window.
func WithWindow(from, until time.Time) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.ValidFrom = from
		c.ValidUntil = until
	}
}

// WithMinOrder sets the minimum order amount.
func WithMinOrder(amount float64) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.MinOrderAmount = amount
	}
}

// WithMaxDiscount caps the discount.
func WithMaxDiscount(amount float64) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.MaxDiscountAmount = &amount
	}
}

// WithUsageLimit caps total redemptions.
func WithUsageLimit(limit int) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.UsageLimit = &limit
	}
}

// WithPerUserLimit caps per-user redemptions.
func WithPerUserLimit(limit int) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.UsageLimitPerUser = &limit
	}
}

// WithPlans restricts the coupon to the given plan IDs.
func WithPlans(plans string) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.ApplicablePlans = plans
	}
}

// WithFirstTimeOnly restricts the coupon to first-time users.
func WithFirstTimeOnly() func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.FirstTimeOnly = true
	}
}

// WithInactive soft-disables the coupon.
func WithInactive() func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.IsActive = false
	}
}

// TestOrder creates an order row.
func TestOrder(t *testing.T, db *gorm.DB, userID int64, status string, amount float64) *model.Order {
	t.Helper()

	order := &model.Order{
		UserID: userID,
		PlanID: "premium",
		Amount: amount,
		Status: status,
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return order
}

// TestSubscription creates an active subscription row.
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, plan string, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	sub := &model.Subscription{
		UserID:    userID,
		Plan:      plan,
		Amount:    499,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 1, 0),
		Status:    model.SubscriptionStatusActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithExpiry sets the subscription expiry.
func WithExpiry(expiresAt time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.ExpiresAt = expiresAt
	}
}

// WithSubStatus sets the subscription status.
func WithSubStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// TestUsage creates a ledger row directly.
func TestUsage(t *testing.T, db *gorm.DB, couponID, userID int64, opts ...func(*model.CouponUsage)) *model.CouponUsage {
	t.Helper()

	usage := &model.CouponUsage{
		CouponID:       couponID,
		UserID:         userID,
		OriginalAmount: 100,
		DiscountAmount: 10,
		FinalAmount:    90,
	}

	for _, opt := range opts {
		opt(usage)
	}

	if err := db.Create(usage).Error; err != nil {
		t.Fatalf("Failed to create test usage: %v", err)
	}

	return usage
}

// WithOrderRef sets the usage order reference.
func WithOrderRef(orderID string) func(*model.CouponUsage) {
	return func(u *model.CouponUsage) {
		u.OrderID = &orderID
	}
}
