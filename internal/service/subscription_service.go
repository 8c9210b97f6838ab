package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woofadaar/server/config"
	"github.com/woofadaar/server/internal/model"
	"github.com/woofadaar/server/internal/model/dto"
)

var (
	ErrUnknownPlan          = errors.New("unknown subscription plan")
	ErrNoActiveSubscription = errors.New("no active subscription")
	// ErrCouponRejected wraps the rejection message of an invalid coupon
	// supplied with a purchase; the purchase does not go through.
	ErrCouponRejected = errors.New("coupon rejected")
)

type SubscriptionService struct {
	db      *gorm.DB
	coupons *CouponService
	cfg     *config.Config
}

func NewSubscriptionService(db *gorm.DB, coupons *CouponService, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{
		db:      db,
		coupons: coupons,
		cfg:     cfg,
	}
}

// Purchase opens a subscription for the given plan, redeeming an optional
// coupon. The order, the redemption and the subscription commit together:
// a rejected coupon rolls the whole purchase back.
func (s *SubscriptionService) Purchase(userID int64, req *dto.PurchaseSubscriptionRequest) (*dto.PurchaseSubscriptionResponse, error) {
	plan, ok := s.cfg.Plans[req.Plan]
	if !ok {
		return nil, ErrUnknownPlan
	}

	var resp *dto.PurchaseSubscriptionResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repos := newRepoSet(tx)
		now := time.Now()

		order := &model.Order{
			UserID: userID,
			PlanID: req.Plan,
			Amount: plan.Price,
			Status: model.OrderStatusPending,
		}
		if err := repos.orders.Create(order); err != nil {
			return err
		}

		finalAmount := plan.Price
		discountAmount := 0.0
		trialDays := 0
		couponApplied := false

		if req.CouponCode != "" {
			orderRef := fmt.Sprintf("sub-%d-%s", order.ID, uuid.NewString())
			applyReq := &dto.ApplyCouponRequest{
				Code:        req.CouponCode,
				OrderAmount: plan.Price,
				PlanID:      req.Plan,
				OrderID:     &orderRef,
			}
			result, err := s.coupons.applyWithinTx(tx, userID, applyReq)
			if err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("%w: %s", ErrCouponRejected, result.Message)
			}
			finalAmount = result.FinalAmount
			discountAmount = result.DiscountAmount
			trialDays = result.TrialExtensionDays
			couponApplied = true
		}

		expiresAt := now.AddDate(0, 0, plan.DurationDays+plan.TrialDays+trialDays)
		sub := &model.Subscription{
			UserID:        userID,
			Plan:          req.Plan,
			Amount:        finalAmount,
			StartedAt:     now,
			ExpiresAt:     expiresAt,
			Status:        model.SubscriptionStatusActive,
			TransactionID: uuid.NewString(),
		}
		if err := repos.subscriptions.Create(sub); err != nil {
			return err
		}

		order.Status = model.OrderStatusCompleted
		order.Amount = finalAmount
		if err := tx.Model(order).Updates(map[string]interface{}{
			"status": model.OrderStatusCompleted,
			"amount": finalAmount,
		}).Error; err != nil {
			return err
		}

		resp = &dto.PurchaseSubscriptionResponse{
			Subscription:   buildSubscriptionInfo(sub),
			OriginalAmount: plan.Price,
			DiscountAmount: discountAmount,
			FinalAmount:    finalAmount,
			CouponApplied:  couponApplied,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetCurrent returns the user's active subscription.
func (s *SubscriptionService) GetCurrent(userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := newRepoSet(s.db).subscriptions.GetActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return buildSubscriptionInfo(sub), nil
}

func buildSubscriptionInfo(sub *model.Subscription) *dto.SubscriptionInfo {
	return &dto.SubscriptionInfo{
		ID:            sub.ID,
		Plan:          sub.Plan,
		Amount:        sub.Amount,
		StartedAt:     sub.StartedAt.Format(time.RFC3339),
		ExpiresAt:     sub.ExpiresAt.Format(time.RFC3339),
		Status:        sub.Status,
		TransactionID: sub.TransactionID,
	}
}
