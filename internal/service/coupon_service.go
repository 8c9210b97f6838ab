package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/woofadaar/server/config"
	"github.com/woofadaar/server/internal/cache"
	"github.com/woofadaar/server/internal/model"
	"github.com/woofadaar/server/internal/model/dto"
	"github.com/woofadaar/server/internal/repository"
)

var (
	ErrCouponExists       = errors.New("coupon code already exists")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrInvalidCouponValue = errors.New("percentage value must be between 0 and 100")
	ErrInvalidWindow      = errors.New("valid_until must not be before valid_from")
	ErrOrderAlreadyUsed   = errors.New("order_id already redeemed by another user")
)

// Display messages per rejection reason. Callers must not collapse these
// into one generic "invalid coupon" string.
var reasonMessages = map[string]string{
	dto.ReasonCouponNotFound:     "Coupon code not found",
	dto.ReasonCouponNotYetActive: "This coupon is not active yet",
	dto.ReasonCouponExpired:      "This coupon has expired",
	dto.ReasonBelowMinimumOrder:  "Order amount is below the coupon minimum",
	dto.ReasonPlanNotEligible:    "This coupon cannot be used with the selected plan",
	dto.ReasonGlobalLimitReached: "This coupon has been fully redeemed",
	dto.ReasonUserLimitReached:   "You have reached the usage limit for this coupon",
	dto.ReasonNotFirstTimeUser:   "This coupon is only for first-time customers",
}

type CouponService struct {
	db    *gorm.DB
	cache *cache.CouponCache // optional, nil disables caching
	cfg   *config.Config
}

func NewCouponService(db *gorm.DB, couponCache *cache.CouponCache, cfg *config.Config) *CouponService {
	return &CouponService{
		db:    db,
		cache: couponCache,
		cfg:   cfg,
	}
}

// repoSet binds the repositories to one *gorm.DB, which inside Apply is the
// transaction handle.
type repoSet struct {
	coupons       *repository.CouponRepository
	usages        *repository.UsageRepository
	orders        *repository.OrderRepository
	subscriptions *repository.SubscriptionRepository
}

func newRepoSet(db *gorm.DB) repoSet {
	return repoSet{
		coupons:       repository.NewCouponRepository(db),
		usages:        repository.NewUsageRepository(db),
		orders:        repository.NewOrderRepository(db),
		subscriptions: repository.NewSubscriptionRepository(db),
	}
}

// Validate checks a code against a user, order amount and optional plan.
// Read-only and idempotent: safe to call repeatedly from a checkout page.
func (s *CouponService) Validate(userID int64, req *dto.ValidateCouponRequest) (*dto.CouponValidationResult, error) {
	code := model.NormalizeCouponCode(req.Code)
	now := time.Now()

	coupon, err := s.getCoupon(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil || !coupon.IsActive {
		return rejection(dto.ReasonCouponNotFound), nil
	}

	repos := newRepoSet(s.db)
	result, err := s.runChecks(repos, coupon, userID, req.OrderAmount, req.PlanID, now)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	return successResult(coupon, req.OrderAmount), nil
}

// Apply re-validates and records one usage atomically. The limit checks and
// the ledger insert run in a single transaction; a failure leaves no trace.
func (s *CouponService) Apply(userID int64, req *dto.ApplyCouponRequest) (*dto.CouponApplicationResult, error) {
	// Replay: an order_id that already holds a usage row returns the
	// recorded outcome instead of redeeming again.
	if req.OrderID != nil {
		replay, err := s.lookupReplay(userID, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
	}

	var result *dto.CouponApplicationResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.applyWithinTx(tx, userID, req)
		return txErr
	})
	if err != nil {
		// A concurrent retry can win the order_id unique index between our
		// replay lookup and the insert; surface the recorded outcome.
		if req.OrderID != nil && isDuplicateKey(err) {
			replay, replayErr := s.lookupReplay(userID, *req.OrderID)
			if replayErr != nil {
				return nil, replayErr
			}
			if replay != nil {
				return replay, nil
			}
		}
		return nil, err
	}
	return result, nil
}

// applyWithinTx runs the full apply sequence on the given transaction.
// SubscriptionService reuses it so a purchase and its coupon redemption
// commit or roll back together.
func (s *CouponService) applyWithinTx(tx *gorm.DB, userID int64, req *dto.ApplyCouponRequest) (*dto.CouponApplicationResult, error) {
	code := model.NormalizeCouponCode(req.Code)
	now := time.Now()
	repos := newRepoSet(tx)

	coupon, err := repos.coupons.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return applicationRejection(dto.ReasonCouponNotFound), nil
		}
		return nil, err
	}
	if !coupon.IsActive {
		return applicationRejection(dto.ReasonCouponNotFound), nil
	}

	if rej, err := s.runChecks(repos, coupon, userID, req.OrderAmount, req.PlanID, now); err != nil {
		return nil, err
	} else if rej != nil {
		return &dto.CouponApplicationResult{CouponValidationResult: *rej}, nil
	}

	// Hard gate on the global cap: conditional increment, checked by rows
	// affected. Concurrent applies past the limit fail here regardless of
	// what the earlier count read saw.
	ok, err := repos.coupons.TryIncrementUsage(coupon.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return applicationRejection(dto.ReasonGlobalLimitReached), nil
	}

	success := successResult(coupon, req.OrderAmount)
	usage := &model.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         userID,
		OriginalAmount: req.OrderAmount,
		DiscountAmount: success.DiscountAmount,
		FinalAmount:    success.FinalAmount,
		OrderID:        req.OrderID,
		SubscriptionID: req.SubscriptionID,
	}
	if req.PlanID != "" {
		planID := req.PlanID
		usage.PlanID = &planID
	}
	if err := repos.usages.Create(usage); err != nil {
		return nil, err
	}

	return &dto.CouponApplicationResult{
		CouponValidationResult: *success,
		UsageID:                usage.ID,
	}, nil
}

// ListAvailable returns coupons the user could redeem right now. Plan and
// order amount narrow the list when given. No state is mutated.
func (s *CouponService) ListAvailable(userID int64, planID string, orderAmount float64) ([]dto.AvailableCoupon, error) {
	now := time.Now()
	repos := newRepoSet(s.db)

	coupons, err := repos.coupons.ListActive(now)
	if err != nil {
		return nil, err
	}

	couponIDs := make([]int64, 0, len(coupons))
	for _, c := range coupons {
		couponIDs = append(couponIDs, c.ID)
	}
	userCounts, err := repos.usages.CountsByUser(userID, couponIDs)
	if err != nil {
		return nil, err
	}

	firstTimeChecked := false
	firstTime := false

	available := make([]dto.AvailableCoupon, 0, len(coupons))
	for i := range coupons {
		c := &coupons[i]

		if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
			continue
		}
		if orderAmount > 0 && orderAmount < c.MinOrderAmount {
			continue
		}
		if planID != "" && !c.AppliesTo(planID) {
			continue
		}
		if c.UsageLimitPerUser != nil && userCounts[c.ID] >= int64(*c.UsageLimitPerUser) {
			continue
		}
		if c.FirstTimeOnly {
			if !firstTimeChecked {
				firstTime, err = s.isFirstTimeUser(repos, userID)
				if err != nil {
					return nil, err
				}
				firstTimeChecked = true
			}
			if !firstTime {
				continue
			}
		}

		entry := dto.AvailableCoupon{CouponInfo: *couponInfo(c)}
		if c.UsageLimitPerUser != nil {
			remaining := *c.UsageLimitPerUser - int(userCounts[c.ID])
			entry.RemainingUses = &remaining
		}
		available = append(available, entry)
	}

	return available, nil
}

// CreateCoupon registers a new code (admin operation).
func (s *CouponService) CreateCoupon(req *dto.CreateCouponRequest) (*dto.CouponInfo, error) {
	code := model.NormalizeCouponCode(req.Code)

	if req.Type == model.CouponTypePercentage && req.Value > 100 {
		return nil, ErrInvalidCouponValue
	}

	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, ErrInvalidWindow
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return nil, ErrInvalidWindow
	}
	if validUntil.Before(validFrom) {
		return nil, ErrInvalidWindow
	}

	repos := newRepoSet(s.db)
	exists, err := repos.coupons.ExistsByCode(code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCouponExists
	}

	coupon := &model.Coupon{
		Code:              code,
		Type:              req.Type,
		Value:             req.Value,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		UsageLimitPerUser: req.UsageLimitPerUser,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		ApplicablePlans:   strings.Join(req.ApplicablePlans, ","),
		FirstTimeOnly:     req.FirstTimeOnly,
		IsActive:          true,
	}
	if err := repos.coupons.Create(coupon); err != nil {
		return nil, err
	}

	s.invalidateCache(code)
	return couponInfo(coupon), nil
}

// SetCouponStatus soft-disables or re-enables a coupon.
func (s *CouponService) SetCouponStatus(id int64, isActive bool) error {
	repos := newRepoSet(s.db)
	coupon, err := repos.coupons.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	if err := repos.coupons.UpdateStatus(id, isActive); err != nil {
		return err
	}

	s.invalidateCache(coupon.Code)
	return nil
}

func (s *CouponService) ListCoupons(page, pageSize int) ([]model.Coupon, int64, error) {
	return newRepoSet(s.db).coupons.List(page, pageSize)
}

func (s *CouponService) ListUsages(couponID int64, page, pageSize int) ([]model.CouponUsage, int64, error) {
	repos := newRepoSet(s.db)
	if _, err := repos.coupons.GetByID(couponID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCouponNotFound
		}
		return nil, 0, err
	}
	return repos.usages.ListByCoupon(couponID, page, pageSize)
}

// runChecks walks the rejection sequence after the coupon is loaded:
// window, minimum order, plan, global limit, per-user limit, first-time.
// Returns a rejection result, or nil when every check passes.
func (s *CouponService) runChecks(repos repoSet, coupon *model.Coupon, userID int64, orderAmount float64, planID string, now time.Time) (*dto.CouponValidationResult, error) {
	// Window bounds are inclusive: a coupon is valid at exactly valid_until.
	if now.Before(coupon.ValidFrom) {
		return rejection(dto.ReasonCouponNotYetActive), nil
	}
	if now.After(coupon.ValidUntil) {
		return rejection(dto.ReasonCouponExpired), nil
	}

	if orderAmount < coupon.MinOrderAmount {
		return rejection(dto.ReasonBelowMinimumOrder), nil
	}

	if len(coupon.PlanIDs()) > 0 && !coupon.AppliesTo(planID) {
		return rejection(dto.ReasonPlanNotEligible), nil
	}

	if coupon.UsageLimit != nil {
		total, err := repos.usages.CountByCoupon(coupon.ID)
		if err != nil {
			return nil, err
		}
		if total >= int64(*coupon.UsageLimit) {
			return rejection(dto.ReasonGlobalLimitReached), nil
		}
	}

	if coupon.UsageLimitPerUser != nil {
		used, err := repos.usages.CountByCouponAndUser(coupon.ID, userID)
		if err != nil {
			return nil, err
		}
		if used >= int64(*coupon.UsageLimitPerUser) {
			return rejection(dto.ReasonUserLimitReached), nil
		}
	}

	if coupon.FirstTimeOnly {
		firstTime, err := s.isFirstTimeUser(repos, userID)
		if err != nil {
			return nil, err
		}
		if !firstTime {
			return rejection(dto.ReasonNotFirstTimeUser), nil
		}
	}

	return nil, nil
}

// isFirstTimeUser holds when the user has no completed order and never held
// a subscription.
func (s *CouponService) isFirstTimeUser(repos repoSet, userID int64) (bool, error) {
	orders, err := repos.orders.CountCompletedByUser(userID)
	if err != nil {
		return false, err
	}
	if orders > 0 {
		return false, nil
	}

	subs, err := repos.subscriptions.CountByUser(userID)
	if err != nil {
		return false, err
	}
	return subs == 0, nil
}

func (s *CouponService) lookupReplay(userID int64, orderID string) (*dto.CouponApplicationResult, error) {
	repos := newRepoSet(s.db)
	usage, err := repos.usages.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if usage.UserID != userID {
		return nil, ErrOrderAlreadyUsed
	}

	coupon, err := repos.coupons.GetByID(usage.CouponID)
	if err != nil {
		return nil, err
	}

	result := &dto.CouponApplicationResult{
		CouponValidationResult: dto.CouponValidationResult{
			Valid:          true,
			Message:        "Coupon already applied to this order",
			Coupon:         couponInfo(coupon),
			DiscountAmount: usage.DiscountAmount,
			FinalAmount:    usage.FinalAmount,
		},
		UsageID:  usage.ID,
		Replayed: true,
	}
	if coupon.Type == model.CouponTypeFreeTrialExtension {
		result.TrialExtensionDays = int(coupon.Value)
	}
	return result, nil
}

// getCoupon serves the validation read path, trying the cache first.
func (s *CouponService) getCoupon(code string) (*model.Coupon, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(context.Background(), code); err == nil && cached != nil {
			return cached, nil
		}
	}

	coupon, err := newRepoSet(s.db).coupons.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(context.Background(), coupon)
	}
	return coupon, nil
}

func (s *CouponService) invalidateCache(code string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(context.Background(), code)
	}
}

// computeDiscount applies the type-specific discount math with clamps.
func computeDiscount(coupon *model.Coupon, orderAmount float64) (discount float64, trialDays int) {
	switch coupon.Type {
	case model.CouponTypePercentage:
		discount = orderAmount * coupon.Value / 100
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case model.CouponTypeFixedAmount:
		discount = coupon.Value
		if discount > orderAmount {
			discount = orderAmount
		}
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case model.CouponTypeFreeTrialExtension:
		// No monetary discount: value is the number of extra trial days,
		// consumed by the subscription side.
		trialDays = int(coupon.Value)
	}
	return discount, trialDays
}

func successResult(coupon *model.Coupon, orderAmount float64) *dto.CouponValidationResult {
	discount, trialDays := computeDiscount(coupon, orderAmount)
	final := orderAmount - discount
	if final < 0 {
		final = 0
	}

	return &dto.CouponValidationResult{
		Valid:              true,
		Message:            "Coupon applied",
		Coupon:             couponInfo(coupon),
		DiscountAmount:     discount,
		FinalAmount:        final,
		TrialExtensionDays: trialDays,
	}
}

func rejection(reason string) *dto.CouponValidationResult {
	return &dto.CouponValidationResult{
		Valid:   false,
		Reason:  reason,
		Message: reasonMessages[reason],
	}
}

func applicationRejection(reason string) *dto.CouponApplicationResult {
	return &dto.CouponApplicationResult{CouponValidationResult: *rejection(reason)}
}

func couponInfo(coupon *model.Coupon) *dto.CouponInfo {
	return &dto.CouponInfo{
		ID:                coupon.ID,
		Code:              coupon.Code,
		Type:              coupon.Type,
		Value:             coupon.Value,
		MinOrderAmount:    coupon.MinOrderAmount,
		MaxDiscountAmount: coupon.MaxDiscountAmount,
		ValidFrom:         coupon.ValidFrom.Format(time.RFC3339),
		ValidUntil:        coupon.ValidUntil.Format(time.RFC3339),
		ApplicablePlans:   coupon.PlanIDs(),
		FirstTimeOnly:     coupon.FirstTimeOnly,
	}
}

// isDuplicateKey detects a unique-index violation surfaced by the driver.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
