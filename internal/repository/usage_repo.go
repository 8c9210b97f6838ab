package repository

import (
	"gorm.io/gorm"

	"github.com/woofadaar/server/internal/model"
)

// UsageRepository reads and appends the redemption ledger. Rows are never
// updated or deleted.
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Create(usage *model.CouponUsage) error {
	return r.db.Create(usage).Error
}

func (r *UsageRepository) CountByCoupon(couponID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.CouponUsage{}).
		Where("coupon_id = ?", couponID).Count(&count).Error
	return count, err
}

func (r *UsageRepository) CountByCouponAndUser(couponID, userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).Count(&count).Error
	return count, err
}

// CountsByUser returns the user's redemption count per coupon, for the
// available-coupons listing.
func (r *UsageRepository) CountsByUser(userID int64, couponIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	if len(couponIDs) == 0 {
		return counts, nil
	}

	type row struct {
		CouponID int64
		Count    int64
	}
	var rows []row
	err := r.db.Model(&model.CouponUsage{}).
		Select("coupon_id, COUNT(*) as count").
		Where("user_id = ? AND coupon_id IN ?", userID, couponIDs).
		Group("coupon_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.CouponID] = r.Count
	}
	return counts, nil
}

func (r *UsageRepository) GetByOrderID(orderID string) (*model.CouponUsage, error) {
	var usage model.CouponUsage
	err := r.db.Where("order_id = ?", orderID).First(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *UsageRepository) ListByCoupon(couponID int64, page, pageSize int) ([]model.CouponUsage, int64, error) {
	var total int64
	if err := r.db.Model(&model.CouponUsage{}).
		Where("coupon_id = ?", couponID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var usages []model.CouponUsage
	err := r.db.
		Where("coupon_id = ?", couponID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&usages).Error
	return usages, total, err
}
