package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/woofadaar/server/internal/model"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(coupon *model.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *CouponRepository) GetByID(id int64) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("id = ?", id).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetByCode looks a coupon up by its normalized (upper-case) code.
func (r *CouponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("code = ?", code).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *CouponRepository) ExistsByCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Coupon{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// ListActive returns active coupons whose validity window contains now.
// Both bounds are inclusive.
func (r *CouponRepository) ListActive(now time.Time) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.
		Where("is_active = ? AND valid_from <= ? AND valid_until >= ?", true, now, now).
		Order("valid_until ASC").
		Find(&coupons).Error
	return coupons, err
}

func (r *CouponRepository) List(page, pageSize int) ([]model.Coupon, int64, error) {
	var total int64
	if err := r.db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var coupons []model.Coupon
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&coupons).Error
	return coupons, total, err
}

func (r *CouponRepository) UpdateStatus(id int64, isActive bool) error {
	return r.db.Model(&model.Coupon{}).Where("id = ?", id).
		Update("is_active", isActive).Error
}

// TryIncrementUsage bumps usage_count only while under usage_limit. The
// conditional update is the atomic gate that keeps concurrent applies from
// overshooting a hard cap; the caller runs it inside the apply transaction
// and checks the returned flag.
func (r *CouponRepository) TryIncrementUsage(id int64) (bool, error) {
	result := r.db.Model(&model.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
