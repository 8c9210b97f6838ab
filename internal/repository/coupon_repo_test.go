package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woofadaar/server/internal/model"
	"github.com/woofadaar/server/internal/testutil"
)

func TestCouponRepository_GetByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	created := testutil.TestCoupon(t, db, testutil.WithCode("WOOF10"))

	found, err := repo.GetByCode("WOOF10")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "WOOF10", found.Code)
}

func TestCouponRepository_GetByCode_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	_, err := repo.GetByCode("MISSING")
	assert.Error(t, err)
}

func TestCouponRepository_DuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	testutil.TestCoupon(t, db, testutil.WithCode("DUP"))

	err := repo.Create(&model.Coupon{
		Code:       "DUP",
		Type:       model.CouponTypePercentage,
		Value:      5,
		ValidFrom:  time.Now(),
		ValidUntil: time.Now().Add(time.Hour),
		IsActive:   true,
	})
	assert.Error(t, err)
}

func TestCouponRepository_ListActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)
	now := time.Now()

	inWindow := testutil.TestCoupon(t, db)
	testutil.TestCoupon(t, db, testutil.WithWindow(now.Add(-48*time.Hour), now.Add(-24*time.Hour)))
	testutil.TestCoupon(t, db, testutil.WithWindow(now.Add(24*time.Hour), now.Add(48*time.Hour)))
	testutil.TestCoupon(t, db, testutil.WithInactive())

	active, err := repo.ListActive(now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, inWindow.ID, active[0].ID)
}

func TestCouponRepository_TryIncrementUsage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	coupon := testutil.TestCoupon(t, db, testutil.WithUsageLimit(2))

	ok, err := repo.TryIncrementUsage(coupon.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryIncrementUsage(coupon.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Cap reached: the conditional update must not fire.
	ok, err = repo.TryIncrementUsage(coupon.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.GetByID(coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.UsageCount)
}

func TestCouponRepository_TryIncrementUsage_Uncapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	coupon := testutil.TestCoupon(t, db)

	for i := 0; i < 5; i++ {
		ok, err := repo.TryIncrementUsage(coupon.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	found, err := repo.GetByID(coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.UsageCount)
}

func TestCouponRepository_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	coupon := testutil.TestCoupon(t, db)

	require.NoError(t, repo.UpdateStatus(coupon.ID, false))

	found, err := repo.GetByID(coupon.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestCouponRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCouponRepository(db)

	for i := 0; i < 5; i++ {
		testutil.TestCoupon(t, db)
	}

	coupons, total, err := repo.List(1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, coupons, 3)

	coupons, _, err = repo.List(2, 3)
	require.NoError(t, err)
	assert.Len(t, coupons, 2)
}
