package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woofadaar/server/internal/model"
	"github.com/woofadaar/server/internal/testutil"
)

func TestSubscriptionRepository_GetActiveByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)

	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID, "premium",
		testutil.WithSubStatus(model.SubscriptionStatusExpired))
	current := testutil.TestSubscription(t, db, user.ID, "premium")

	found, err := repo.GetActiveByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, current.ID, found.ID)
}

func TestSubscriptionRepository_GetActiveByUser_None(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)

	user := testutil.TestUser(t, db)

	_, err := repo.GetActiveByUser(user.ID)
	assert.Error(t, err)
}

func TestSubscriptionRepository_CountByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)

	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	testutil.TestSubscription(t, db, user.ID, "premium")
	testutil.TestSubscription(t, db, user.ID, "premium",
		testutil.WithSubStatus(model.SubscriptionStatusCancelled))

	count, err := repo.CountByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByUser(other.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubscriptionRepository_MarkExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	now := time.Now()

	user := testutil.TestUser(t, db)
	due := testutil.TestSubscription(t, db, user.ID, "premium",
		testutil.WithExpiry(now.Add(-time.Hour)))
	ongoing := testutil.TestSubscription(t, db, user.ID, "premium",
		testutil.WithExpiry(now.Add(time.Hour)))

	listed, err := repo.ListDueForExpiry(now)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, due.ID, listed[0].ID)

	marked, err := repo.MarkExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	expired, err := repo.GetByID(due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusExpired, expired.Status)

	stillActive, err := repo.GetByID(ongoing.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, stillActive.Status)
}

func TestOrderRepository_CountCompletedByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)

	user := testutil.TestUser(t, db)
	testutil.TestOrder(t, db, user.ID, model.OrderStatusCompleted, 499)
	testutil.TestOrder(t, db, user.ID, model.OrderStatusPending, 499)
	testutil.TestOrder(t, db, user.ID, model.OrderStatusCancelled, 499)

	count, err := repo.CountCompletedByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
