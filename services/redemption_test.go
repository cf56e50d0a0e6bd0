package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository/repositorytest"
	"github.com/jihuadaka/checkin-server/services"
)

func TestRedeemRequiresSufficientBalance(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRedemptionService(store, newClock())
	balances := services.NewBalanceService(store)

	user := seedUser(t, store, "alice")
	reward := seedReward(t, store, user.ID, "一杯咖啡", 20)
	earn(t, store, user.ID, 15)

	_, err := svc.Redeem(ctx, reward.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrInsufficientBalance)

	// Nothing was written.
	balance, err := balances.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Topping up to 25 makes the same redemption succeed.
	earn(t, store, user.ID, 10)

	redemption, err := svc.Redeem(ctx, reward.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, redemption.PointsSpent)
	assert.Equal(t, models.RedemptionCompleted, redemption.Status)

	balance, err = balances.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, balance)

	history, err = svc.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, reward.ID, history[0].RewardID)
}

func TestRedeemExactBalanceSucceeds(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRedemptionService(store, newClock())
	balances := services.NewBalanceService(store)

	user := seedUser(t, store, "alice")
	reward := seedReward(t, store, user.ID, "看一部电影", 30)
	earn(t, store, user.ID, 30)

	_, err := svc.Redeem(ctx, reward.ID, user.ID)
	require.NoError(t, err)

	balance, err := balances.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestRedeemUnknownOrInactiveReward(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRedemptionService(store, newClock())

	user := seedUser(t, store, "alice")
	earn(t, store, user.ID, 100)

	_, err := svc.Redeem(ctx, 999, user.ID)
	assert.ErrorIs(t, err, services.ErrRewardNotFound)

	reward := seedReward(t, store, user.ID, "休息日", 10)
	reward.IsActive = false
	require.NoError(t, store.Rewards().Update(ctx, reward))

	_, err = svc.Redeem(ctx, reward.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrRewardNotFound)
}

func TestRedeemUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRedemptionService(store, newClock())

	owner := seedUser(t, store, "alice")
	reward := seedReward(t, store, owner.ID, "小礼物", 10)

	_, err := svc.Redeem(ctx, reward.ID, 999)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestConcurrentRedemptionsNeverOverspend(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRedemptionService(store, newClock())
	balances := services.NewBalanceService(store)

	user := seedUser(t, store, "alice")
	reward := seedReward(t, store, user.ID, "一杯咖啡", 20)
	earn(t, store, user.ID, 30)

	// Balance 30 affords exactly one 20-point redemption. However the
	// attempts interleave, only one may pass the balance check.
	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(ctx, reward.ID, user.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, services.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, succeeded)

	balance, err := balances.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedeemStampsRedemptionTime(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	clock := &fakeClock{now: time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)}
	svc := services.NewRedemptionService(store, clock)

	user := seedUser(t, store, "alice")
	reward := seedReward(t, store, user.ID, "甜点", 10)
	earn(t, store, user.ID, 10)

	redemption, err := svc.Redeem(ctx, reward.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), redemption.RedeemedAt)
}
