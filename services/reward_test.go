package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihuadaka/checkin-server/repository/repositorytest"
	"github.com/jihuadaka/checkin-server/services"
)

func TestCreateRewardValidation(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRewardService(store, passthrough)

	user := seedUser(t, store, "alice")

	_, err := svc.Create(ctx, user.ID, services.RewardInput{Title: " ", PointsRequired: 10})
	assert.True(t, services.IsValidation(err), "blank title must be rejected, got %v", err)

	_, err = svc.Create(ctx, user.ID, services.RewardInput{Title: "咖啡", PointsRequired: 0})
	assert.True(t, services.IsValidation(err), "non-positive cost must be rejected, got %v", err)

	reward, err := svc.Create(ctx, user.ID, services.RewardInput{Title: "咖啡", PointsRequired: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, reward.PointsRequired)
	assert.True(t, reward.IsActive)
}

func TestRewardMutationIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRewardService(store, passthrough)

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	reward := seedReward(t, store, alice.ID, "咖啡", 20)

	_, err := svc.Update(ctx, reward.ID, bob.ID, services.RewardInput{Title: "x", PointsRequired: 1})
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = svc.SoftDelete(ctx, reward.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestSoftDeleteRewardKeepsRedemptions(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRewardService(store, passthrough)
	redemptions := services.NewRedemptionService(store, newClock())

	user := seedUser(t, store, "alice")
	reward := seedReward(t, store, user.ID, "咖啡", 20)
	earn(t, store, user.ID, 20)

	_, err := redemptions.Redeem(ctx, reward.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, reward.ID, user.ID))

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = redemptions.Redeem(ctx, reward.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrRewardNotFound)

	history, err := redemptions.History(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpdateRewardReplacesFields(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.New()
	svc := services.NewRewardService(store, passthrough)

	user := seedUser(t, store, "alice")
	reward := seedReward(t, store, user.ID, "咖啡", 20)

	updated, err := svc.Update(ctx, reward.ID, user.ID, services.RewardInput{
		Title:          "精品咖啡",
		Description:    "周末限定",
		PointsRequired: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "精品咖啡", updated.Title)
	assert.Equal(t, 30, updated.PointsRequired)
}
