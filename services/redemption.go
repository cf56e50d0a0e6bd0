package services

import (
	"context"
	"errors"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

// RedemptionService exchanges accumulated balance for rewards.
type RedemptionService struct {
	store repository.Store
	clock Clock
}

// NewRedemptionService creates a RedemptionService.
func NewRedemptionService(store repository.Store, clock Clock) *RedemptionService {
	return &RedemptionService{store: store, clock: clock}
}

// Redeem verifies the user can afford the reward and records the redemption
// together with its spent ledger entry. The balance check and both writes
// run in one transaction that first locks the user row, so two concurrent
// redemptions for the same user are serialized and can never both pass the
// check against the same stale balance.
func (s *RedemptionService) Redeem(ctx context.Context, rewardID, userID uint) (*models.Redemption, error) {
	reward, err := s.store.Rewards().GetActive(ctx, rewardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}

	redemption := &models.Redemption{
		RewardID:    rewardID,
		UserID:      userID,
		PointsSpent: reward.PointsRequired,
		Status:      models.RedemptionCompleted,
		RedeemedAt:  s.clock.Now(),
	}

	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().LockByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		balance, err := balanceFrom(ctx, tx.Ledger(), userID)
		if err != nil {
			return err
		}
		if balance < reward.PointsRequired {
			return ErrInsufficientBalance
		}

		if err := tx.Redemptions().Create(ctx, redemption); err != nil {
			return err
		}
		return tx.Ledger().Append(ctx, &models.LedgerEntry{
			UserID:      userID,
			Points:      reward.PointsRequired,
			Kind:        models.LedgerSpent,
			Description: "兑换奖励: " + reward.Title,
		})
	})
	if err != nil {
		return nil, err
	}

	return redemption, nil
}

// History returns the user's redemption records, newest first.
func (s *RedemptionService) History(ctx context.Context, userID uint) ([]models.Redemption, error) {
	return s.store.Redemptions().ListByUser(ctx, userID)
}
