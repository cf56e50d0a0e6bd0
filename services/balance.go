package services

import (
	"context"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

// BalanceService derives a user's point balance from the ledger. The balance
// is recomputed on every call; entries are append-only, so a strict fold over
// the ledger is always correct and cheap at this scale.
type BalanceService struct {
	store repository.Store
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store repository.Store) *BalanceService {
	return &BalanceService{store: store}
}

// Balance returns sum(earned) - sum(spent) for the user, 0 when the ledger
// is empty.
func (s *BalanceService) Balance(ctx context.Context, userID uint) (int, error) {
	return balanceFrom(ctx, s.store.Ledger(), userID)
}

// History returns the user's ledger entries, newest first.
func (s *BalanceService) History(ctx context.Context, userID uint) ([]models.LedgerEntry, error) {
	return s.store.Ledger().ListByUser(ctx, userID)
}

// balanceFrom computes the balance through the given ledger repository, so
// transactional callers can reuse it against a transaction scope.
func balanceFrom(ctx context.Context, ledger repository.LedgerRepository, userID uint) (int, error) {
	earned, err := ledger.SumByKind(ctx, userID, models.LedgerEarned)
	if err != nil {
		return 0, err
	}
	spent, err := ledger.SumByKind(ctx, userID, models.LedgerSpent)
	if err != nil {
		return 0, err
	}
	return int(earned - spent), nil
}
