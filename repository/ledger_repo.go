package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jihuadaka/checkin-server/models"
)

type ledgerRepo struct {
	db *gorm.DB
}

func (r *ledgerRepo) Append(ctx context.Context, entry *models.LedgerEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (r *ledgerRepo) SumByKind(ctx context.Context, userID uint, kind models.LedgerKind) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Select("COALESCE(SUM(points),0)").
		Scan(&sum).Error
	if err != nil {
		return 0, translate(err)
	}
	return sum, nil
}
