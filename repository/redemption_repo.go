package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jihuadaka/checkin-server/models"
)

type redemptionRepo struct {
	db *gorm.DB
}

func (r *redemptionRepo) Create(ctx context.Context, redemption *models.Redemption) error {
	return translate(r.db.WithContext(ctx).Create(redemption).Error)
}

func (r *redemptionRepo) ListByUser(ctx context.Context, userID uint) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, translate(err)
	}
	return redemptions, nil
}
