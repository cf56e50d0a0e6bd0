package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jihuadaka/checkin-server/models"
)

type rewardRepo struct {
	db *gorm.DB
}

func (r *rewardRepo) Create(ctx context.Context, reward *models.Reward) error {
	return translate(r.db.WithContext(ctx).Create(reward).Error)
}

func (r *rewardRepo) GetByID(ctx context.Context, id uint) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.WithContext(ctx).First(&reward, id).Error; err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}

func (r *rewardRepo) GetActive(ctx context.Context, id uint) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&reward).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}

func (r *rewardRepo) ListActiveByOwner(ctx context.Context, ownerID uint) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at DESC").
		Find(&rewards).Error
	if err != nil {
		return nil, translate(err)
	}
	return rewards, nil
}

func (r *rewardRepo) Update(ctx context.Context, reward *models.Reward) error {
	return translate(r.db.WithContext(ctx).Save(reward).Error)
}
