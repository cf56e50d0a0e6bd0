package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jihuadaka/checkin-server/models"
)

type checkinRepo struct {
	db *gorm.DB
}

func (r *checkinRepo) Create(ctx context.Context, checkin *models.Checkin) error {
	return translate(r.db.WithContext(ctx).Create(checkin).Error)
}

func (r *checkinRepo) Exists(ctx context.Context, taskID, userID uint, day string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Checkin{}).
		Where("task_id = ? AND user_id = ? AND check_date = ?", taskID, userID, day).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *checkinRepo) ListByUser(ctx context.Context, userID uint) ([]models.CheckinDetail, error) {
	var details []models.CheckinDetail
	err := r.db.WithContext(ctx).Model(&models.Checkin{}).
		Select("checkins.*, tasks.title AS task_title, tasks.points AS task_points").
		Joins("JOIN tasks ON tasks.id = checkins.task_id").
		Where("checkins.user_id = ?", userID).
		Order("checkins.checked_at DESC").
		Scan(&details).Error
	if err != nil {
		return nil, translate(err)
	}
	return details, nil
}

func (r *checkinRepo) CountByUserOnDate(ctx context.Context, userID uint, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Checkin{}).
		Where("user_id = ? AND check_date = ?", userID, day).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *checkinRepo) CheckedTaskIDs(ctx context.Context, userID uint, day string) (map[uint]string, error) {
	var rows []models.Checkin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_date = ?", userID, day).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	checked := make(map[uint]string, len(rows))
	for _, row := range rows {
		checked[row.TaskID] = row.Notes
	}
	return checked, nil
}
