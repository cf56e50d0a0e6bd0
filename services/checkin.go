package services

import (
	"context"
	"errors"
	"time"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

// CheckinService enforces the one-checkin-per-day rule and credits the
// ledger. Any authenticated user may check in on any active task; the points
// accrue to the acting user's own ledger.
type CheckinService struct {
	store repository.Store
	clock Clock
	loc   *time.Location
}

// NewCheckinService creates a CheckinService with the given day-boundary
// location.
func NewCheckinService(store repository.Store, clock Clock, loc *time.Location) *CheckinService {
	return &CheckinService{store: store, clock: clock, loc: loc}
}

// Checkin records a completion of the task for today and credits the task's
// points to the user. A second call for the same (task, user, day) returns
// ErrAlreadyCheckedIn and writes nothing: the existence pre-check catches the
// common case, and the unique index on (task_id, user_id, check_date) is the
// authoritative guard when two requests race past it.
func (s *CheckinService) Checkin(ctx context.Context, taskID, userID uint, notes string) (*models.Checkin, error) {
	task, err := s.store.Tasks().GetActive(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	today := DayKey(now, s.loc)

	exists, err := s.store.Checkins().Exists(ctx, taskID, userID, today)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyCheckedIn
	}

	checkin := &models.Checkin{
		TaskID:    taskID,
		UserID:    userID,
		CheckDate: today,
		CheckedAt: now,
		Notes:     notes,
	}

	// The checkin row and its ledger credit commit together. A failed
	// ledger write rolls the checkin back rather than silently dropping
	// the points.
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Checkins().Create(ctx, checkin); err != nil {
			return err
		}
		return tx.Ledger().Append(ctx, &models.LedgerEntry{
			UserID:      userID,
			Points:      task.Points,
			Kind:        models.LedgerEarned,
			Description: "完成任务: " + task.Title,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	return checkin, nil
}

// History returns the user's checkins joined with task title and points,
// newest first.
func (s *CheckinService) History(ctx context.Context, userID uint) ([]models.CheckinDetail, error) {
	return s.store.Checkins().ListByUser(ctx, userID)
}
