package services

import (
	"context"
	"math"
	"time"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

// Stats is the daily summary rendered on the dashboard.
type Stats struct {
	TotalTasks     int64   `json:"total_tasks"`
	TodayCheckins  int64   `json:"today_checkins"`
	TotalEarned    int64   `json:"total_earned"`
	TotalSpent     int64   `json:"total_spent"`
	Balance        int64   `json:"balance"`
	CompletionRate float64 `json:"completion_rate"`
}

// StatsService composes counts from the task, checkin and ledger stores.
// Read-only; each figure matches what a direct query against the respective
// store would return.
type StatsService struct {
	store repository.Store
	clock Clock
	loc   *time.Location
}

// NewStatsService creates a StatsService.
func NewStatsService(store repository.Store, clock Clock, loc *time.Location) *StatsService {
	return &StatsService{store: store, clock: clock, loc: loc}
}

// Today returns the user's stats for the current day. The completion rate is
// today's checkins over active tasks, as a percentage rounded to one
// decimal, or 0 with no tasks.
func (s *StatsService) Today(ctx context.Context, userID uint) (*Stats, error) {
	today := DayKey(s.clock.Now(), s.loc)

	totalTasks, err := s.store.Tasks().CountActiveByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	todayCheckins, err := s.store.Checkins().CountByUserOnDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	earned, err := s.store.Ledger().SumByKind(ctx, userID, models.LedgerEarned)
	if err != nil {
		return nil, err
	}
	spent, err := s.store.Ledger().SumByKind(ctx, userID, models.LedgerSpent)
	if err != nil {
		return nil, err
	}

	var rate float64
	if totalTasks > 0 {
		rate = math.Round(float64(todayCheckins)/float64(totalTasks)*1000) / 10
	}

	return &Stats{
		TotalTasks:     totalTasks,
		TodayCheckins:  todayCheckins,
		TotalEarned:    earned,
		TotalSpent:     spent,
		Balance:        earned - spent,
		CompletionRate: rate,
	}, nil
}
