package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository/repositorytest"
)

// fakeClock is a settable clock so tests control the day boundary.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func passthrough(s string) string { return s }

func seedUser(t *testing.T, store *repositorytest.FakeStore, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "$2a$10$stub"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func seedTask(t *testing.T, store *repositorytest.FakeStore, ownerID uint, title string, points int) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, Points: points, OwnerID: ownerID, IsActive: true}
	require.NoError(t, store.Tasks().Create(context.Background(), task))
	return task
}

func seedReward(t *testing.T, store *repositorytest.FakeStore, ownerID uint, title string, pointsRequired int) *models.Reward {
	t.Helper()
	reward := &models.Reward{Title: title, PointsRequired: pointsRequired, OwnerID: ownerID, IsActive: true}
	require.NoError(t, store.Rewards().Create(context.Background(), reward))
	return reward
}

func earn(t *testing.T, store *repositorytest.FakeStore, userID uint, points int) {
	t.Helper()
	require.NoError(t, store.Ledger().Append(context.Background(), &models.LedgerEntry{
		UserID: userID,
		Points: points,
		Kind:   models.LedgerEarned,
	}))
}
