// Package repositorytest provides an in-memory repository.Store for tests.
// Atomic serializes callers with a mutex and restores a snapshot on error,
// mirroring the transactional semantics services rely on.
package repositorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

type state struct {
	nextUserID       uint
	nextTaskID       uint
	nextCheckinID    uint
	nextLedgerID     uint
	nextRewardID     uint
	nextRedemptionID uint

	users       map[uint]models.User
	tasks       map[uint]models.Task
	checkins    []models.Checkin
	ledger      []models.LedgerEntry
	rewards     map[uint]models.Reward
	redemptions []models.Redemption
}

func newState() *state {
	return &state{
		nextUserID:       1,
		nextTaskID:       1,
		nextCheckinID:    1,
		nextLedgerID:     1,
		nextRewardID:     1,
		nextRedemptionID: 1,
		users:            map[uint]models.User{},
		tasks:            map[uint]models.Task{},
		rewards:          map[uint]models.Reward{},
	}
}

func (st *state) clone() *state {
	out := *st
	out.users = make(map[uint]models.User, len(st.users))
	for k, v := range st.users {
		out.users[k] = v
	}
	out.tasks = make(map[uint]models.Task, len(st.tasks))
	for k, v := range st.tasks {
		out.tasks[k] = v
	}
	out.rewards = make(map[uint]models.Reward, len(st.rewards))
	for k, v := range st.rewards {
		out.rewards[k] = v
	}
	out.checkins = append([]models.Checkin(nil), st.checkins...)
	out.ledger = append([]models.LedgerEntry(nil), st.ledger...)
	out.redemptions = append([]models.Redemption(nil), st.redemptions...)
	return &out
}

// FakeStore is an in-memory repository.Store.
type FakeStore struct {
	mu   *sync.Mutex
	st   *state
	inTx bool

	// FailNextLedgerAppend makes the next ledger append return this error,
	// to exercise rollback paths.
	FailNextLedgerAppend error
	// DisableExistsPrecheck makes CheckinRepository.Exists always report
	// false, simulating two requests racing past the existence pre-check
	// so the unique constraint has to catch the duplicate.
	DisableExistsPrecheck bool
}

// New creates an empty FakeStore.
func New() *FakeStore {
	return &FakeStore{mu: &sync.Mutex{}, st: newState()}
}

func (s *FakeStore) withLock(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// Atomic runs fn under the store mutex and rolls the state back when fn
// fails.
func (s *FakeStore) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &FakeStore{
		mu:                    s.mu,
		st:                    s.st,
		inTx:                  true,
		FailNextLedgerAppend:  s.FailNextLedgerAppend,
		DisableExistsPrecheck: s.DisableExistsPrecheck,
	}
	err := fn(tx)
	s.FailNextLedgerAppend = tx.FailNextLedgerAppend
	if err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

func (s *FakeStore) Users() repository.UserRepository             { return fakeUsers{s} }
func (s *FakeStore) Tasks() repository.TaskRepository             { return fakeTasks{s} }
func (s *FakeStore) Checkins() repository.CheckinRepository       { return fakeCheckins{s} }
func (s *FakeStore) Ledger() repository.LedgerRepository          { return fakeLedger{s} }
func (s *FakeStore) Rewards() repository.RewardRepository         { return fakeRewards{s} }
func (s *FakeStore) Redemptions() repository.RedemptionRepository { return fakeRedemptions{s} }

var _ repository.Store = (*FakeStore)(nil)

type fakeUsers struct{ s *FakeStore }

func (r fakeUsers) Create(_ context.Context, user *models.User) error {
	return r.s.withLock(func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == user.Username {
				return repository.ErrDuplicate
			}
		}
		user.ID = st.nextUserID
		st.nextUserID++
		st.users[user.ID] = *user
		return nil
	})
}

func (r fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	var out models.User
	err := r.s.withLock(func(st *state) error {
		user, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var out models.User
	err := r.s.withLock(func(st *state) error {
		for _, user := range st.users {
			if user.Username == username {
				out = user
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r fakeUsers) LockByID(ctx context.Context, id uint) (*models.User, error) {
	// The Atomic mutex already serializes; locking reduces to a read.
	return r.GetByID(ctx, id)
}

type fakeTasks struct{ s *FakeStore }

func (r fakeTasks) Create(_ context.Context, task *models.Task) error {
	return r.s.withLock(func(st *state) error {
		task.ID = st.nextTaskID
		st.nextTaskID++
		st.tasks[task.ID] = *task
		return nil
	})
}

func (r fakeTasks) GetByID(_ context.Context, id uint) (*models.Task, error) {
	var out models.Task
	err := r.s.withLock(func(st *state) error {
		task, ok := st.tasks[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r fakeTasks) GetActive(ctx context.Context, id uint) (*models.Task, error) {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, repository.ErrNotFound
	}
	return task, nil
}

func (r fakeTasks) ListActiveByOwner(_ context.Context, ownerID uint) ([]models.Task, error) {
	var out []models.Task
	_ = r.s.withLock(func(st *state) error {
		for _, task := range st.tasks {
			if task.OwnerID == ownerID && task.IsActive {
				out = append(out, task)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeTasks) CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error) {
	tasks, err := r.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return int64(len(tasks)), nil
}

func (r fakeTasks) Update(_ context.Context, task *models.Task) error {
	return r.s.withLock(func(st *state) error {
		if _, ok := st.tasks[task.ID]; !ok {
			return repository.ErrNotFound
		}
		st.tasks[task.ID] = *task
		return nil
	})
}

type fakeCheckins struct{ s *FakeStore }

func (r fakeCheckins) Create(_ context.Context, checkin *models.Checkin) error {
	return r.s.withLock(func(st *state) error {
		for _, existing := range st.checkins {
			if existing.TaskID == checkin.TaskID &&
				existing.UserID == checkin.UserID &&
				existing.CheckDate == checkin.CheckDate {
				return repository.ErrDuplicate
			}
		}
		checkin.ID = st.nextCheckinID
		st.nextCheckinID++
		st.checkins = append(st.checkins, *checkin)
		return nil
	})
}

func (r fakeCheckins) Exists(_ context.Context, taskID, userID uint, day string) (bool, error) {
	if r.s.DisableExistsPrecheck {
		return false, nil
	}
	var found bool
	_ = r.s.withLock(func(st *state) error {
		for _, checkin := range st.checkins {
			if checkin.TaskID == taskID && checkin.UserID == userID && checkin.CheckDate == day {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, nil
}

func (r fakeCheckins) ListByUser(_ context.Context, userID uint) ([]models.CheckinDetail, error) {
	var out []models.CheckinDetail
	_ = r.s.withLock(func(st *state) error {
		for i := len(st.checkins) - 1; i >= 0; i-- {
			checkin := st.checkins[i]
			if checkin.UserID != userID {
				continue
			}
			task := st.tasks[checkin.TaskID]
			out = append(out, models.CheckinDetail{
				ID:         checkin.ID,
				TaskID:     checkin.TaskID,
				UserID:     checkin.UserID,
				CheckDate:  checkin.CheckDate,
				CheckedAt:  checkin.CheckedAt,
				Notes:      checkin.Notes,
				TaskTitle:  task.Title,
				TaskPoints: task.Points,
			})
		}
		return nil
	})
	return out, nil
}

func (r fakeCheckins) CountByUserOnDate(_ context.Context, userID uint, day string) (int64, error) {
	var count int64
	_ = r.s.withLock(func(st *state) error {
		for _, checkin := range st.checkins {
			if checkin.UserID == userID && checkin.CheckDate == day {
				count++
			}
		}
		return nil
	})
	return count, nil
}

func (r fakeCheckins) CheckedTaskIDs(_ context.Context, userID uint, day string) (map[uint]string, error) {
	checked := map[uint]string{}
	_ = r.s.withLock(func(st *state) error {
		for _, checkin := range st.checkins {
			if checkin.UserID == userID && checkin.CheckDate == day {
				checked[checkin.TaskID] = checkin.Notes
			}
		}
		return nil
	})
	return checked, nil
}

type fakeLedger struct{ s *FakeStore }

func (r fakeLedger) Append(_ context.Context, entry *models.LedgerEntry) error {
	return r.s.withLock(func(st *state) error {
		if err := r.s.FailNextLedgerAppend; err != nil {
			r.s.FailNextLedgerAppend = nil
			return err
		}
		entry.ID = st.nextLedgerID
		st.nextLedgerID++
		st.ledger = append(st.ledger, *entry)
		return nil
	})
}

func (r fakeLedger) ListByUser(_ context.Context, userID uint) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	_ = r.s.withLock(func(st *state) error {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			if st.ledger[i].UserID == userID {
				out = append(out, st.ledger[i])
			}
		}
		return nil
	})
	return out, nil
}

func (r fakeLedger) SumByKind(_ context.Context, userID uint, kind models.LedgerKind) (int64, error) {
	var sum int64
	_ = r.s.withLock(func(st *state) error {
		for _, entry := range st.ledger {
			if entry.UserID == userID && entry.Kind == kind {
				sum += int64(entry.Points)
			}
		}
		return nil
	})
	return sum, nil
}

type fakeRewards struct{ s *FakeStore }

func (r fakeRewards) Create(_ context.Context, reward *models.Reward) error {
	return r.s.withLock(func(st *state) error {
		reward.ID = st.nextRewardID
		st.nextRewardID++
		st.rewards[reward.ID] = *reward
		return nil
	})
}

func (r fakeRewards) GetByID(_ context.Context, id uint) (*models.Reward, error) {
	var out models.Reward
	err := r.s.withLock(func(st *state) error {
		reward, ok := st.rewards[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = reward
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r fakeRewards) GetActive(ctx context.Context, id uint) (*models.Reward, error) {
	reward, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reward.IsActive {
		return nil, repository.ErrNotFound
	}
	return reward, nil
}

func (r fakeRewards) ListActiveByOwner(_ context.Context, ownerID uint) ([]models.Reward, error) {
	var out []models.Reward
	_ = r.s.withLock(func(st *state) error {
		for _, reward := range st.rewards {
			if reward.OwnerID == ownerID && reward.IsActive {
				out = append(out, reward)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeRewards) Update(_ context.Context, reward *models.Reward) error {
	return r.s.withLock(func(st *state) error {
		if _, ok := st.rewards[reward.ID]; !ok {
			return repository.ErrNotFound
		}
		st.rewards[reward.ID] = *reward
		return nil
	})
}

type fakeRedemptions struct{ s *FakeStore }

func (r fakeRedemptions) Create(_ context.Context, redemption *models.Redemption) error {
	return r.s.withLock(func(st *state) error {
		redemption.ID = st.nextRedemptionID
		st.nextRedemptionID++
		st.redemptions = append(st.redemptions, *redemption)
		return nil
	})
}

func (r fakeRedemptions) ListByUser(_ context.Context, userID uint) ([]models.Redemption, error) {
	var out []models.Redemption
	_ = r.s.withLock(func(st *state) error {
		for i := len(st.redemptions) - 1; i >= 0; i-- {
			if st.redemptions[i].UserID == userID {
				out = append(out, st.redemptions[i])
			}
		}
		return nil
	})
	return out, nil
}
