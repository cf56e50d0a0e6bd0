package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jihuadaka/checkin-server/models"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint, e.g.
// a second checkin for the same (task, user, day) or a taken username.
var ErrDuplicate = errors.New("duplicate record")

// Store bundles the per-aggregate repositories and provides transactional
// composition. Repositories obtained from the Store passed to an Atomic
// callback operate inside that transaction.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Checkins() CheckinRepository
	Ledger() LedgerRepository
	Rewards() RewardRepository
	Redemptions() RedemptionRepository

	// Atomic runs fn inside a single database transaction. Returning an
	// error rolls everything back.
	Atomic(ctx context.Context, fn func(Store) error) error
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// LockByID reads the user row with a row-level write lock. Only
	// meaningful inside Atomic; it serializes balance-affecting work per
	// user.
	LockByID(ctx context.Context, id uint) (*models.User, error)
}

// TaskRepository persists the task catalog.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	GetActive(ctx context.Context, id uint) (*models.Task, error)
	ListActiveByOwner(ctx context.Context, ownerID uint) ([]models.Task, error)
	CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error)
	Update(ctx context.Context, task *models.Task) error
}

// CheckinRepository persists one-per-day task completions.
type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.Checkin) error
	Exists(ctx context.Context, taskID, userID uint, day string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CheckinDetail, error)
	CountByUserOnDate(ctx context.Context, userID uint, day string) (int64, error)
	// CheckedTaskIDs returns the set of task ids the user checked in on the
	// given day, for decorating task lists.
	CheckedTaskIDs(ctx context.Context, userID uint, day string) (map[uint]string, error)
}

// LedgerRepository persists the append-only points ledger.
type LedgerRepository interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
	ListByUser(ctx context.Context, userID uint) ([]models.LedgerEntry, error)
	SumByKind(ctx context.Context, userID uint, kind models.LedgerKind) (int64, error)
}

// RewardRepository persists the reward catalog.
type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	GetByID(ctx context.Context, id uint) (*models.Reward, error)
	GetActive(ctx context.Context, id uint) (*models.Reward, error)
	ListActiveByOwner(ctx context.Context, ownerID uint) ([]models.Reward, error)
	Update(ctx context.Context, reward *models.Reward) error
}

// RedemptionRepository persists reward redemption records.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *models.Redemption) error
	ListByUser(ctx context.Context, userID uint) ([]models.Redemption, error)
}

// gormStore is the MySQL-backed Store. The same struct serves both the
// root connection and transaction scopes.
type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection into a Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository             { return &userRepo{db: s.db} }
func (s *gormStore) Tasks() TaskRepository             { return &taskRepo{db: s.db} }
func (s *gormStore) Checkins() CheckinRepository       { return &checkinRepo{db: s.db} }
func (s *gormStore) Ledger() LedgerRepository          { return &ledgerRepo{db: s.db} }
func (s *gormStore) Rewards() RewardRepository         { return &rewardRepo{db: s.db} }
func (s *gormStore) Redemptions() RedemptionRepository { return &redemptionRepo{db: s.db} }

func (s *gormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// translate maps gorm errors onto repository sentinels so the service layer
// never depends on the storage dialect.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
