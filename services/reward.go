package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

// RewardInput carries the mutable reward fields for create and update.
type RewardInput struct {
	Title          string
	Description    string
	PointsRequired int
}

// RewardService manages the reward catalog, mirroring the task catalog's
// ownership and soft-delete rules.
type RewardService struct {
	store    repository.Store
	sanitize Sanitizer
}

// NewRewardService creates a RewardService.
func NewRewardService(store repository.Store, sanitize Sanitizer) *RewardService {
	return &RewardService{store: store, sanitize: sanitize}
}

func (s *RewardService) normalize(in *RewardInput) error {
	in.Title = s.sanitize(strings.TrimSpace(in.Title))
	in.Description = s.sanitize(in.Description)
	if in.Title == "" {
		return invalidField("title", "cannot be blank")
	}
	if in.PointsRequired <= 0 {
		return invalidField("points_required", "must be positive")
	}
	return nil
}

// Create adds a reward owned by ownerID.
func (s *RewardService) Create(ctx context.Context, ownerID uint, in RewardInput) (*models.Reward, error) {
	if err := s.normalize(&in); err != nil {
		return nil, err
	}
	reward := &models.Reward{
		Title:          in.Title,
		Description:    in.Description,
		PointsRequired: in.PointsRequired,
		OwnerID:        ownerID,
		IsActive:       true,
	}
	if err := s.store.Rewards().Create(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// List returns the caller's active rewards, newest first.
func (s *RewardService) List(ctx context.Context, userID uint) ([]models.Reward, error) {
	return s.store.Rewards().ListActiveByOwner(ctx, userID)
}

// Update replaces the mutable fields of a reward, owner only.
func (s *RewardService) Update(ctx context.Context, rewardID, ownerID uint, in RewardInput) (*models.Reward, error) {
	reward, err := s.load(ctx, rewardID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.normalize(&in); err != nil {
		return nil, err
	}

	reward.Title = in.Title
	reward.Description = in.Description
	reward.PointsRequired = in.PointsRequired
	if err := s.store.Rewards().Update(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// SoftDelete marks a reward inactive, preserving past redemptions.
func (s *RewardService) SoftDelete(ctx context.Context, rewardID, ownerID uint) error {
	reward, err := s.load(ctx, rewardID, ownerID)
	if err != nil {
		return err
	}
	reward.IsActive = false
	return s.store.Rewards().Update(ctx, reward)
}

func (s *RewardService) load(ctx context.Context, rewardID, ownerID uint) (*models.Reward, error) {
	reward, err := s.store.Rewards().GetByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	if !reward.IsActive {
		return nil, ErrRewardNotFound
	}
	if reward.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return reward, nil
}
