package models

import "time"

// RedemptionCompleted is the only redemption status written in scope.
const RedemptionCompleted = "completed"

// Redemption records a successful exchange of balance for a reward. It is
// created atomically with its paired spent ledger entry and never updated.
type Redemption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RewardID    uint      `gorm:"index;not null" json:"reward_id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	PointsSpent int       `gorm:"not null" json:"points_spent"`
	Status      string    `gorm:"size:32;not null;default:completed" json:"status"`
	RedeemedAt  time.Time `gorm:"not null" json:"redeemed_at"`
}
