package models

import "time"

// Reward is a user-defined redeemable reward with the same soft-delete
// lifecycle as Task.
type Reward struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"size:1024" json:"description"`
	PointsRequired int       `gorm:"not null" json:"points_required"`
	OwnerID        uint      `gorm:"index;not null" json:"owner_id"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
