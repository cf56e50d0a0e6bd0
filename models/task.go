package models

import "time"

// Task is a user-defined recurring daily task. Tasks are never physically
// removed; deletion flips IsActive to false so historical checkins keep
// their reference.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:1024" json:"description"`
	Points      int       `gorm:"not null;default:10" json:"points"`
	Category    string    `gorm:"size:64" json:"category"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskWithStatus is a task row decorated with the caller's checkin state for
// the current day, as rendered by the task list.
type TaskWithStatus struct {
	Task
	CheckedToday bool   `json:"checked_today"`
	TodayNotes   string `json:"today_notes,omitempty"`
}
