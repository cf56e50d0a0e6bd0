package models

import "time"

// Checkin records that a user completed a task on a calendar day. The
// composite unique index is the authoritative guard for the
// one-checkin-per-day rule; rows are never updated or deleted.
type Checkin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:uniq_task_user_date" json:"task_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_task_user_date" json:"user_id"`
	// CheckDate is a day key in "2006-01-02" form. Stored as a plain string
	// to avoid timezone/type mismatches with DATE columns under parseTime.
	CheckDate string    `gorm:"type:char(10);not null;uniqueIndex:uniq_task_user_date" json:"check_date"`
	CheckedAt time.Time `gorm:"not null" json:"checked_at"`
	Notes     string    `gorm:"size:512" json:"notes,omitempty"`
}

// CheckinDetail is a checkin joined with the task it belongs to, for history
// views. Kept flat so it can be scanned straight from the join.
type CheckinDetail struct {
	ID         uint      `json:"id"`
	TaskID     uint      `json:"task_id"`
	UserID     uint      `json:"user_id"`
	CheckDate  string    `json:"check_date"`
	CheckedAt  time.Time `json:"checked_at"`
	Notes      string    `json:"notes,omitempty"`
	TaskTitle  string    `json:"task_title"`
	TaskPoints int       `json:"points"`
}
