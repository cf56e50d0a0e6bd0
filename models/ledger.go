package models

import "time"

// LedgerKind classifies a ledger entry as earning or spending points.
type LedgerKind string

const (
	LedgerEarned LedgerKind = "earned"
	LedgerSpent  LedgerKind = "spent"
)

// LedgerEntry is an append-only record of points gained or consumed by a
// user. Entries are never updated or deleted; the balance is always the fold
// sum(earned) - sum(spent) over the whole ledger.
type LedgerEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Points      int        `gorm:"not null" json:"points"`
	Kind        LedgerKind `gorm:"type:varchar(16);not null" json:"kind"`
	Description string     `gorm:"size:255" json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}
