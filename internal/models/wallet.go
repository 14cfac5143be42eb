package models

import "time"

// Wallet is a per-member holding container. Owner and tier are fixed at
// creation; there is no update or delete path.
type Wallet struct {
	ID        string `gorm:"primaryKey"`
	MemberID  string `gorm:"index;not null"`
	Tier      Tier   `gorm:"not null"`
	CreatedAt time.Time
}
