package models

import "time"

// Member is a chat-platform user known to the bot. The ID is the platform's
// stable user identifier.
type Member struct {
	ID       string `gorm:"primaryKey"`
	Name     string
	JoinedAt time.Time
}
