package models

import "time"

// User represents a player account. Bots are users without a Telegram identity.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"size:255;not null"`
	TelegramID   *int64  `gorm:"uniqueIndex"`
	PasswordHash *string `gorm:"size:255"`
	TotalGames   int     `gorm:"not null;default:0"`
	TotalWins    int     `gorm:"not null;default:0"`
	AvatarURL    *string `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
