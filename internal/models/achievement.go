package models

import "time"

// Achievement is a catalog entry that users can unlock.
type Achievement struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string
	Icon        string `gorm:"size:64"`
}

// UserAchievement records when a user unlocked an achievement.
// The primary key is a composite of (UserID, AchievementID) to ensure uniqueness.
type UserAchievement struct {
	UserID        uint `gorm:"primaryKey"`
	AchievementID uint `gorm:"primaryKey"`
	UnlockedAt    time.Time

	User        User        `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Achievement Achievement `gorm:"foreignKey:AchievementID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
