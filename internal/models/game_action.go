package models

import "time"

// ActionVote is the action type recorded by the voting endpoint.
const ActionVote = "vote"

// GameAction is a declared player intent. Rows are append-only.
type GameAction struct {
	ID           uint      `gorm:"primaryKey"`
	RoomID       uint      `gorm:"not null;index"`
	ActorUserID  uint      `gorm:"not null;index"`
	TargetUserID uint      `gorm:"not null"`
	ActionType   string    `gorm:"size:32;not null"`
	GamePhase    GamePhase `gorm:"size:20;not null"`
	CreatedAt    time.Time
}
