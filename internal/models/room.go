package models

import "time"

// RoomStatus is the lifecycle state of a room. It only ever moves forward.
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// CanTransitionTo reports whether moving from s to target is allowed.
func (s RoomStatus) CanTransitionTo(target RoomStatus) bool {
	switch s {
	case RoomStatusWaiting:
		return target == RoomStatusPlaying
	case RoomStatusPlaying:
		return target == RoomStatusFinished
	default:
		return false
	}
}

// GamePhase is the sub-phase of a room while it is playing.
type GamePhase string

const (
	PhaseNone   GamePhase = "none"
	PhaseNight  GamePhase = "night"
	PhaseDay    GamePhase = "day"
	PhaseVoting GamePhase = "voting"
)

const (
	MinRoomPlayers     = 4
	MaxRoomPlayers     = 20
	DefaultRoomPlayers = 12
)

// Room is a game session holding a roster and a phase state.
type Room struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"size:255;not null"`
	HostUserID   uint       `gorm:"not null;index"`
	Status       RoomStatus `gorm:"size:20;not null;default:'waiting';index"`
	MaxPlayers   int        `gorm:"not null;default:12"`
	CurrentPhase GamePhase  `gorm:"size:20;not null;default:'none'"`
	PhaseEndsAt  *time.Time
	CreatedAt    time.Time

	Host    User         `gorm:"foreignKey:HostUserID"`
	Players []RoomPlayer `gorm:"foreignKey:RoomID"`
}
