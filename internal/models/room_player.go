package models

import "time"

// RoomPlayer is one roster slot. A user holds at most one slot per room.
type RoomPlayer struct {
	ID       uint      `gorm:"primaryKey"`
	RoomID   uint      `gorm:"not null;uniqueIndex:idx_room_players_room_user"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_room_players_room_user;index"`
	Role     *string   `gorm:"size:32"`
	IsAlive  bool      `gorm:"not null;default:true"`
	IsBot    bool      `gorm:"not null;default:false"`
	JoinedAt time.Time `gorm:"not null;autoCreateTime"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}
