package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

type CreateRoomInput struct {
	Name       string
	HostUserID uint
	// MaxPlayers defaults to models.DefaultRoomPlayers when zero.
	MaxPlayers int
}

// CreateRoom opens a waiting room and seats its host.
func (s *Service) CreateRoom(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.HostUserID == 0 {
		return nil, MissingField("name", "host_user_id")
	}
	maxPlayers := in.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = models.DefaultRoomPlayers
	}
	if maxPlayers < models.MinRoomPlayers || maxPlayers > models.MaxRoomPlayers {
		return nil, invalidInput("max_players must be between %d and %d", models.MinRoomPlayers, models.MaxRoomPlayers)
	}

	room := models.Room{
		Name:         name,
		HostUserID:   in.HostUserID,
		Status:       models.RoomStatusWaiting,
		MaxPlayers:   maxPlayers,
		CurrentPhase: models.PhaseNone,
	}
	err := s.inTx(ctx, "Failed to create room", func(tx *gorm.DB) error {
		if _, err := findUser(tx, in.HostUserID); err != nil {
			return err
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		host := models.RoomPlayer{RoomID: room.ID, UserID: in.HostUserID, IsAlive: true}
		return tx.Create(&host).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// RoomSummary is a row of the open rooms list.
type RoomSummary struct {
	ID          uint
	Name        string
	Status      models.RoomStatus
	MaxPlayers  int
	CreatedAt   time.Time
	PlayerCount int64
}

// ListRooms returns waiting and playing rooms, newest first.
func (s *Service) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	var rooms []RoomSummary
	err := s.db.WithContext(ctx).
		Model(&models.Room{}).
		Select("rooms.id, rooms.name, rooms.status, rooms.max_players, rooms.created_at, COUNT(room_players.id) AS player_count").
		Joins("LEFT JOIN room_players ON room_players.room_id = rooms.id").
		Where("rooms.status IN ?", []models.RoomStatus{models.RoomStatusWaiting, models.RoomStatusPlaying}).
		Group("rooms.id").
		Order("rooms.created_at DESC, rooms.id DESC").
		Scan(&rooms).Error
	if err != nil {
		return nil, internal("Failed to list rooms", err)
	}
	return rooms, nil
}

// PlayerInfo is one roster entry joined with its user.
type PlayerInfo struct {
	UserID   uint
	Username string
	Role     *string
	IsAlive  bool
	IsBot    bool
}

type RoomInfo struct {
	Room    models.Room
	Players []PlayerInfo
}

// VisibleTo returns a copy with every role hidden except the viewer's own.
// Roles are public once the room is finished.
func (r RoomInfo) VisibleTo(viewerID uint) RoomInfo {
	if r.Room.Status == models.RoomStatusFinished {
		return r
	}
	players := make([]PlayerInfo, len(r.Players))
	for i, p := range r.Players {
		if p.UserID != viewerID {
			p.Role = nil
		}
		players[i] = p
	}
	r.Players = players
	return r
}

// GetRoomInfo loads a room and its roster in join order.
func (s *Service) GetRoomInfo(ctx context.Context, roomID uint) (*RoomInfo, error) {
	if roomID == 0 {
		return nil, MissingField("id")
	}
	db := s.db.WithContext(ctx)

	var room models.Room
	if err := db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, internal("Failed to load room", err)
	}

	var players []PlayerInfo
	err := db.Model(&models.RoomPlayer{}).
		Select("users.id AS user_id, users.username, room_players.role, room_players.is_alive, room_players.is_bot").
		Joins("JOIN users ON users.id = room_players.user_id").
		Where("room_players.room_id = ?", roomID).
		Order("room_players.joined_at, room_players.id").
		Scan(&players).Error
	if err != nil {
		return nil, internal("Failed to load players", err)
	}

	return &RoomInfo{Room: room, Players: players}, nil
}
