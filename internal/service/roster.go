package service

import (
	"context"
	"fmt"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// botNames are handed out in order as bots are added to a room.
var botNames = []string{
	"Johnny", "Vinnie", "Tony", "Rocky", "Max",
	"Duke", "Spike", "Blade", "Raider", "Viper",
	"Harley", "Chopper", "Revolver", "Diesel", "Cyclone",
	"Thunder", "Style", "Drive", "Boost", "Nitro",
}

// BotName returns the display name of the n-th bot in a room (1-based).
func BotName(n int) string {
	if n >= 1 && n <= len(botNames) {
		return botNames[n-1]
	}
	return fmt.Sprintf("Bot-%d", n)
}

type JoinRoomInput struct {
	RoomID uint
	UserID uint
}

// JoinResult reports whether the call added a new roster entry.
type JoinResult struct {
	Joined bool
}

// JoinRoom puts a user on a waiting room's roster. Joining twice is a no-op.
func (s *Service) JoinRoom(ctx context.Context, in JoinRoomInput) (JoinResult, error) {
	if in.RoomID == 0 || in.UserID == 0 {
		return JoinResult{}, MissingField("room_id", "user_id")
	}

	var result JoinResult
	err := s.inTx(ctx, "Failed to join room", func(tx *gorm.DB) error {
		room, err := lockRoom(tx, in.RoomID)
		if err != nil {
			return err
		}
		if room.Status != models.RoomStatusWaiting {
			return ErrGameAlreadyStarted
		}

		var existing int64
		if err := tx.Model(&models.RoomPlayer{}).
			Where("room_id = ? AND user_id = ?", in.RoomID, in.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		count, err := rosterSize(tx, in.RoomID)
		if err != nil {
			return err
		}
		if count >= int64(room.MaxPlayers) {
			return ErrRoomFull
		}

		if _, err := findUser(tx, in.UserID); err != nil {
			return err
		}

		player := models.RoomPlayer{RoomID: in.RoomID, UserID: in.UserID, IsAlive: true}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&player)
		if res.Error != nil {
			return res.Error
		}
		result.Joined = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}

	if result.Joined {
		s.publish(in.RoomID, "player_joined", map[string]any{"user_id": in.UserID})
	}
	return result, nil
}

type AddBotInput struct {
	RoomID uint
}

type AddBotResult struct {
	UserID      uint
	BotUsername string
}

// AddBot creates a bot user and seats it in a waiting room.
// Bots are only limited by the hard roster cap, not by the room's MaxPlayers.
func (s *Service) AddBot(ctx context.Context, in AddBotInput) (AddBotResult, error) {
	if in.RoomID == 0 {
		return AddBotResult{}, MissingField("room_id")
	}

	var result AddBotResult
	err := s.inTx(ctx, "Failed to add bot", func(tx *gorm.DB) error {
		room, err := lockRoom(tx, in.RoomID)
		if err != nil {
			return err
		}
		if room.Status != models.RoomStatusWaiting {
			return ErrGameAlreadyStarted
		}

		count, err := rosterSize(tx, in.RoomID)
		if err != nil {
			return err
		}
		if count >= models.MaxRoomPlayers {
			return ErrRosterCapExceeded
		}

		var botCount int64
		if err := tx.Model(&models.RoomPlayer{}).
			Where("room_id = ? AND is_bot = ?", in.RoomID, true).
			Count(&botCount).Error; err != nil {
			return err
		}

		bot := models.User{Username: BotName(int(botCount) + 1)}
		if err := tx.Create(&bot).Error; err != nil {
			return err
		}
		seat := models.RoomPlayer{RoomID: in.RoomID, UserID: bot.ID, IsAlive: true, IsBot: true}
		if err := tx.Create(&seat).Error; err != nil {
			return err
		}

		result = AddBotResult{UserID: bot.ID, BotUsername: bot.Username}
		return nil
	})
	if err != nil {
		return AddBotResult{}, err
	}

	s.publish(in.RoomID, "bot_added", map[string]any{"user_id": result.UserID, "username": result.BotUsername})
	return result, nil
}
