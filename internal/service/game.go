package service

import (
	"context"
	"errors"

	"mafia/backend/internal/models"
	"mafia/backend/internal/roles"

	"gorm.io/gorm"
)

type StartGameInput struct {
	RoomID uint
}

type StartGameResult struct {
	PlayerCount int
	Phase       models.GamePhase
}

// StartGame deals roles to the roster in join order and moves the room to the
// first night. Role writes and the status flip commit together or not at all.
func (s *Service) StartGame(ctx context.Context, in StartGameInput) (StartGameResult, error) {
	if in.RoomID == 0 {
		return StartGameResult{}, MissingField("room_id")
	}

	var result StartGameResult
	err := s.inTx(ctx, "Failed to start game", func(tx *gorm.DB) error {
		room, err := lockRoom(tx, in.RoomID)
		if err != nil {
			return err
		}
		if !room.Status.CanTransitionTo(models.RoomStatusPlaying) {
			return ErrInvalidTransition
		}

		var players []models.RoomPlayer
		if err := tx.Where("room_id = ?", in.RoomID).
			Order("joined_at, id").
			Find(&players).Error; err != nil {
			return err
		}
		if len(players) < roles.MinPlayers {
			return ErrInsufficientPlayers
		}

		pool, err := s.buildRoles(len(players))
		if err != nil {
			if errors.Is(err, roles.ErrInvalidRosterSize) {
				return &Error{Kind: KindInvalidRosterSize, Message: err.Error(), Err: err}
			}
			return err
		}

		for i, player := range players {
			if err := tx.Model(&models.RoomPlayer{}).
				Where("id = ?", player.ID).
				Update("role", string(pool[i])).Error; err != nil {
				return err
			}
		}

		if err := markPlaying(tx, in.RoomID); err != nil {
			return err
		}

		result = StartGameResult{PlayerCount: len(players), Phase: models.PhaseNight}
		return nil
	})
	if err != nil {
		return StartGameResult{}, err
	}

	s.publish(in.RoomID, "game_started", map[string]any{
		"player_count": result.PlayerCount,
		"phase":        result.Phase,
	})
	return result, nil
}

// markPlaying flips a waiting room to the first night. It compares and swaps
// on status so a concurrent start can never apply twice.
func markPlaying(tx *gorm.DB, roomID uint) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, models.RoomStatusWaiting).
		Updates(map[string]any{
			"status":        models.RoomStatusPlaying,
			"current_phase": models.PhaseNight,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrInvalidTransition
	}
	return nil
}

type RecordActionInput struct {
	RoomID       uint
	ActorUserID  uint
	TargetUserID uint
	ActionType   string
	Phase        models.GamePhase
}

// RecordAction appends an action row. It does not check that the actor or
// target are seated, alive, or what Phase holds; resolution is expected to
// validate later.
func (s *Service) RecordAction(ctx context.Context, in RecordActionInput) (*models.GameAction, error) {
	if in.RoomID == 0 || in.ActorUserID == 0 || in.TargetUserID == 0 {
		return nil, MissingField("room_id", "actor_id", "target_id")
	}
	if in.ActionType == "" {
		in.ActionType = models.ActionVote
	}
	if in.Phase == "" {
		in.Phase = models.PhaseVoting
	}

	action := models.GameAction{
		RoomID:       in.RoomID,
		ActorUserID:  in.ActorUserID,
		TargetUserID: in.TargetUserID,
		ActionType:   in.ActionType,
		GamePhase:    in.Phase,
	}
	if err := s.db.WithContext(ctx).Create(&action).Error; err != nil {
		return nil, internal("Failed to record action", err)
	}

	if action.ActionType == models.ActionVote {
		s.publish(in.RoomID, "vote_recorded", map[string]any{
			"action_id": action.ID,
			"actor_id":  action.ActorUserID,
			"target_id": action.TargetUserID,
		})
	}
	return &action, nil
}

// RecordVote records a vote cast during the voting phase.
func (s *Service) RecordVote(ctx context.Context, roomID, actorID, targetID uint) (*models.GameAction, error) {
	return s.RecordAction(ctx, RecordActionInput{
		RoomID:       roomID,
		ActorUserID:  actorID,
		TargetUserID: targetID,
		ActionType:   models.ActionVote,
		Phase:        models.PhaseVoting,
	})
}
