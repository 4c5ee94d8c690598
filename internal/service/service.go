// Package service implements the room, roster and role-assignment operations.
//
// All shared state lives in the relational store. Operations that check and
// then mutate a room do so inside one transaction with the room row locked.
package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"mafia/backend/internal/models"
	"mafia/backend/internal/roles"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Publisher receives room events after the change that caused them is committed.
type Publisher interface {
	Publish(roomID uint, eventType string, payload any)
}

// Options configures a Service.
type Options struct {
	// Rand shuffles role pools. A time-seeded source is used when nil.
	Rand *rand.Rand
	// TelegramBotToken is the shared secret for identity login.
	TelegramBotToken string
	Publisher        Publisher
}

type Service struct {
	db       *gorm.DB
	botToken string
	events   Publisher

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(db *gorm.DB, opts Options) *Service {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Service{
		db:       db,
		botToken: opts.TelegramBotToken,
		events:   opts.Publisher,
		rng:      rng,
	}
}

func (s *Service) buildRoles(playerCount int) ([]roles.Role, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return roles.Build(playerCount, s.rng)
}

func (s *Service) publish(roomID uint, eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(roomID, eventType, payload)
	}
}

// inTx runs fn in a transaction. Classified errors pass through untouched,
// anything else is reported as an internal failure.
func (s *Service) inTx(ctx context.Context, message string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return internal(message, err)
}

// lockRoom loads a room and holds its row lock until the transaction ends.
func lockRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func rosterSize(tx *gorm.DB, roomID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.RoomPlayer{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func findUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
