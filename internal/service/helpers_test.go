package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"mafia/backend/internal/database"
	"mafia/backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testBotToken = "123456:TEST-TOKEN"

type recordedEvent struct {
	roomID    uint
	eventType string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(roomID uint, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{roomID: roomID, eventType: eventType})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test pool: %v", err)
	}
	// One connection serializes transactions the way row locks do on Postgres.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newSeededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := newTestDB(t)
	events := &recordingPublisher{}
	svc := New(db, Options{
		Rand:             newSeededRand(),
		TelegramBotToken: testBotToken,
		Publisher:        events,
	})
	return svc, db, events
}

func createUser(t *testing.T, svc *Service, name string) *models.User {
	t.Helper()
	user, err := svc.RegisterUser(context.Background(), RegisterInput{Username: name})
	if err != nil {
		t.Fatalf("failed to register %s: %v", name, err)
	}
	return user
}

// createRoomWithPlayers creates a room hosted by a fresh user and seats total players including the host.
func createRoomWithPlayers(t *testing.T, svc *Service, maxPlayers, total int) *models.Room {
	t.Helper()
	ctx := context.Background()
	host := createUser(t, svc, "host")
	room, err := svc.CreateRoom(ctx, CreateRoomInput{Name: "Night Club", HostUserID: host.ID, MaxPlayers: maxPlayers})
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	for i := 1; i < total; i++ {
		user := createUser(t, svc, "player")
		if _, err := svc.JoinRoom(ctx, JoinRoomInput{RoomID: room.ID, UserID: user.ID}); err != nil {
			t.Fatalf("failed to join player %d: %v", i, err)
		}
	}
	return room
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}
