package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/models"
)

func signedClaims(claims map[string]string) map[string]string {
	claims["hash"] = auth.Sign(claims, testBotToken)
	return claims
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, RegisterInput{Username: "  Ada  ", Password: "password123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "Ada" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}

	loggedIn, err := svc.LoginUser(ctx, LoginInput{Username: "Ada", Password: "password123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, loggedIn.ID)
	}

	_, err = svc.LoginUser(ctx, LoginInput{Username: "Ada", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	assertKind(t, err, KindUnauthenticated)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, RegisterInput{Username: "   "})
	assertKind(t, err, KindInvalidInput)

	tgID := int64(555)
	if _, err := svc.RegisterUser(ctx, RegisterInput{Username: "Ada", TelegramID: &tgID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.RegisterUser(ctx, RegisterInput{Username: "Eve", TelegramID: &tgID})
	assertKind(t, err, KindInvalidInput)
}

func TestGetUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, svc, "Ada")

	got, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "Ada" {
		t.Fatalf("expected Ada, got %s", got.Username)
	}

	_, err = svc.GetUser(ctx, user.ID+100)
	assertKind(t, err, KindNotFound)
}

func TestVerifyIdentityLoginCreatesThenRefreshes(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.VerifyIdentityLogin(ctx, signedClaims(map[string]string{
		"id": "1001", "first_name": "Ivan", "last_name": "Petrov", "username": "ivanp",
		"auth_date": "1700000000", "photo_url": "https://t.me/i/a.jpg",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Username != "Ivan Petrov" {
		t.Fatalf("expected full name, got %q", created.Username)
	}
	if created.TelegramID == nil || *created.TelegramID != 1001 {
		t.Fatalf("expected telegram id 1001, got %v", created.TelegramID)
	}

	updated, err := svc.VerifyIdentityLogin(ctx, signedClaims(map[string]string{
		"id": "1001", "first_name": "Ivan", "auth_date": "1700000100", "photo_url": "https://t.me/i/b.jpg",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same user %d, got %d", created.ID, updated.ID)
	}

	var stored models.User
	db.First(&stored, created.ID)
	if stored.Username != "Ivan" || stored.AvatarURL == nil || *stored.AvatarURL != "https://t.me/i/b.jpg" {
		t.Fatalf("expected refreshed profile, got %q / %v", stored.Username, stored.AvatarURL)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestVerifyIdentityLoginAdoptsExistingRow(t *testing.T) {
	svc, db, _ := newTestService(t)

	// A concurrent first login already inserted the row.
	tgID := int64(2002)
	existing := models.User{Username: "Early", TelegramID: &tgID}
	db.Create(&existing)

	user, err := svc.VerifyIdentityLogin(context.Background(), signedClaims(map[string]string{
		"id": "2002", "first_name": "Late", "auth_date": "1700000000",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != existing.ID || user.Username != "Late" {
		t.Fatalf("expected user %d renamed to Late, got %d %q", existing.ID, user.ID, user.Username)
	}
}

func TestConcurrentFirstIdentityLogins(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	const attempts = 4
	ids := make([]uint, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.VerifyIdentityLogin(ctx, signedClaims(map[string]string{
				"id": "3003", "first_name": "Ivan", "auth_date": "1700000000",
			}))
			errs[i] = err
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("login %d: unexpected error: %v", i, err)
		}
		if ids[i] != ids[0] {
			t.Fatalf("login %d: expected user %d, got %d", i, ids[0], ids[i])
		}
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestVerifyIdentityLoginRejectsBadSignature(t *testing.T) {
	svc, db, _ := newTestService(t)
	claims := signedClaims(map[string]string{"id": "7", "first_name": "Eve", "auth_date": "1"})
	claims["first_name"] = "Eva"

	_, err := svc.VerifyIdentityLogin(context.Background(), claims)
	assertKind(t, err, KindInvalidSignature)

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no user to be created, got %d", count)
	}
}

func TestVerifyIdentityLoginUnconfigured(t *testing.T) {
	db := newTestDB(t)
	svc := New(db, Options{})
	_, err := svc.VerifyIdentityLogin(context.Background(), map[string]string{"id": "1", "hash": "00"})
	assertKind(t, err, KindUnconfigured)
}

func TestTelegramDisplayName(t *testing.T) {
	tests := []struct {
		claims map[string]string
		want   string
	}{
		{map[string]string{"first_name": "Ivan", "last_name": "Petrov", "username": "ivanp"}, "Ivan Petrov"},
		{map[string]string{"first_name": "Ivan", "username": "ivanp"}, "Ivan"},
		{map[string]string{"last_name": "Petrov"}, "Petrov"},
		{map[string]string{"username": "ivanp"}, "ivanp"},
		{map[string]string{}, "User"},
	}
	for _, tt := range tests {
		if got := TelegramDisplayName(tt.claims); got != tt.want {
			t.Fatalf("claims %v: expected %q, got %q", tt.claims, tt.want, got)
		}
	}
}
