package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegisterInput struct {
	Username   string
	TelegramID *int64
	// Password is optional; users without one can only sign in through Telegram.
	Password string
}

// RegisterUser creates a new user.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, MissingField("username")
	}

	user := models.User{Username: username, TelegramID: in.TelegramID}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, internal("Failed to hash password", err)
		}
		hash := string(hashed)
		user.PasswordHash = &hash
	}

	err := s.inTx(ctx, "Failed to create user", func(tx *gorm.DB) error {
		if in.TelegramID != nil {
			var existing int64
			if err := tx.Model(&models.User{}).Where("telegram_id = ?", *in.TelegramID).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return invalidInput("telegram_id already registered")
			}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type LoginInput struct {
	Username string
	Password string
}

// LoginUser checks a username and password pair.
func (s *Service) LoginUser(ctx context.Context, in LoginInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, MissingField("username", "password")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND password_hash IS NOT NULL", in.Username).
		Order("id").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, internal("Failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, MissingField("id")
	}
	user, err := findUser(s.db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, internal("Failed to load user", err)
	}
	return user, nil
}

// TelegramDisplayName picks the name shown for a Telegram user.
func TelegramDisplayName(claims map[string]string) string {
	username := claims["username"]
	if username == "" {
		username = claims["first_name"]
	}
	if username == "" {
		username = "User"
	}
	full := strings.TrimSpace(claims["first_name"] + " " + claims["last_name"])
	if full == "" {
		return username
	}
	return full
}

// VerifyIdentityLogin checks a signed Telegram login payload and creates or
// refreshes the matching user.
func (s *Service) VerifyIdentityLogin(ctx context.Context, claims map[string]string) (*models.User, error) {
	if err := auth.VerifyTelegramLogin(claims, s.botToken); err != nil {
		return nil, &Error{Kind: KindOf(err), Message: err.Error(), Err: err}
	}

	telegramID, err := strconv.ParseInt(claims["id"], 10, 64)
	if err != nil || telegramID == 0 {
		return nil, invalidInput("invalid telegram id")
	}
	name := TelegramDisplayName(claims)
	var avatar *string
	if photo := claims["photo_url"]; photo != "" {
		avatar = &photo
	}

	// Upsert on telegram_id; concurrent first logins share one row.
	user := models.User{TelegramID: &telegramID, Username: name, AvatarURL: avatar}
	err = s.inTx(ctx, "Failed to save user", func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url", "updated_at"}),
		}).Create(&user).Error
		if err != nil {
			return err
		}
		var stored models.User
		if err := tx.Where("telegram_id = ?", telegramID).First(&stored).Error; err != nil {
			return err
		}
		user = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
