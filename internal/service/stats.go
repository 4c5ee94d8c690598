package service

import (
	"context"
	"math"
	"time"

	"mafia/backend/internal/models"
)

// LeaderboardLimit caps the number of leaderboard rows.
const LeaderboardLimit = 50

type LeaderboardEntry struct {
	ID         uint
	Username   string
	TotalGames int
	TotalWins  int
	WinRate    int
}

// GetLeaderboard ranks users who played at least one game by wins, then win rate.
func (s *Service) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("total_games > 0").
		Order("total_wins DESC").
		Order("ROUND(total_wins * 100.0 / total_games) DESC").
		Order("id").
		Limit(LeaderboardLimit).
		Find(&users).Error
	if err != nil {
		return nil, internal("Failed to load leaderboard", err)
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			ID:         u.ID,
			Username:   u.Username,
			TotalGames: u.TotalGames,
			TotalWins:  u.TotalWins,
			WinRate:    winRate(u.TotalWins, u.TotalGames),
		}
	}
	return entries, nil
}

func winRate(wins, games int) int {
	if games <= 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(games) * 100))
}

type AchievementStatus struct {
	ID          uint
	Name        string
	Description string
	Icon        string
	UnlockedAt  *time.Time
}

func (a AchievementStatus) Unlocked() bool { return a.UnlockedAt != nil }

// GetUserAchievements lists the whole catalog with the user's unlock times.
func (s *Service) GetUserAchievements(ctx context.Context, userID uint) ([]AchievementStatus, error) {
	if userID == 0 {
		return nil, MissingField("user_id")
	}

	var achievements []AchievementStatus
	err := s.db.WithContext(ctx).
		Model(&models.Achievement{}).
		Select("achievements.id, achievements.name, achievements.description, achievements.icon, user_achievements.unlocked_at").
		Joins("LEFT JOIN user_achievements ON user_achievements.achievement_id = achievements.id AND user_achievements.user_id = ?", userID).
		Order("achievements.id").
		Scan(&achievements).Error
	if err != nil {
		return nil, internal("Failed to load achievements", err)
	}
	return achievements, nil
}
