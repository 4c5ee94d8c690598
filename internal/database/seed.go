package database

import (
	"fmt"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultAchievements is the catalog installed on startup.
var DefaultAchievements = []models.Achievement{
	{ID: 1, Name: "First Night", Description: "Play your first game", Icon: "moon"},
	{ID: 2, Name: "First Win", Description: "Win a game", Icon: "trophy"},
	{ID: 3, Name: "Regular", Description: "Play 10 games", Icon: "users"},
	{ID: 4, Name: "Veteran", Description: "Play 50 games", Icon: "shield"},
	{ID: 5, Name: "Champion", Description: "Win 10 games", Icon: "crown"},
}

// SeedAchievements inserts the default catalog, leaving existing rows untouched.
func SeedAchievements(db *gorm.DB) error {
	catalog := append([]models.Achievement(nil), DefaultAchievements...)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&catalog).Error
	if err != nil {
		return fmt.Errorf("failed to seed achievements: %w", err)
	}
	return nil
}
