package database

import (
	"log"

	"github.com/questforge/questforge-api/internal/config"
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Quest{},
		&models.QuestCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.LeaderboardEntry{},
		&models.ActivityEvent{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
