package gamification

import (
	"testing"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quest{},
		&models.QuestCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityEvent{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, xp int) models.User {
	t.Helper()

	user := models.User{
		Email:    username + "@example.com",
		Username: username,
		XP:       xp,
		Level:    LevelForXP(xp),
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}
