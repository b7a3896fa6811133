package handlers

import (
	"context"
	"testing"

	"github.com/questforge/questforge-api/internal/activity"
	"github.com/questforge/questforge-api/internal/auth"
	"github.com/questforge/questforge-api/internal/config"
	"github.com/questforge/questforge-api/internal/gamification"
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the handler stack against an in-memory database, the way
// main does it minus the HTTP server.
type testEnv struct {
	db           *gorm.DB
	cfg          *config.Config
	authHandler  *auth.AuthHandler
	orchestrator *gamification.Orchestrator
	activity     *activity.Recorder
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Quest{},
		&models.QuestCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityEvent{},
		&models.LeaderboardEntry{},
		&models.APIKey{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	recorder := activity.NewRecorder(db)
	return &testEnv{
		db:           db,
		cfg:          cfg,
		authHandler:  auth.NewAuthHandler(cfg, db, recorder),
		orchestrator: gamification.NewOrchestrator(db, recorder, nil, nil),
		activity:     recorder,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) models.User {
	t.Helper()

	user := models.User{
		Email:    username + "@example.com",
		Username: username,
		XP:       0,
		Level:    1,
		IsActive: true,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// authedCtx returns a context carrying the user ID the way AuthMiddleware
// seeds it for authenticated requests.
func authedCtx(userID uint) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, userID)
}
