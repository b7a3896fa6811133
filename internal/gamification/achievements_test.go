package gamification

import (
	"testing"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

func createAchievement(t *testing.T, db *gorm.DB, name string, xpReward int) models.Achievement {
	t.Helper()

	achievement := models.Achievement{
		Name:     name,
		XPReward: xpReward,
		Points:   10,
		IsActive: true,
	}
	if err := db.Create(&achievement).Error; err != nil {
		t.Fatalf("failed to create achievement: %v", err)
	}
	return achievement
}

func TestAwardOrUpdate_NewGrant(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice", 0)
	achievement := createAchievement(t, db, "First Steps", 50)

	ua, completed, err := NewTracker(db).AwardOrUpdate(user.ID, achievement)
	if err != nil {
		t.Fatalf("AwardOrUpdate returned error: %v", err)
	}
	if !completed {
		t.Error("expected newly completed")
	}
	if !ua.IsCompleted {
		t.Error("expected is_completed true")
	}
	if ua.Progress != 1 || ua.Target != 1 {
		t.Errorf("expected progress=target=1, got %d/%d", ua.Progress, ua.Target)
	}
	if ua.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestAwardOrUpdate_Idempotent(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "bob", 0)
	achievement := createAchievement(t, db, "Team Player", 25)
	tracker := NewTracker(db)

	first, completed, err := tracker.AwardOrUpdate(user.ID, achievement)
	if err != nil || !completed {
		t.Fatalf("first grant: completed=%v err=%v", completed, err)
	}

	second, completed, err := tracker.AwardOrUpdate(user.ID, achievement)
	if err != nil {
		t.Fatalf("second grant returned error: %v", err)
	}
	if completed {
		t.Error("second grant must not report newly completed")
	}
	if second.ID != first.ID {
		t.Errorf("expected same record, got %d and %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.UserAchievement{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 user achievement row, got %d", count)
	}
}

func TestAwardOrUpdate_CompletesInProgress(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "carol", 0)
	achievement := createAchievement(t, db, "Grinder", 100)

	partial := models.UserAchievement{
		UserID:        user.ID,
		AchievementID: achievement.ID,
		Progress:      2,
		Target:        5,
	}
	if err := db.Create(&partial).Error; err != nil {
		t.Fatalf("failed to seed progress: %v", err)
	}

	ua, completed, err := NewTracker(db).AwardOrUpdate(user.ID, achievement)
	if err != nil {
		t.Fatalf("AwardOrUpdate returned error: %v", err)
	}
	if !completed {
		t.Error("expected completion of in-progress record")
	}
	if ua.Progress != ua.Target {
		t.Errorf("expected progress clamped to target, got %d/%d", ua.Progress, ua.Target)
	}
	if !ua.IsCompleted || ua.CompletedAt == nil {
		t.Error("expected record marked completed with timestamp")
	}
}
