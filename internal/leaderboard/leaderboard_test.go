package leaderboard

import (
	"fmt"
	"testing"
	"time"

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
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Quest{},
		&models.QuestCompletion{},
		&models.LeaderboardEntry{},
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
		Level:    1,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createCompletion(t *testing.T, db *gorm.DB, questID, userID uint, xp int, at time.Time) {
	t.Helper()

	completion := models.QuestCompletion{
		QuestID:     questID,
		UserID:      userID,
		XPEarned:    xp,
		CompletedAt: at,
	}
	if err := db.Create(&completion).Error; err != nil {
		t.Fatalf("failed to create completion: %v", err)
	}
}

func TestGlobal_OrderingAndTieBreak(t *testing.T) {
	db := setupDB(t)
	low := createUser(t, db, "low", 50)
	tieFirst := createUser(t, db, "tie-first", 200)
	tieSecond := createUser(t, db, "tie-second", 200)
	top := createUser(t, db, "top", 500)

	entries, err := NewService(db).Global(10)
	if err != nil {
		t.Fatalf("Global returned error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantOrder := []uint{top.ID, tieFirst.ID, tieSecond.ID, low.ID}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("rank %d: expected user %d, got %d", i+1, want, entries[i].UserID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, entries[i].Rank)
		}
	}
}

func TestGlobal_Truncation(t *testing.T) {
	db := setupDB(t)
	for i := 0; i < 25; i++ {
		createUser(t, db, fmt.Sprintf("user%02d", i), i*10)
	}

	entries, err := NewService(db).Global(10)
	if err != nil {
		t.Fatalf("Global returned error: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[9].Rank != 10 {
		t.Errorf("expected ranks 1..10, got %d..%d", entries[0].Rank, entries[9].Rank)
	}
	if entries[0].XP != 240 {
		t.Errorf("expected top entry at 240 xp, got %d", entries[0].XP)
	}
}

func TestGlobal_SkipsInactive(t *testing.T) {
	db := setupDB(t)
	createUser(t, db, "active", 100)
	inactive := createUser(t, db, "inactive", 900)
	db.Model(&inactive).Update("is_active", false)

	entries, err := NewService(db).Global(10)
	if err != nil {
		t.Fatalf("Global returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Username != "active" {
		t.Errorf("expected only the active user, got %s", entries[0].Username)
	}
}

func TestTeam_MembersOnly(t *testing.T) {
	db := setupDB(t)
	member := createUser(t, db, "member", 300)
	outsider := createUser(t, db, "outsider", 999)
	team := models.Team{Name: "Team A", Slug: "team-a"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID, JoinedAt: time.Now()})

	entries, err := NewService(db).Team(team.ID, 10)
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].UserID != member.ID {
		t.Errorf("expected member %d, got %d", member.ID, entries[0].UserID)
	}
	_ = outsider
}

func TestTeam_EmptyTeam(t *testing.T) {
	db := setupDB(t)

	entries, err := NewService(db).Team(42, 10)
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty board, got %d entries", len(entries))
	}
}

func TestWeekly_WindowFiltering(t *testing.T) {
	db := setupDB(t)
	thisWeek := createUser(t, db, "this-week", 0)
	lastWeek := createUser(t, db, "last-week", 0)

	ref := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC) // Wednesday
	createCompletion(t, db, 1, thisWeek.ID, 80, ref.Add(-24*time.Hour))
	createCompletion(t, db, 1, lastWeek.ID, 500, ref.Add(-10*24*time.Hour))

	entries, key, err := NewService(db).Weekly(ref, 10)
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}
	if key != "2024-W05" {
		t.Errorf("expected period key 2024-W05, got %s", key)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry inside the week, got %d", len(entries))
	}
	if entries[0].UserID != thisWeek.ID || entries[0].XP != 80 {
		t.Errorf("expected user %d with 80 xp, got %+v", thisWeek.ID, entries[0])
	}
}

func TestMonthly_SumsWindowXP(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "monthly", 0)

	ref := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	createCompletion(t, db, 1, user.ID, 40, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	createCompletion(t, db, 2, user.ID, 60, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	createCompletion(t, db, 3, user.ID, 999, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC))

	entries, key, err := NewService(db).Monthly(ref, 10)
	if err != nil {
		t.Fatalf("Monthly returned error: %v", err)
	}
	if key != "2024-03" {
		t.Errorf("expected period key 2024-03, got %s", key)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].XP != 100 {
		t.Errorf("expected 100 xp summed inside the month, got %d", entries[0].XP)
	}
}

func TestProject_ScopedToProjectQuests(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "builder", 0)

	project := models.Project{Name: "Proj", Slug: "proj", OwnerID: user.ID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	inProject := models.Quest{Title: "in", XPReward: 70, ProjectID: &project.ID, IsActive: true}
	other := models.Quest{Title: "out", XPReward: 30, IsActive: true}
	db.Create(&inProject)
	db.Create(&other)

	now := time.Now().UTC()
	createCompletion(t, db, inProject.ID, user.ID, 70, now)
	createCompletion(t, db, other.ID, user.ID, 30, now)

	entries, err := NewService(db).Project(project.ID, 10)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].XP != 70 {
		t.Errorf("expected only project quest xp (70), got %d", entries[0].XP)
	}
}

func TestCache_FullReplace(t *testing.T) {
	db := setupDB(t)
	service := NewService(db)
	key := "2024-W05"
	now := time.Now().UTC()

	first := []Entry{
		{Rank: 1, UserID: 1, XP: 100, Level: 2, ComputedAt: now},
		{Rank: 2, UserID: 2, XP: 50, Level: 1, ComputedAt: now},
	}
	if err := service.Cache(models.LeaderboardWeekly, nil, &key, first); err != nil {
		t.Fatalf("Cache returned error: %v", err)
	}

	second := []Entry{
		{Rank: 1, UserID: 3, XP: 200, Level: 2, ComputedAt: now},
	}
	if err := service.Cache(models.LeaderboardWeekly, nil, &key, second); err != nil {
		t.Fatalf("second Cache returned error: %v", err)
	}

	var rows []models.LeaderboardEntry
	db.Where("leaderboard_type = ?", models.LeaderboardWeekly).Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("expected snapshot to be fully replaced, got %d rows", len(rows))
	}
	if rows[0].UserID != 3 || rows[0].Rank != 1 {
		t.Errorf("expected user 3 at rank 1, got user %d rank %d", rows[0].UserID, rows[0].Rank)
	}
}

func TestCache_ScopeIsolation(t *testing.T) {
	db := setupDB(t)
	service := NewService(db)
	now := time.Now().UTC()
	teamA, teamB := uint(1), uint(2)

	entries := []Entry{{Rank: 1, UserID: 1, XP: 10, Level: 1, ComputedAt: now}}
	if err := service.Cache(models.LeaderboardTeam, &teamA, nil, entries); err != nil {
		t.Fatalf("Cache returned error: %v", err)
	}
	if err := service.Cache(models.LeaderboardTeam, &teamB, nil, entries); err != nil {
		t.Fatalf("Cache returned error: %v", err)
	}

	// Replacing team A's snapshot must not touch team B's.
	if err := service.Cache(models.LeaderboardTeam, &teamA, nil, nil); err != nil {
		t.Fatalf("Cache returned error: %v", err)
	}

	var count int64
	db.Model(&models.LeaderboardEntry{}).
		Where("leaderboard_type = ? AND scope_id = ?", models.LeaderboardTeam, teamB).
		Count(&count)
	if count != 1 {
		t.Errorf("expected team B snapshot untouched, got %d rows", count)
	}
}

func TestPeriodKeys(t *testing.T) {
	jan := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	if got := WeekKey(jan); got != "2024-W05" {
		t.Errorf("WeekKey: expected 2024-W05, got %s", got)
	}
	if got := MonthKey(jan); got != "2024-01" {
		t.Errorf("MonthKey: expected 2024-01, got %s", got)
	}

	// ISO week years can differ from calendar years at the boundary.
	newYear := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := WeekKey(newYear); got != "2020-W53" {
		t.Errorf("WeekKey: expected 2020-W53, got %s", got)
	}
}
