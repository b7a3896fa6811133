package models

import (
	"time"

	"gorm.io/gorm"
)

type LeaderboardType string

const (
	LeaderboardGlobal  LeaderboardType = "global"
	LeaderboardTeam    LeaderboardType = "team"
	LeaderboardProject LeaderboardType = "project"
	LeaderboardWeekly  LeaderboardType = "weekly"
	LeaderboardMonthly LeaderboardType = "monthly"
)

// LeaderboardEntry is a computed ranking snapshot. Rows are disposable
// projections of user state, safe to delete and regenerate at any time.
type LeaderboardEntry struct {
	gorm.Model
	LeaderboardType LeaderboardType `gorm:"index:idx_board" json:"leaderboard_type"`

	// Team or project ID for scoped leaderboards.
	ScopeID *uint `gorm:"index:idx_board" json:"scope_id"`

	UserID uint `json:"user_id"`
	Rank   int  `json:"rank"`
	XP     int  `json:"xp"`
	Level  int  `json:"level"`

	// e.g. "2024-W01" or "2024-01" for time-windowed leaderboards.
	PeriodKey *string `gorm:"index:idx_board" json:"period_key"`

	ComputedAt time.Time `json:"computed_at"`
	User       User      `json:"-"`
}
