package models

import (
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityUserRegistered      ActivityType = "user_registered"
	ActivityUserLevelUp         ActivityType = "user_level_up"
	ActivityQuestCompleted      ActivityType = "quest_completed"
	ActivityQuestCreated        ActivityType = "quest_created"
	ActivityProjectCreated      ActivityType = "project_created"
	ActivityProjectPublished    ActivityType = "project_published"
	ActivityTeamCreated         ActivityType = "team_created"
	ActivityTeamJoined          ActivityType = "team_joined"
	ActivityBadgeEarned         ActivityType = "badge_earned"
	ActivityAchievementUnlocked ActivityType = "achievement_unlocked"
)

type ActivityEvent struct {
	gorm.Model
	EventType ActivityType `gorm:"index" json:"event_type"`
	UserID    uint         `gorm:"index" json:"user_id"`

	ProjectID     *uint `json:"project_id"`
	TeamID        *uint `json:"team_id"`
	QuestID       *uint `json:"quest_id"`
	BadgeID       *uint `json:"badge_id"`
	AchievementID *uint `json:"achievement_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	XPAmount    int    `gorm:"default:0" json:"xp_amount"`
	IsPublic    bool   `gorm:"default:true" json:"is_public"`
	User        User   `json:"-"`
}
