package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestDifficulty string

const (
	QuestDifficultyEasy   QuestDifficulty = "easy"
	QuestDifficultyMedium QuestDifficulty = "medium"
	QuestDifficultyHard   QuestDifficulty = "hard"
	QuestDifficultyExpert QuestDifficulty = "expert"
)

type QuestCategory string

const (
	QuestCategorySetup         QuestCategory = "setup"
	QuestCategoryDevelopment   QuestCategory = "development"
	QuestCategoryTesting       QuestCategory = "testing"
	QuestCategoryDeployment    QuestCategory = "deployment"
	QuestCategoryDocumentation QuestCategory = "documentation"
	QuestCategoryCommunity     QuestCategory = "community"
)

type Quest struct {
	gorm.Model
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  QuestDifficulty `gorm:"default:easy" json:"difficulty"`
	Category    QuestCategory   `gorm:"default:development" json:"category"`

	XPReward int `gorm:"default:10" json:"xp_reward"`

	// Nil for global quests that are not tied to a project.
	ProjectID *uint    `json:"project_id"`
	Project   *Project `json:"-"`

	IsActive     bool `gorm:"default:true" json:"is_active"`
	IsRepeatable bool `gorm:"default:false" json:"is_repeatable"`
}

// QuestCompletion records one XP award event. Rows are append-only.
// For non-repeatable quests at most one row may exist per (quest, user);
// the repeatable flag is data rather than schema, so the pair index stays
// non-unique and the completion transaction enforces the constraint.
type QuestCompletion struct {
	gorm.Model
	QuestID     uint      `gorm:"index:idx_quest_user" json:"quest_id"`
	UserID      uint      `gorm:"index:idx_quest_user" json:"user_id"`
	XPEarned    int       `json:"xp_earned"`
	CompletedAt time.Time `gorm:"index" json:"completed_at"`
	Quest       Quest     `json:"-"`
	User        User      `json:"-"`
}
