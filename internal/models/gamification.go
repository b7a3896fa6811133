package models

import (
	"time"

	"gorm.io/gorm"
)

// BadgeRequirement is the closed set of badge requirement kinds. Values
// arriving from stored data outside this set never satisfy a badge.
type BadgeRequirement string

const (
	RequirementQuestCount BadgeRequirement = "quest_count"
	RequirementXPTotal    BadgeRequirement = "xp_total"
	RequirementLevel      BadgeRequirement = "level"
)

type BadgeCategory string

const (
	BadgeCategoryAchievement BadgeCategory = "achievement"
	BadgeCategoryMilestone   BadgeCategory = "milestone"
	BadgeCategorySkill       BadgeCategory = "skill"
	BadgeCategorySpecial     BadgeCategory = "special"
)

type Badge struct {
	gorm.Model
	Name        string        `gorm:"uniqueIndex" json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `gorm:"default:achievement" json:"category"`

	RequirementType  BadgeRequirement `json:"requirement_type"`
	RequirementValue int              `json:"requirement_value"`

	XPBonus  int  `gorm:"default:0" json:"xp_bonus"`
	IsActive bool `gorm:"default:true" json:"is_active"`
}

type UserBadge struct {
	gorm.Model
	UserID   uint      `gorm:"uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
	User     User      `json:"-"`
	Badge    Badge     `json:"badge"`
}

type AchievementCategory string

const (
	AchievementCategoryBeginner     AchievementCategory = "beginner"
	AchievementCategoryIntermediate AchievementCategory = "intermediate"
	AchievementCategoryAdvanced     AchievementCategory = "advanced"
	AchievementCategoryExpert       AchievementCategory = "expert"
	AchievementCategoryLegendary    AchievementCategory = "legendary"
)

type Achievement struct {
	gorm.Model
	Name        string              `gorm:"uniqueIndex" json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `gorm:"default:beginner" json:"category"`

	Points   int `gorm:"default:10" json:"points"`
	XPReward int `gorm:"default:50" json:"xp_reward"`

	// 100 = common, 1 = very rare.
	RarityScore int `gorm:"default:100" json:"rarity_score"`

	IsSecret bool `gorm:"default:false" json:"is_secret"`
	IsActive bool `gorm:"default:true" json:"is_active"`
}

type UserAchievement struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint `gorm:"uniqueIndex:idx_user_achievement" json:"achievement_id"`

	// Progress never decreases and never exceeds Target; completion
	// clamps it to Target and is permanent.
	Progress int `gorm:"default:0" json:"progress"`
	Target   int `gorm:"default:1" json:"target"`

	IsCompleted bool        `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time  `json:"completed_at"`
	StartedAt   time.Time   `json:"started_at"`
	User        User        `json:"-"`
	Achievement Achievement `json:"achievement"`
}
