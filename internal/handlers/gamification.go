package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// GamificationHandler serves the read API for badge and achievement
// definitions and per-user awards. Awarding itself happens only through
// the orchestrator.
type GamificationHandler struct {
	db *gorm.DB
}

func NewGamificationHandler(db *gorm.DB) *GamificationHandler {
	return &GamificationHandler{db: db}
}

type BadgeResponse struct {
	ID               uint                    `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	Icon             string                  `json:"icon"`
	Category         models.BadgeCategory    `json:"category"`
	RequirementType  models.BadgeRequirement `json:"requirement_type"`
	RequirementValue int                     `json:"requirement_value"`
	XPBonus          int                     `json:"xp_bonus"`
}

func toBadgeResponse(badge models.Badge) BadgeResponse {
	return BadgeResponse{
		ID:               badge.ID,
		Name:             badge.Name,
		Description:      badge.Description,
		Icon:             badge.Icon,
		Category:         badge.Category,
		RequirementType:  badge.RequirementType,
		RequirementValue: badge.RequirementValue,
		XPBonus:          badge.XPBonus,
	}
}

type ListBadgesRequest struct{}

type ListBadgesOutput struct {
	Body []BadgeResponse
}

func (h *GamificationHandler) HandleListBadges(ctx context.Context, input *ListBadgesRequest) (*ListBadgesOutput, error) {
	var badges []models.Badge
	if err := h.db.Where("is_active = ?", true).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list badges")
	}

	out := &ListBadgesOutput{Body: make([]BadgeResponse, 0, len(badges))}
	for _, badge := range badges {
		out.Body = append(out.Body, toBadgeResponse(badge))
	}
	return out, nil
}

type GetBadgeRequest struct {
	ID uint `path:"id"`
}

type BadgeOutput struct {
	Body BadgeResponse
}

func (h *GamificationHandler) HandleGetBadge(ctx context.Context, input *GetBadgeRequest) (*BadgeOutput, error) {
	var badge models.Badge
	if err := h.db.First(&badge, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Badge not found")
	}
	return &BadgeOutput{Body: toBadgeResponse(badge)}, nil
}

type UserBadgesRequest struct {
	ID uint `path:"id"`
}

type UserBadgeResponse struct {
	Badge    BadgeResponse `json:"badge"`
	EarnedAt time.Time     `json:"earned_at"`
}

type UserBadgesOutput struct {
	Body []UserBadgeResponse
}

func (h *GamificationHandler) HandleUserBadges(ctx context.Context, input *UserBadgesRequest) (*UserBadgesOutput, error) {
	var userBadges []models.UserBadge
	err := h.db.Preload("Badge").Where("user_id = ?", input.ID).Find(&userBadges).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list user badges")
	}

	out := &UserBadgesOutput{Body: make([]UserBadgeResponse, 0, len(userBadges))}
	for _, ub := range userBadges {
		out.Body = append(out.Body, UserBadgeResponse{
			Badge:    toBadgeResponse(ub.Badge),
			EarnedAt: ub.EarnedAt,
		})
	}
	return out, nil
}

type AchievementResponse struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Icon        string                     `json:"icon"`
	Category    models.AchievementCategory `json:"category"`
	Points      int                        `json:"points"`
	XPReward    int                        `json:"xp_reward"`
	RarityScore int                        `json:"rarity_score"`
	IsSecret    bool                       `json:"is_secret"`
}

func toAchievementResponse(achievement models.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          achievement.ID,
		Name:        achievement.Name,
		Description: achievement.Description,
		Icon:        achievement.Icon,
		Category:    achievement.Category,
		Points:      achievement.Points,
		XPReward:    achievement.XPReward,
		RarityScore: achievement.RarityScore,
		IsSecret:    achievement.IsSecret,
	}
}

type ListAchievementsRequest struct {
	IncludeSecret bool `query:"include_secret" default:"false" doc:"Include secret achievements"`
}

type ListAchievementsOutput struct {
	Body []AchievementResponse
}

func (h *GamificationHandler) HandleListAchievements(ctx context.Context, input *ListAchievementsRequest) (*ListAchievementsOutput, error) {
	query := h.db.Where("is_active = ?", true)
	if !input.IncludeSecret {
		query = query.Where("is_secret = ?", false)
	}

	var achievements []models.Achievement
	if err := query.Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list achievements")
	}

	out := &ListAchievementsOutput{Body: make([]AchievementResponse, 0, len(achievements))}
	for _, achievement := range achievements {
		out.Body = append(out.Body, toAchievementResponse(achievement))
	}
	return out, nil
}

type GetAchievementRequest struct {
	ID uint `path:"id"`
}

type AchievementOutput struct {
	Body AchievementResponse
}

func (h *GamificationHandler) HandleGetAchievement(ctx context.Context, input *GetAchievementRequest) (*AchievementOutput, error) {
	var achievement models.Achievement
	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Achievement not found")
	}
	return &AchievementOutput{Body: toAchievementResponse(achievement)}, nil
}

type UserAchievementsRequest struct {
	ID uint `path:"id"`
}

type UserAchievementResponse struct {
	Achievement AchievementResponse `json:"achievement"`
	Progress    int                 `json:"progress"`
	Target      int                 `json:"target"`
	IsCompleted bool                `json:"is_completed"`
	CompletedAt *time.Time          `json:"completed_at"`
}

type UserAchievementsOutput struct {
	Body []UserAchievementResponse
}

func (h *GamificationHandler) HandleUserAchievements(ctx context.Context, input *UserAchievementsRequest) (*UserAchievementsOutput, error) {
	var userAchievements []models.UserAchievement
	err := h.db.Preload("Achievement").Where("user_id = ?", input.ID).Find(&userAchievements).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list user achievements")
	}

	out := &UserAchievementsOutput{Body: make([]UserAchievementResponse, 0, len(userAchievements))}
	for _, ua := range userAchievements {
		out.Body = append(out.Body, UserAchievementResponse{
			Achievement: toAchievementResponse(ua.Achievement),
			Progress:    ua.Progress,
			Target:      ua.Target,
			IsCompleted: ua.IsCompleted,
			CompletedAt: ua.CompletedAt,
		})
	}
	return out, nil
}
