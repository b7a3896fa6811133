package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questforge/questforge-api/internal/auth"
	"github.com/questforge/questforge-api/internal/gamification"
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type GetUserRequest struct {
	ID uint `path:"id"`
}

type UserOutput struct {
	Body auth.UserResponse
}

func (h *UserHandler) HandleGet(ctx context.Context, input *GetUserRequest) (*UserOutput, error) {
	var user models.User
	if err := h.db.First(&user, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}
	return &UserOutput{Body: auth.ToUserResponse(user)}, nil
}

type UserProfileRequest struct {
	ID uint `path:"id"`
}

type EarnedBadge struct {
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"earned_at"`
}

type UnlockedAchievement struct {
	Name        string     `json:"name"`
	Points      int        `json:"points"`
	CompletedAt *time.Time `json:"completed_at"`
}

type UserProfileOutput struct {
	Body struct {
		User            auth.UserResponse     `json:"user"`
		QuestsCompleted int64                 `json:"quests_completed"`
		NextLevelXP     int                   `json:"next_level_xp"`
		XPToNextLevel   int                   `json:"xp_to_next_level"`
		Badges          []EarnedBadge         `json:"badges"`
		Achievements    []UnlockedAchievement `json:"achievements"`
	}
}

func (h *UserHandler) HandleProfile(ctx context.Context, input *UserProfileRequest) (*UserProfileOutput, error) {
	var user models.User
	if err := h.db.First(&user, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	out := &UserProfileOutput{}
	out.Body.User = auth.ToUserResponse(user)
	out.Body.NextLevelXP = gamification.XPForLevel(user.Level + 1)
	out.Body.XPToNextLevel = out.Body.NextLevelXP - user.XP

	if err := h.db.Model(&models.QuestCompletion{}).Where("user_id = ?", user.ID).Count(&out.Body.QuestsCompleted).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to count completions")
	}

	var userBadges []models.UserBadge
	if err := h.db.Preload("Badge").Where("user_id = ?", user.ID).Find(&userBadges).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load badges")
	}
	out.Body.Badges = make([]EarnedBadge, 0, len(userBadges))
	for _, ub := range userBadges {
		out.Body.Badges = append(out.Body.Badges, EarnedBadge{
			Name:     ub.Badge.Name,
			Icon:     ub.Badge.Icon,
			EarnedAt: ub.EarnedAt,
		})
	}

	var userAchievements []models.UserAchievement
	err := h.db.Preload("Achievement").
		Where("user_id = ? AND is_completed = ?", user.ID, true).
		Find(&userAchievements).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load achievements")
	}
	out.Body.Achievements = make([]UnlockedAchievement, 0, len(userAchievements))
	for _, ua := range userAchievements {
		out.Body.Achievements = append(out.Body.Achievements, UnlockedAchievement{
			Name:        ua.Achievement.Name,
			Points:      ua.Achievement.Points,
			CompletedAt: ua.CompletedAt,
		})
	}

	return out, nil
}

type UpdateMeRequest struct {
	Body struct {
		FullName  *string `json:"full_name,omitempty"`
		AvatarURL *string `json:"avatar_url,omitempty"`
		Bio       *string `json:"bio,omitempty"`
	}
}

func (h *UserHandler) HandleUpdateMe(ctx context.Context, input *UpdateMeRequest) (*UserOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	if input.Body.FullName != nil {
		user.FullName = *input.Body.FullName
	}
	if input.Body.AvatarURL != nil {
		user.AvatarURL = *input.Body.AvatarURL
	}
	if input.Body.Bio != nil {
		user.Bio = *input.Body.Bio
	}

	if err := h.db.Save(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update user")
	}
	return &UserOutput{Body: auth.ToUserResponse(user)}, nil
}
