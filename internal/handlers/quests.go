package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questforge/questforge-api/internal/activity"
	"github.com/questforge/questforge-api/internal/auth"
	"github.com/questforge/questforge-api/internal/gamification"
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

type QuestHandler struct {
	db           *gorm.DB
	orchestrator *gamification.Orchestrator
	activity     *activity.Recorder
}

func NewQuestHandler(db *gorm.DB, orchestrator *gamification.Orchestrator, recorder *activity.Recorder) *QuestHandler {
	return &QuestHandler{db: db, orchestrator: orchestrator, activity: recorder}
}

type QuestResponse struct {
	ID           uint                   `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Difficulty   models.QuestDifficulty `json:"difficulty"`
	Category     models.QuestCategory   `json:"category"`
	XPReward     int                    `json:"xp_reward"`
	ProjectID    *uint                  `json:"project_id"`
	IsActive     bool                   `json:"is_active"`
	IsRepeatable bool                   `json:"is_repeatable"`
	CreatedAt    time.Time              `json:"created_at"`
}

func toQuestResponse(quest models.Quest) QuestResponse {
	return QuestResponse{
		ID:           quest.ID,
		Title:        quest.Title,
		Description:  quest.Description,
		Difficulty:   quest.Difficulty,
		Category:     quest.Category,
		XPReward:     quest.XPReward,
		ProjectID:    quest.ProjectID,
		IsActive:     quest.IsActive,
		IsRepeatable: quest.IsRepeatable,
		CreatedAt:    quest.CreatedAt,
	}
}

type CreateQuestRequest struct {
	Body struct {
		Title        string                 `json:"title" minLength:"1" maxLength:"200" doc:"Quest title" required:"true"`
		Description  string                 `json:"description" doc:"What needs to be done" required:"true"`
		Difficulty   models.QuestDifficulty `json:"difficulty" enum:"easy,medium,hard,expert" default:"easy"`
		Category     models.QuestCategory   `json:"category" enum:"setup,development,testing,deployment,documentation,community" default:"development"`
		XPReward     int                    `json:"xp_reward" minimum:"0" default:"10" doc:"XP awarded on completion"`
		ProjectID    *uint                  `json:"project_id,omitempty" doc:"Bind the quest to a project; omit for a global quest"`
		IsRepeatable bool                   `json:"is_repeatable" doc:"Whether the quest can be completed more than once"`
	}
}

type QuestOutput struct {
	Body QuestResponse
}

func (h *QuestHandler) HandleCreate(ctx context.Context, input *CreateQuestRequest) (*QuestOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	quest := models.Quest{
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Difficulty:   input.Body.Difficulty,
		Category:     input.Body.Category,
		XPReward:     input.Body.XPReward,
		ProjectID:    input.Body.ProjectID,
		IsActive:     true,
		IsRepeatable: input.Body.IsRepeatable,
	}
	if err := h.db.Create(&quest).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create quest: " + err.Error())
	}

	event := models.ActivityEvent{
		EventType: models.ActivityQuestCreated,
		UserID:    userID,
		QuestID:   &quest.ID,
		Title:     fmt.Sprintf("New quest available: %s", quest.Title),
	}
	if err := h.activity.Record(event); err != nil {
		log.Printf("Failed to record quest_created activity: %v", err)
	}

	return &QuestOutput{Body: toQuestResponse(quest)}, nil
}

type ListQuestsRequest struct {
	Skip       int  `query:"skip" minimum:"0" default:"0"`
	Limit      int  `query:"limit" minimum:"1" maximum:"100" default:"20"`
	ActiveOnly bool `query:"active_only" default:"true"`
}

type ListQuestsOutput struct {
	Body []QuestResponse
}

func (h *QuestHandler) HandleList(ctx context.Context, input *ListQuestsRequest) (*ListQuestsOutput, error) {
	query := h.db.Model(&models.Quest{})
	if input.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var quests []models.Quest
	if err := query.Offset(input.Skip).Limit(input.Limit).Find(&quests).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list quests")
	}

	out := &ListQuestsOutput{Body: make([]QuestResponse, 0, len(quests))}
	for _, quest := range quests {
		out.Body = append(out.Body, toQuestResponse(quest))
	}
	return out, nil
}

type ListGlobalQuestsRequest struct{}

func (h *QuestHandler) HandleListGlobal(ctx context.Context, input *ListGlobalQuestsRequest) (*ListQuestsOutput, error) {
	var quests []models.Quest
	err := h.db.Where("project_id IS NULL AND is_active = ?", true).Find(&quests).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list global quests")
	}

	out := &ListQuestsOutput{Body: make([]QuestResponse, 0, len(quests))}
	for _, quest := range quests {
		out.Body = append(out.Body, toQuestResponse(quest))
	}
	return out, nil
}

type GetQuestRequest struct {
	ID uint `path:"id"`
}

func (h *QuestHandler) HandleGet(ctx context.Context, input *GetQuestRequest) (*QuestOutput, error) {
	var quest models.Quest
	if err := h.db.First(&quest, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Quest not found")
	}
	return &QuestOutput{Body: toQuestResponse(quest)}, nil
}

type UpdateQuestRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Title        *string `json:"title,omitempty"`
		Description  *string `json:"description,omitempty"`
		XPReward     *int    `json:"xp_reward,omitempty" minimum:"0"`
		IsActive     *bool   `json:"is_active,omitempty"`
		IsRepeatable *bool   `json:"is_repeatable,omitempty"`
	}
}

func (h *QuestHandler) HandleUpdate(ctx context.Context, input *UpdateQuestRequest) (*QuestOutput, error) {
	if _, ok := ctx.Value(auth.UserIDKey).(uint); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var quest models.Quest
	if err := h.db.First(&quest, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Quest not found")
	}

	if input.Body.Title != nil {
		quest.Title = *input.Body.Title
	}
	if input.Body.Description != nil {
		quest.Description = *input.Body.Description
	}
	if input.Body.XPReward != nil {
		quest.XPReward = *input.Body.XPReward
	}
	if input.Body.IsActive != nil {
		quest.IsActive = *input.Body.IsActive
	}
	if input.Body.IsRepeatable != nil {
		quest.IsRepeatable = *input.Body.IsRepeatable
	}

	if err := h.db.Save(&quest).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update quest")
	}
	return &QuestOutput{Body: toQuestResponse(quest)}, nil
}

type CompleteQuestRequest struct {
	ID uint `path:"id"`
}

type CompletionResponse struct {
	ID          uint      `json:"id"`
	QuestID     uint      `json:"quest_id"`
	UserID      uint      `json:"user_id"`
	XPEarned    int       `json:"xp_earned"`
	CompletedAt time.Time `json:"completed_at"`
}

type CompleteQuestOutput struct {
	Body struct {
		Completion CompletionResponse `json:"completion"`
		XP         int                `json:"xp"`
		Level      int                `json:"level"`
		LeveledUp  bool               `json:"leveled_up"`
		NewBadges  []string           `json:"new_badges"`
	}
}

func (h *QuestHandler) HandleComplete(ctx context.Context, input *CompleteQuestRequest) (*CompleteQuestOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var quest models.Quest
	if err := h.db.First(&quest, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Quest not found")
	}

	result, err := h.orchestrator.CompleteQuest(quest, userID)
	if err != nil {
		switch {
		case errors.Is(err, gamification.ErrQuestInactive):
			return nil, huma.Error400BadRequest("Quest is not active")
		case errors.Is(err, gamification.ErrAlreadyCompleted):
			return nil, huma.Error409Conflict("Quest already completed")
		default:
			return nil, huma.Error500InternalServerError("Failed to complete quest: " + err.Error())
		}
	}

	var completions int64
	if err := h.db.Model(&models.QuestCompletion{}).Where("user_id = ?", userID).Count(&completions).Error; err == nil && completions == 1 {
		if err := h.orchestrator.HandleAction(gamification.ActionFirstQuest, userID); err != nil {
			log.Printf("Failed to handle first_quest action: %v", err)
		}
	}

	out := &CompleteQuestOutput{}
	out.Body.Completion = CompletionResponse{
		ID:          result.Completion.ID,
		QuestID:     result.Completion.QuestID,
		UserID:      result.Completion.UserID,
		XPEarned:    result.Completion.XPEarned,
		CompletedAt: result.Completion.CompletedAt,
	}
	out.Body.XP = result.User.XP
	out.Body.Level = result.User.Level
	out.Body.LeveledUp = result.LeveledUp
	out.Body.NewBadges = make([]string, 0, len(result.NewBadges))
	for _, ub := range result.NewBadges {
		out.Body.NewBadges = append(out.Body.NewBadges, ub.Badge.Name)
	}
	return out, nil
}

type MyCompletionsRequest struct{}

type MyCompletionsOutput struct {
	Body []CompletionResponse
}

func (h *QuestHandler) HandleMyCompletions(ctx context.Context, input *MyCompletionsRequest) (*MyCompletionsOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var completions []models.QuestCompletion
	err := h.db.Where("user_id = ?", userID).Order("completed_at DESC").Find(&completions).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list completions")
	}

	out := &MyCompletionsOutput{Body: make([]CompletionResponse, 0, len(completions))}
	for _, c := range completions {
		out.Body = append(out.Body, CompletionResponse{
			ID:          c.ID,
			QuestID:     c.QuestID,
			UserID:      c.UserID,
			XPEarned:    c.XPEarned,
			CompletedAt: c.CompletedAt,
		})
	}
	return out, nil
}

type QuestStatusRequest struct {
	ID uint `path:"id"`
}

type QuestStatusOutput struct {
	Body struct {
		QuestID      uint `json:"quest_id"`
		IsCompleted  bool `json:"is_completed"`
		IsRepeatable bool `json:"is_repeatable"`
		CanComplete  bool `json:"can_complete"`
	}
}

func (h *QuestHandler) HandleStatus(ctx context.Context, input *QuestStatusRequest) (*QuestStatusOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var quest models.Quest
	if err := h.db.First(&quest, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Quest not found")
	}

	completed, err := gamification.NewRecorder(h.db).IsCompletedBy(quest.ID, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check completion status")
	}

	out := &QuestStatusOutput{}
	out.Body.QuestID = quest.ID
	out.Body.IsCompleted = completed
	out.Body.IsRepeatable = quest.IsRepeatable
	out.Body.CanComplete = quest.IsActive && (quest.IsRepeatable || !completed)
	return out, nil
}
