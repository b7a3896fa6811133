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

type TeamHandler struct {
	db           *gorm.DB
	orchestrator *gamification.Orchestrator
	activity     *activity.Recorder
}

func NewTeamHandler(db *gorm.DB, orchestrator *gamification.Orchestrator, recorder *activity.Recorder) *TeamHandler {
	return &TeamHandler{db: db, orchestrator: orchestrator, activity: recorder}
}

type TeamResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTeamResponse(team models.Team) TeamResponse {
	return TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Slug:        team.Slug,
		Description: team.Description,
		AvatarURL:   team.AvatarURL,
		CreatedAt:   team.CreatedAt,
	}
}

type CreateTeamRequest struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Team name" required:"true"`
		Slug        string `json:"slug" minLength:"1" maxLength:"100" doc:"URL-friendly identifier" required:"true"`
		Description string `json:"description" doc:"Team description"`
	}
}

type TeamOutput struct {
	Body TeamResponse
}

func (h *TeamHandler) HandleCreate(ctx context.Context, input *CreateTeamRequest) (*TeamOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	team := models.Team{
		Name:        input.Body.Name,
		Slug:        input.Body.Slug,
		Description: input.Body.Description,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		member := models.TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			Role:     models.TeamRoleOwner,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("Team slug already taken")
		}
		return nil, huma.Error500InternalServerError("Failed to create team: " + err.Error())
	}

	event := models.ActivityEvent{
		EventType: models.ActivityTeamCreated,
		UserID:    userID,
		TeamID:    &team.ID,
		Title:     fmt.Sprintf("New team created: %s", team.Name),
	}
	if err := h.activity.Record(event); err != nil {
		log.Printf("Failed to record team_created activity: %v", err)
	}

	return &TeamOutput{Body: toTeamResponse(team)}, nil
}

type ListTeamsRequest struct {
	Skip  int `query:"skip" minimum:"0" default:"0"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
}

type ListTeamsOutput struct {
	Body []TeamResponse
}

func (h *TeamHandler) HandleList(ctx context.Context, input *ListTeamsRequest) (*ListTeamsOutput, error) {
	var teams []models.Team
	if err := h.db.Offset(input.Skip).Limit(input.Limit).Find(&teams).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list teams")
	}

	out := &ListTeamsOutput{Body: make([]TeamResponse, 0, len(teams))}
	for _, team := range teams {
		out.Body = append(out.Body, toTeamResponse(team))
	}
	return out, nil
}

type GetTeamRequest struct {
	ID uint `path:"id"`
}

func (h *TeamHandler) HandleGet(ctx context.Context, input *GetTeamRequest) (*TeamOutput, error) {
	var team models.Team
	if err := h.db.First(&team, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Team not found")
	}
	return &TeamOutput{Body: toTeamResponse(team)}, nil
}

type JoinTeamRequest struct {
	ID uint `path:"id"`
}

type JoinTeamOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *TeamHandler) HandleJoin(ctx context.Context, input *JoinTeamRequest) (*JoinTeamOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var team models.Team
	if err := h.db.First(&team, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Team not found")
	}

	member := models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     models.TeamRoleMember,
		JoinedAt: time.Now().UTC(),
	}
	if err := h.db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("Already a member of this team")
		}
		return nil, huma.Error500InternalServerError("Failed to join team")
	}

	event := models.ActivityEvent{
		EventType: models.ActivityTeamJoined,
		UserID:    userID,
		TeamID:    &team.ID,
		Title:     fmt.Sprintf("New member joined team %s", team.Name),
	}
	if err := h.activity.Record(event); err != nil {
		log.Printf("Failed to record team_joined activity: %v", err)
	}

	if err := h.orchestrator.HandleAction(gamification.ActionTeamJoined, userID); err != nil {
		log.Printf("Failed to handle team_joined action: %v", err)
	}

	out := &JoinTeamOutput{}
	out.Body.Message = fmt.Sprintf("Joined team %s", team.Name)
	return out, nil
}

type TeamMembersRequest struct {
	ID uint `path:"id"`
}

type TeamMemberResponse struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Role     models.TeamRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
	XP       int             `json:"xp"`
	Level    int             `json:"level"`
}

type TeamMembersOutput struct {
	Body []TeamMemberResponse
}

func (h *TeamHandler) HandleMembers(ctx context.Context, input *TeamMembersRequest) (*TeamMembersOutput, error) {
	var team models.Team
	if err := h.db.First(&team, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Team not found")
	}

	var members []models.TeamMember
	if err := h.db.Preload("User").Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list members")
	}

	out := &TeamMembersOutput{Body: make([]TeamMemberResponse, 0, len(members))}
	for _, m := range members {
		out.Body = append(out.Body, TeamMemberResponse{
			UserID:   m.UserID,
			Username: m.User.Username,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
			XP:       m.User.XP,
			Level:    m.User.Level,
		})
	}
	return out, nil
}
