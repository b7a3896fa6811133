package handlers

import (
	"context"
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

type ProjectHandler struct {
	db           *gorm.DB
	orchestrator *gamification.Orchestrator
	activity     *activity.Recorder
}

func NewProjectHandler(db *gorm.DB, orchestrator *gamification.Orchestrator, recorder *activity.Recorder) *ProjectHandler {
	return &ProjectHandler{db: db, orchestrator: orchestrator, activity: recorder}
}

type ProjectResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	OwnerID     uint                 `json:"owner_id"`
	TeamID      *uint                `json:"team_id"`
	PublishedAt *time.Time           `json:"published_at"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Slug:        project.Slug,
		Description: project.Description,
		Status:      project.Status,
		OwnerID:     project.OwnerID,
		TeamID:      project.TeamID,
		PublishedAt: project.PublishedAt,
		CreatedAt:   project.CreatedAt,
	}
}

type CreateProjectRequest struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Project name" required:"true"`
		Slug        string `json:"slug" minLength:"1" maxLength:"100" doc:"URL-friendly identifier" required:"true"`
		Description string `json:"description" doc:"Project description"`
		TeamID      *uint  `json:"team_id,omitempty" doc:"Owning team"`
	}
}

type ProjectOutput struct {
	Body ProjectResponse
}

func (h *ProjectHandler) HandleCreate(ctx context.Context, input *CreateProjectRequest) (*ProjectOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	project := models.Project{
		Name:        input.Body.Name,
		Slug:        input.Body.Slug,
		Description: input.Body.Description,
		Status:      models.ProjectStatusDraft,
		OwnerID:     userID,
		TeamID:      input.Body.TeamID,
	}
	if err := h.db.Create(&project).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create project: " + err.Error())
	}

	event := models.ActivityEvent{
		EventType: models.ActivityProjectCreated,
		UserID:    userID,
		ProjectID: &project.ID,
		Title:     fmt.Sprintf("New project created: %s", project.Name),
	}
	if err := h.activity.Record(event); err != nil {
		log.Printf("Failed to record project_created activity: %v", err)
	}

	var count int64
	if err := h.db.Model(&models.Project{}).Where("owner_id = ?", userID).Count(&count).Error; err == nil && count == 1 {
		if err := h.orchestrator.HandleAction(gamification.ActionFirstProject, userID); err != nil {
			log.Printf("Failed to handle first_project action: %v", err)
		}
	}

	return &ProjectOutput{Body: toProjectResponse(project)}, nil
}

type ListProjectsRequest struct {
	Skip  int `query:"skip" minimum:"0" default:"0"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
}

type ListProjectsOutput struct {
	Body []ProjectResponse
}

func (h *ProjectHandler) HandleList(ctx context.Context, input *ListProjectsRequest) (*ListProjectsOutput, error) {
	var projects []models.Project
	err := h.db.Offset(input.Skip).Limit(input.Limit).Find(&projects).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list projects")
	}

	out := &ListProjectsOutput{Body: make([]ProjectResponse, 0, len(projects))}
	for _, project := range projects {
		out.Body = append(out.Body, toProjectResponse(project))
	}
	return out, nil
}

type GetProjectRequest struct {
	ID uint `path:"id"`
}

func (h *ProjectHandler) HandleGet(ctx context.Context, input *GetProjectRequest) (*ProjectOutput, error) {
	var project models.Project
	if err := h.db.First(&project, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Project not found")
	}
	return &ProjectOutput{Body: toProjectResponse(project)}, nil
}

type UpdateProjectRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Name        *string               `json:"name,omitempty"`
		Description *string               `json:"description,omitempty"`
		Status      *models.ProjectStatus `json:"status,omitempty" enum:"draft,in_progress,published,archived"`
	}
}

func (h *ProjectHandler) HandleUpdate(ctx context.Context, input *UpdateProjectRequest) (*ProjectOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var project models.Project
	if err := h.db.First(&project, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Project not found")
	}
	if project.OwnerID != userID {
		return nil, huma.Error403Forbidden("Not authorized to update this project")
	}

	if input.Body.Name != nil {
		project.Name = *input.Body.Name
	}
	if input.Body.Description != nil {
		project.Description = *input.Body.Description
	}
	if input.Body.Status != nil {
		project.Status = *input.Body.Status
	}

	if err := h.db.Save(&project).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update project")
	}
	return &ProjectOutput{Body: toProjectResponse(project)}, nil
}

type PublishProjectRequest struct {
	ID uint `path:"id"`
}

func (h *ProjectHandler) HandlePublish(ctx context.Context, input *PublishProjectRequest) (*ProjectOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var project models.Project
	if err := h.db.First(&project, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Project not found")
	}
	if project.OwnerID != userID {
		return nil, huma.Error403Forbidden("Not authorized to publish this project")
	}
	if project.Status == models.ProjectStatusPublished {
		return nil, huma.Error400BadRequest("Project is already published")
	}

	now := time.Now().UTC()
	project.Status = models.ProjectStatusPublished
	project.PublishedAt = &now
	if err := h.db.Save(&project).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to publish project")
	}

	result, err := h.orchestrator.PublishProject(userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to award publish bonus: " + err.Error())
	}

	event := models.ActivityEvent{
		EventType: models.ActivityProjectPublished,
		UserID:    userID,
		ProjectID: &project.ID,
		Title:     fmt.Sprintf("%s published project %s", result.User.Username, project.Name),
		XPAmount:  h.orchestrator.PublishXP,
	}
	if err := h.activity.Record(event); err != nil {
		log.Printf("Failed to record project_published activity: %v", err)
	}

	if err := h.orchestrator.HandleAction(gamification.ActionProjectPublished, userID); err != nil {
		log.Printf("Failed to handle project_published action: %v", err)
	}

	return &ProjectOutput{Body: toProjectResponse(project)}, nil
}
