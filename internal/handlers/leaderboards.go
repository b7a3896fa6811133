package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questforge/questforge-api/internal/leaderboard"
	"gorm.io/gorm"
)

type LeaderboardHandler struct {
	service *leaderboard.Service
}

func NewLeaderboardHandler(db *gorm.DB) *LeaderboardHandler {
	return &LeaderboardHandler{service: leaderboard.NewService(db)}
}

type LeaderboardRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

type LeaderboardOutput struct {
	Body struct {
		Entries   []leaderboard.Entry `json:"entries"`
		PeriodKey string              `json:"period_key,omitempty"`
	}
}

func (h *LeaderboardHandler) HandleGlobal(ctx context.Context, input *LeaderboardRequest) (*LeaderboardOutput, error) {
	entries, err := h.service.Global(input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute leaderboard")
	}

	out := &LeaderboardOutput{}
	out.Body.Entries = entries
	return out, nil
}

func (h *LeaderboardHandler) HandleWeekly(ctx context.Context, input *LeaderboardRequest) (*LeaderboardOutput, error) {
	entries, periodKey, err := h.service.Weekly(time.Now().UTC(), input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute leaderboard")
	}

	out := &LeaderboardOutput{}
	out.Body.Entries = entries
	out.Body.PeriodKey = periodKey
	return out, nil
}

func (h *LeaderboardHandler) HandleMonthly(ctx context.Context, input *LeaderboardRequest) (*LeaderboardOutput, error) {
	entries, periodKey, err := h.service.Monthly(time.Now().UTC(), input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute leaderboard")
	}

	out := &LeaderboardOutput{}
	out.Body.Entries = entries
	out.Body.PeriodKey = periodKey
	return out, nil
}

type ScopedLeaderboardRequest struct {
	ID    uint `path:"id"`
	Limit int  `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

func (h *LeaderboardHandler) HandleTeam(ctx context.Context, input *ScopedLeaderboardRequest) (*LeaderboardOutput, error) {
	entries, err := h.service.Team(input.ID, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute leaderboard")
	}

	out := &LeaderboardOutput{}
	out.Body.Entries = entries
	return out, nil
}

func (h *LeaderboardHandler) HandleProject(ctx context.Context, input *ScopedLeaderboardRequest) (*LeaderboardOutput, error) {
	entries, err := h.service.Project(input.ID, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute leaderboard")
	}

	out := &LeaderboardOutput{}
	out.Body.Entries = entries
	return out, nil
}
