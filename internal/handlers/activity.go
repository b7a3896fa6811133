package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questforge/questforge-api/internal/activity"
	"github.com/questforge/questforge-api/internal/auth"
	"github.com/questforge/questforge-api/internal/models"
)

type ActivityHandler struct {
	recorder *activity.Recorder
}

func NewActivityHandler(recorder *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

type ActivityEventResponse struct {
	ID          uint                `json:"id"`
	EventType   models.ActivityType `json:"event_type"`
	UserID      uint                `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	XPAmount    int                 `json:"xp_amount"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toActivityResponse(event models.ActivityEvent) ActivityEventResponse {
	return ActivityEventResponse{
		ID:          event.ID,
		EventType:   event.EventType,
		UserID:      event.UserID,
		Title:       event.Title,
		Description: event.Description,
		XPAmount:    event.XPAmount,
		CreatedAt:   event.CreatedAt,
	}
}

type ListActivityRequest struct {
	Skip  int `query:"skip" minimum:"0" default:"0"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
}

type ListActivityOutput struct {
	Body []ActivityEventResponse
}

func (h *ActivityHandler) HandleList(ctx context.Context, input *ListActivityRequest) (*ListActivityOutput, error) {
	events, err := h.recorder.List(input.Limit, input.Skip)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activity")
	}

	out := &ListActivityOutput{Body: make([]ActivityEventResponse, 0, len(events))}
	for _, event := range events {
		out.Body = append(out.Body, toActivityResponse(event))
	}
	return out, nil
}

type MyActivityRequest struct {
	Skip  int `query:"skip" minimum:"0" default:"0"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
}

func (h *ActivityHandler) HandleMine(ctx context.Context, input *MyActivityRequest) (*ListActivityOutput, error) {
	userID, ok := ctx.Value(auth.UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	events, err := h.recorder.ListForUser(userID, input.Limit, input.Skip)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activity")
	}

	out := &ListActivityOutput{Body: make([]ActivityEventResponse, 0, len(events))}
	for _, event := range events {
		out.Body = append(out.Body, toActivityResponse(event))
	}
	return out, nil
}
