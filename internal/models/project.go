package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusPublished  ProjectStatus = "published"
	ProjectStatusArchived   ProjectStatus = "archived"
)

type Project struct {
	gorm.Model
	Name        string        `json:"name"`
	Slug        string        `gorm:"index" json:"slug"`
	Description string        `json:"description"`
	Status      ProjectStatus `gorm:"default:draft" json:"status"`

	OwnerID uint  `json:"owner_id"`
	TeamID  *uint `json:"team_id"`
	Owner   User  `json:"-"`
	Team    *Team `json:"-"`

	PublishedAt *time.Time `json:"published_at"`
}
