package models

import (
	"time"

	"gorm.io/gorm"
)

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

type Team struct {
	gorm.Model
	Name        string `json:"name"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url"`
}

type TeamMember struct {
	gorm.Model
	TeamID   uint      `gorm:"uniqueIndex:idx_team_user" json:"team_id"`
	UserID   uint      `gorm:"uniqueIndex:idx_team_user" json:"user_id"`
	Role     TeamRole  `gorm:"default:member" json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Team     Team      `json:"-"`
	User     User      `json:"-"`
}
