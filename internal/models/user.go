package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex" json:"email"`
	Username       string `gorm:"uniqueIndex" json:"username"`
	HashedPassword string `json:"-"`
	FullName       string `json:"full_name"`
	AvatarURL      string `json:"avatar_url"`
	Bio            string `json:"bio"`

	// Gamification state. Level is always derived from XP via the level
	// formula and is never written independently of it.
	XP    int `gorm:"default:0" json:"xp"`
	Level int `gorm:"default:1" json:"level"`

	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`
}
