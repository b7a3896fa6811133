package gamification

import (
	"errors"
	"time"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// Tracker grants achievements. The current grant path is single-shot:
// progress and target exist for future multi-step achievements but every
// award completes immediately. Completion is permanent and idempotent.
type Tracker struct {
	db *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// AwardOrUpdate grants the achievement to the user. It returns the
// progress record and whether the achievement was newly completed by this
// call. Calling it again for a completed achievement is a no-op.
func (t *Tracker) AwardOrUpdate(userID uint, achievement models.Achievement) (models.UserAchievement, bool, error) {
	var ua models.UserAchievement
	err := t.db.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&ua).Error

	if err == nil {
		if ua.IsCompleted {
			return ua, false, nil
		}
		now := time.Now().UTC()
		ua.Progress = ua.Target
		ua.IsCompleted = true
		ua.CompletedAt = &now
		if err := t.db.Save(&ua).Error; err != nil {
			return models.UserAchievement{}, false, err
		}
		ua.Achievement = achievement
		return ua, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserAchievement{}, false, err
	}

	now := time.Now().UTC()
	ua = models.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
		Progress:      1,
		Target:        1,
		IsCompleted:   true,
		CompletedAt:   &now,
		StartedAt:     now,
	}
	if err := t.db.Create(&ua).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent grant won; re-read the existing record.
			if err := t.db.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&ua).Error; err != nil {
				return models.UserAchievement{}, false, err
			}
			return ua, false, nil
		}
		return models.UserAchievement{}, false, err
	}

	ua.Achievement = achievement
	return ua, true, nil
}
