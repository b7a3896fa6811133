package gamification

import (
	"fmt"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// Ledger is the only sanctioned way to mutate a user's XP. Every award
// recomputes the level from the new total inside the same transaction, so
// no reader can observe fresh XP next to a stale level.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// AwardXP adds amount to the user's XP total and returns the updated user
// and whether the award crossed a level boundary. The increment is applied
// as xp = xp + ? so concurrent awards for the same user never lose updates.
func (l *Ledger) AwardXP(userID uint, amount int) (models.User, bool, error) {
	if amount < 0 {
		return models.User{}, false, fmt.Errorf("negative xp award: %d", amount)
	}

	var user models.User
	leveledUp := false

	err := l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("xp", gorm.Expr("xp + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		newLevel := LevelForXP(user.XP)
		leveledUp = newLevel > user.Level
		if newLevel != user.Level {
			if err := tx.Model(&user).UpdateColumn("level", newLevel).Error; err != nil {
				return err
			}
			user.Level = newLevel
		}
		return nil
	})
	if err != nil {
		return models.User{}, false, err
	}

	return user, leveledUp, nil
}
