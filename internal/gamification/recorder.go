package gamification

import (
	"time"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// Recorder enforces the quest completion policy and writes completion
// records. It never touches the XP ledger itself; the orchestrator chains
// the award so the recorder stays independently testable.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Complete records a completion of quest by the user. For non-repeatable
// quests at most one completion may exist per (quest, user); the
// repeatable flag is data rather than schema, so the pre-check runs inside
// the caller's transaction where the store serializes writers.
func (r *Recorder) Complete(quest models.Quest, userID uint) (models.QuestCompletion, error) {
	if !quest.IsActive {
		return models.QuestCompletion{}, ErrQuestInactive
	}

	if !quest.IsRepeatable {
		var count int64
		err := r.db.Model(&models.QuestCompletion{}).
			Where("quest_id = ? AND user_id = ?", quest.ID, userID).
			Count(&count).Error
		if err != nil {
			return models.QuestCompletion{}, err
		}
		if count > 0 {
			return models.QuestCompletion{}, ErrAlreadyCompleted
		}
	}

	completion := models.QuestCompletion{
		QuestID:     quest.ID,
		UserID:      userID,
		XPEarned:    quest.XPReward,
		CompletedAt: time.Now().UTC(),
	}
	if err := r.db.Create(&completion).Error; err != nil {
		return models.QuestCompletion{}, err
	}

	return completion, nil
}

// IsCompletedBy reports whether the user has completed the quest at least once.
func (r *Recorder) IsCompletedBy(questID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.QuestCompletion{}).
		Where("quest_id = ? AND user_id = ?", questID, userID).
		Count(&count).Error
	return count > 0, err
}
