package gamification

import (
	"errors"
	"log"
	"time"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// Evaluator checks badge eligibility and awards newly earned badges.
// Awarding is idempotent: held badges are skipped, and uniqueness
// conflicts from concurrent evaluations are treated as already awarded.
type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// EvaluateAndAward checks every active badge against the user's current
// stats and awards the ones newly qualified for. The returned UserBadge
// records have their Badge field populated. The evaluator never applies
// xp_bonus itself; the orchestrator chains bonus awards afterwards.
func (e *Evaluator) EvaluateAndAward(user models.User) ([]models.UserBadge, error) {
	var badges []models.Badge
	if err := e.db.Where("is_active = ?", true).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}

	held := make(map[uint]bool)
	var existing []models.UserBadge
	if err := e.db.Where("user_id = ?", user.ID).Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, ub := range existing {
		held[ub.BadgeID] = true
	}

	var awarded []models.UserBadge
	for _, badge := range badges {
		if held[badge.ID] {
			continue
		}

		ok, err := e.meetsRequirement(user, badge)
		if err != nil {
			return awarded, err
		}
		if !ok {
			continue
		}

		userBadge := models.UserBadge{
			UserID:   user.ID,
			BadgeID:  badge.ID,
			EarnedAt: time.Now().UTC(),
		}
		if err := e.db.Create(&userBadge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent evaluation; the badge
				// exists, which is the desired end state.
				continue
			}
			return awarded, err
		}
		userBadge.Badge = badge
		awarded = append(awarded, userBadge)
	}

	return awarded, nil
}

func (e *Evaluator) meetsRequirement(user models.User, badge models.Badge) (bool, error) {
	switch badge.RequirementType {
	case models.RequirementQuestCount:
		var count int64
		err := e.db.Model(&models.QuestCompletion{}).
			Where("user_id = ?", user.ID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		return count >= int64(badge.RequirementValue), nil
	case models.RequirementXPTotal:
		return user.XP >= badge.RequirementValue, nil
	case models.RequirementLevel:
		return user.Level >= badge.RequirementValue, nil
	default:
		// Fail closed on requirement types we don't recognize; stored
		// data may be ahead of this binary.
		log.Printf("badge %d has unknown requirement type %q", badge.ID, badge.RequirementType)
		return false, nil
	}
}
