package gamification

import (
	"errors"
	"fmt"
	"log"

	"github.com/questforge/questforge-api/internal/activity"
	"github.com/questforge/questforge-api/internal/models"
	"github.com/questforge/questforge-api/internal/notifier"
	"gorm.io/gorm"
)

// Action identifies an external event that may trigger an achievement.
type Action string

const (
	ActionFirstQuest       Action = "first_quest"
	ActionFirstProject     Action = "first_project"
	ActionProjectPublished Action = "project_published"
	ActionTeamJoined       Action = "team_joined"
)

// AchievementPolicy maps actions to the achievement granted when they
// occur. The mapping belongs to the integration layer, not the core;
// actions without an entry simply do nothing.
type AchievementPolicy map[Action]string

func DefaultAchievementPolicy() AchievementPolicy {
	return AchievementPolicy{
		ActionFirstQuest:       "First Steps",
		ActionFirstProject:     "Builder",
		ActionProjectPublished: "Shipped It",
		ActionTeamJoined:       "Team Player",
	}
}

// Orchestrator sequences all XP-affecting side effects behind one entry
// point: award XP, recompute level, re-evaluate badges, emit activity
// events. Callers never chain these steps themselves.
type Orchestrator struct {
	db       *gorm.DB
	activity *activity.Recorder
	notifier notifier.Notifier
	policy   AchievementPolicy

	// XP granted on project publication.
	PublishXP int
}

func NewOrchestrator(db *gorm.DB, recorder *activity.Recorder, n notifier.Notifier, policy AchievementPolicy) *Orchestrator {
	if policy == nil {
		policy = DefaultAchievementPolicy()
	}
	return &Orchestrator{
		db:        db,
		activity:  recorder,
		notifier:  n,
		policy:    policy,
		PublishXP: 50,
	}
}

// QuestResult is the outcome of a fully orchestrated quest completion.
type QuestResult struct {
	Completion models.QuestCompletion
	User       models.User
	LeveledUp  bool
	NewBadges  []models.UserBadge
}

// CompleteQuest records the completion and awards the quest XP in one
// transaction, then runs badge evaluation and activity emission against
// the committed state. A badge-evaluation failure after the commit is
// surfaced without rolling back the XP award; evaluation is idempotent
// and safe to re-run later.
func (o *Orchestrator) CompleteQuest(quest models.Quest, userID uint) (*QuestResult, error) {
	result := &QuestResult{}

	err := o.db.Transaction(func(tx *gorm.DB) error {
		completion, err := NewRecorder(tx).Complete(quest, userID)
		if err != nil {
			return err
		}
		user, leveledUp, err := NewLedger(tx).AwardXP(userID, quest.XPReward)
		if err != nil {
			return err
		}
		result.Completion = completion
		result.User = user
		result.LeveledUp = leveledUp
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.recordEvent(models.ActivityEvent{
		EventType:   models.ActivityQuestCompleted,
		UserID:      userID,
		QuestID:     &quest.ID,
		Title:       fmt.Sprintf("%s completed quest: %s", result.User.Username, quest.Title),
		Description: fmt.Sprintf("Earned %d XP!", quest.XPReward),
		XPAmount:    quest.XPReward,
	})
	if result.LeveledUp {
		o.announceLevelUp(result.User)
	}

	if err := o.evaluateBadges(result); err != nil {
		return result, err
	}

	return result, nil
}

// PublishProject awards the fixed publication bonus and re-evaluates
// badges, mirroring the quest flow minus the completion record.
func (o *Orchestrator) PublishProject(userID uint) (*QuestResult, error) {
	user, leveledUp, err := NewLedger(o.db).AwardXP(userID, o.PublishXP)
	if err != nil {
		return nil, err
	}

	result := &QuestResult{User: user, LeveledUp: leveledUp}
	if leveledUp {
		o.announceLevelUp(user)
	}

	if err := o.evaluateBadges(result); err != nil {
		return result, err
	}
	return result, nil
}

// HandleAction grants the achievement the policy maps to the action, if
// any. Newly completed achievements award their XP reward and emit an
// activity event; repeated triggers are no-ops.
func (o *Orchestrator) HandleAction(action Action, userID uint) error {
	name, ok := o.policy[action]
	if !ok {
		return nil
	}

	var achievement models.Achievement
	err := o.db.Where("name = ? AND is_active = ?", name, true).First(&achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("achievement %q for action %q is not defined", name, action)
			return nil
		}
		return err
	}

	ua, completed, err := NewTracker(o.db).AwardOrUpdate(userID, achievement)
	if err != nil {
		return err
	}
	if !completed {
		return nil
	}

	user, leveledUp, err := NewLedger(o.db).AwardXP(userID, achievement.XPReward)
	if err != nil {
		return err
	}

	o.recordEvent(models.ActivityEvent{
		EventType:     models.ActivityAchievementUnlocked,
		UserID:        userID,
		AchievementID: &ua.AchievementID,
		Title:         fmt.Sprintf("%s unlocked the achievement '%s'!", user.Username, achievement.Name),
		Description:   achievement.Description,
		XPAmount:      achievement.XPReward,
	})
	if leveledUp {
		o.announceLevelUp(user)
	}
	if o.notifier != nil {
		if err := o.notifier.NotifyAchievementUnlocked(user, achievement); err != nil {
			log.Printf("Failed to send achievement notification: %v", err)
		}
	}

	return nil
}

// evaluateBadges runs a single badge evaluation pass for result.User and
// applies xp_bonus awards. Bonus XP can flip the level but does not
// trigger a recursive evaluation pass.
func (o *Orchestrator) evaluateBadges(result *QuestResult) error {
	awarded, err := NewEvaluator(o.db).EvaluateAndAward(result.User)
	if err != nil {
		return err
	}
	result.NewBadges = awarded

	for _, ub := range awarded {
		badge := ub.Badge
		if badge.XPBonus > 0 {
			user, leveledUp, err := NewLedger(o.db).AwardXP(result.User.ID, badge.XPBonus)
			if err != nil {
				return err
			}
			result.User = user
			if leveledUp {
				result.LeveledUp = true
				o.announceLevelUp(user)
			}
		}

		o.recordEvent(models.ActivityEvent{
			EventType:   models.ActivityBadgeEarned,
			UserID:      result.User.ID,
			BadgeID:     &ub.BadgeID,
			Title:       fmt.Sprintf("%s earned the '%s' badge!", result.User.Username, badge.Name),
			Description: badge.Description,
			XPAmount:    badge.XPBonus,
		})
		if o.notifier != nil {
			if err := o.notifier.NotifyBadgeEarned(result.User, badge); err != nil {
				log.Printf("Failed to send badge notification: %v", err)
			}
		}
	}

	return nil
}

func (o *Orchestrator) announceLevelUp(user models.User) {
	o.recordEvent(models.ActivityEvent{
		EventType: models.ActivityUserLevelUp,
		UserID:    user.ID,
		Title:     fmt.Sprintf("%s reached level %d!", user.Username, user.Level),
	})
	if o.notifier != nil {
		if err := o.notifier.NotifyLevelUp(user, user.Level); err != nil {
			log.Printf("Failed to send level-up notification: %v", err)
		}
	}
}

func (o *Orchestrator) recordEvent(event models.ActivityEvent) {
	if o.activity == nil {
		return
	}
	if err := o.activity.Record(event); err != nil {
		log.Printf("Failed to record activity event %s: %v", event.EventType, err)
	}
}
