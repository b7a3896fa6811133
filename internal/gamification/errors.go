package gamification

import "errors"

var (
	// ErrQuestInactive is returned when completing a quest that is not active.
	ErrQuestInactive = errors.New("quest is not active")

	// ErrAlreadyCompleted is returned when a non-repeatable quest has
	// already been completed by the user.
	ErrAlreadyCompleted = errors.New("quest already completed")
)
