package leaderboard

import (
	"fmt"
	"time"

	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// Entry is one row of a computed ranking. Ordering is XP descending with
// ties broken by ascending user ID, so equal scores always rank in the
// same relative order.
type Entry struct {
	Rank       int       `json:"rank"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	AvatarURL  string    `json:"avatar_url"`
	XP         int       `json:"xp"`
	Level      int       `json:"level"`
	ComputedAt time.Time `json:"computed_at"`
}

// Service computes leaderboards over live user and completion state and
// persists disposable snapshots. User rows stay the source of truth;
// snapshots may be stale the moment they are written.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WeekKey labels the ISO week containing t, e.g. "2024-W05".
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey labels the month containing t, e.g. "2024-01".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// weekStart returns 00:00 UTC on the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Global ranks all active users by lifetime XP.
func (s *Service) Global(limit int) ([]Entry, error) {
	var users []models.User
	err := s.db.Where("is_active = ?", true).
		Order("xp DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := make([]Entry, 0, len(users))
	for i, user := range users {
		entries = append(entries, Entry{
			Rank:       i + 1,
			UserID:     user.ID,
			Username:   user.Username,
			AvatarURL:  user.AvatarURL,
			XP:         user.XP,
			Level:      user.Level,
			ComputedAt: now,
		})
	}
	return entries, nil
}

// Team ranks the members of one team by lifetime XP.
func (s *Service) Team(teamID uint, limit int) ([]Entry, error) {
	var memberIDs []uint
	err := s.db.Model(&models.TeamMember{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return []Entry{}, nil
	}

	var users []models.User
	err = s.db.Where("id IN ? AND is_active = ?", memberIDs, true).
		Order("xp DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := make([]Entry, 0, len(users))
	for i, user := range users {
		entries = append(entries, Entry{
			Rank:       i + 1,
			UserID:     user.ID,
			Username:   user.Username,
			AvatarURL:  user.AvatarURL,
			XP:         user.XP,
			Level:      user.Level,
			ComputedAt: now,
		})
	}
	return entries, nil
}

// Weekly ranks users by XP earned from quest completions in the ISO week
// containing ref. The second return value is the period key for snapshots.
func (s *Service) Weekly(ref time.Time, limit int) ([]Entry, string, error) {
	entries, err := s.windowed(weekStart(ref), limit)
	return entries, WeekKey(ref), err
}

// Monthly ranks users by XP earned from quest completions in the calendar
// month containing ref.
func (s *Service) Monthly(ref time.Time, limit int) ([]Entry, string, error) {
	entries, err := s.windowed(monthStart(ref), limit)
	return entries, MonthKey(ref), err
}

// Project ranks users by XP earned completing quests bound to a project.
func (s *Service) Project(projectID uint, limit int) ([]Entry, error) {
	var questIDs []uint
	err := s.db.Model(&models.Quest{}).
		Where("project_id = ?", projectID).
		Pluck("id", &questIDs).Error
	if err != nil {
		return nil, err
	}
	if len(questIDs) == 0 {
		return []Entry{}, nil
	}

	var rows []aggregateRow
	err = s.db.Model(&models.QuestCompletion{}).
		Select("user_id, SUM(xp_earned) AS total_xp").
		Where("quest_id IN ?", questIDs).
		Group("user_id").
		Order("total_xp DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return s.resolveRows(rows)
}

type aggregateRow struct {
	UserID  uint
	TotalXP int
}

func (s *Service) windowed(since time.Time, limit int) ([]Entry, error) {
	var rows []aggregateRow
	err := s.db.Model(&models.QuestCompletion{}).
		Select("user_id, SUM(xp_earned) AS total_xp").
		Where("completed_at >= ?", since).
		Group("user_id").
		Order("total_xp DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return s.resolveRows(rows)
}

// resolveRows joins aggregated XP with user rows and assigns ranks.
func (s *Service) resolveRows(rows []aggregateRow) ([]Entry, error) {
	if len(rows) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	now := time.Now().UTC()
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		user, ok := byID[row.UserID]
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Rank:       len(entries) + 1,
			UserID:     user.ID,
			Username:   user.Username,
			AvatarURL:  user.AvatarURL,
			XP:         row.TotalXP,
			Level:      user.Level,
			ComputedAt: now,
		})
	}
	return entries, nil
}

// Cache replaces the stored snapshot matching (boardType, scopeID,
// periodKey) with the given entries. The replace is a delete-then-insert
// in one transaction, never a partial merge.
func (s *Service) Cache(boardType models.LeaderboardType, scopeID *uint, periodKey *string, entries []Entry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("leaderboard_type = ?", boardType)
		if scopeID != nil {
			q = q.Where("scope_id = ?", *scopeID)
		}
		if periodKey != nil {
			q = q.Where("period_key = ?", *periodKey)
		}
		if err := q.Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}

		for _, entry := range entries {
			row := models.LeaderboardEntry{
				LeaderboardType: boardType,
				ScopeID:         scopeID,
				UserID:          entry.UserID,
				Rank:            entry.Rank,
				XP:              entry.XP,
				Level:           entry.Level,
				PeriodKey:       periodKey,
				ComputedAt:      entry.ComputedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
