package jobs

import (
	"context"
	"log"
	"time"

	"github.com/questforge/questforge-api/internal/leaderboard"
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// RecalculateLeaderboards recomputes and snapshots the global, weekly and
// monthly leaderboards. It runs decoupled from individual awards: awards
// may land between the reads and the snapshot, which is an accepted
// staleness window.
func RecalculateLeaderboards(db *gorm.DB, limit int) error {
	svc := leaderboard.NewService(db)
	now := time.Now().UTC()

	global, err := svc.Global(limit)
	if err != nil {
		return err
	}
	if err := svc.Cache(models.LeaderboardGlobal, nil, nil, global); err != nil {
		return err
	}

	weekly, weekKey, err := svc.Weekly(now, limit)
	if err != nil {
		return err
	}
	if err := svc.Cache(models.LeaderboardWeekly, nil, &weekKey, weekly); err != nil {
		return err
	}

	monthly, monthKey, err := svc.Monthly(now, limit)
	if err != nil {
		return err
	}
	if err := svc.Cache(models.LeaderboardMonthly, nil, &monthKey, monthly); err != nil {
		return err
	}

	return nil
}

// RunLeaderboardJob recalculates snapshots on a fixed cadence until ctx
// is cancelled.
func RunLeaderboardJob(ctx context.Context, db *gorm.DB, interval time.Duration, limit int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := RecalculateLeaderboards(db, limit); err != nil {
				log.Printf("Leaderboard recalculation failed: %v", err)
			}
		}
	}
}
