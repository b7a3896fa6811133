package activity

import (
	"github.com/questforge/questforge-api/internal/models"
	"gorm.io/gorm"
)

// Recorder appends events to the activity feed and serves paginated reads.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(event models.ActivityEvent) error {
	return r.db.Create(&event).Error
}

// List returns public events, newest first.
func (r *Recorder) List(limit, offset int) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	err := r.db.Where("is_public = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	return events, err
}

// ListForUser returns all of one user's events, newest first.
func (r *Recorder) ListForUser(userID uint, limit, offset int) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	return events, err
}
