package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TarekGohar/cleano-software-sub002/models"
)

// JobStore implements calendar.JobSource on top of GORM. It is passed
// into the calendar service explicitly instead of letting the calendar
// package reach for the global DB handle.
type JobStore struct {
	db *gorm.DB
}

func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// JobsForDay returns jobs whose occurrence date or start time falls
// within [from, to], assignees preloaded, ordered by (date, start_time)
// ascending.
func (s *JobStore) JobsForDay(ctx context.Context, from, to time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Preload("Employee").
		Preload("Participants").
		Where("(date >= ? AND date <= ?) OR (start_time >= ? AND start_time <= ?)", from, to, from, to).
		Order("date ASC, start_time ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
