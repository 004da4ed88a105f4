package database

import (
	"context"

	"stocklease/internal/models"

	"gorm.io/gorm"
)

const (
	defaultActivityLimit = 200
	maxActivityLimit     = 1000
)

// ActivityStore persists activity entries through gorm.
type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Create inserts the entry. Entries are append-only; there is no update or delete path.
func (s *ActivityStore) Create(ctx context.Context, entry *models.ActivityLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

type ActivityFilter struct {
	UserID uint
	Action string
	Limit  int
}

// List returns entries newest first with the acting user preloaded.
func (s *ActivityStore) List(ctx context.Context, f ActivityFilter) ([]models.ActivityLog, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	q := s.db.WithContext(ctx).Preload("User").Order("created_at desc").Limit(limit)
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	var logs []models.ActivityLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
