package guestbook

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zulandar/guestbook/internal/models"
	"gorm.io/gorm"
)

// submittedAtFormat is the timestamp layout persisted in the store. It is
// RFC 3339 in UTC, so "submitted_at >= <date>" is the today filter.
const submittedAtFormat = "2006-01-02T15:04:05.999999999Z07:00"

// dateFormat is the UTC calendar-date prefix of submittedAtFormat.
const dateFormat = "2006-01-02"

// Store is the durable message table and the single source of truth for
// quota counts. Admission (count-then-insert) runs inside one transaction
// and is additionally serialized through the store mutex, so the daily
// ceiling is a hard upper bound under concurrent submissions.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewStore wraps an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InsertUnderLimit persists a message when today's count is below ceiling.
// It returns ErrDailyLimit, leaving the store untouched, when the ceiling
// has been reached.
func (s *Store) InsertUnderLimit(text string, at time.Time, fingerprint string, ceiling int) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at = at.UTC()
	msg := &models.Message{
		Text:        text,
		SubmittedAt: at.Format(submittedAtFormat),
		IPHash:      fingerprint,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Message{}).
			Where("submitted_at >= ?", at.Format(dateFormat)).
			Count(&count).Error; err != nil {
			return fmt.Errorf("guestbook: count today: %w", err)
		}
		if count >= int64(ceiling) {
			return ErrDailyLimit
		}
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("guestbook: insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// CountToday returns the number of messages accepted on now's UTC date.
func (s *Store) CountToday(now time.Time) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Message{}).
		Where("submitted_at >= ?", now.UTC().Format(dateFormat)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("guestbook: count today: %w", err)
	}
	return count, nil
}

// CountPending returns the number of messages awaiting moderation.
func (s *Store) CountPending() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Message{}).
		Where("gallery_approved = ?", false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("guestbook: count pending: %w", err)
	}
	return count, nil
}

// CountApproved returns the number of gallery messages.
func (s *Store) CountApproved() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Message{}).
		Where("gallery_approved = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("guestbook: count approved: %w", err)
	}
	return count, nil
}

// ListApproved returns gallery messages, newest first.
func (s *Store) ListApproved() ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.Where("gallery_approved = ?", true).
		Order("submitted_at DESC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("guestbook: list approved: %w", err)
	}
	return msgs, nil
}

// ListPending returns unapproved messages, oldest first.
func (s *Store) ListPending() ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.Where("gallery_approved = ?", false).
		Order("submitted_at ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("guestbook: list pending: %w", err)
	}
	return msgs, nil
}

// Pending returns a single unapproved message by id, or ErrNotFound.
func (s *Store) Pending(id uint) (*models.Message, error) {
	var msg models.Message
	err := s.db.Where("id = ? AND gallery_approved = ?", id, false).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("guestbook: load pending %d: %w", id, err)
	}
	return &msg, nil
}

// Approve marks a pending message for the gallery and records the optional
// commentary. The transition is one-shot: an unknown or already-approved id
// returns ErrNotFound and leaves any previously set commentary alone.
func (s *Store) Approve(id uint, commentary string) error {
	var c *string
	if commentary != "" {
		c = &commentary
	}

	result := s.db.Model(&models.Message{}).
		Where("id = ? AND gallery_approved = ?", id, false).
		Updates(map[string]interface{}{"gallery_approved": true, "commentary": c})
	if result.Error != nil {
		return fmt.Errorf("guestbook: approve %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the underlying database connection.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("guestbook: ping: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("guestbook: ping: %w", err)
	}
	return nil
}
