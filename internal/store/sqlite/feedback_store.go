// Package sqlite implements store.FeedbackStore on an embedded SQLite
// database through GORM.
package sqlite

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type feedbackRecord struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Name    string `gorm:"not null"`
	Message string `gorm:"not null"`
	Version int64  `gorm:"not null;default:1"`
}

func (feedbackRecord) TableName() string {
	return "feedback"
}

func (r *feedbackRecord) toFeedback() *types.Feedback {
	return &types.Feedback{
		ID:        r.ID,
		Name:      r.Name,
		Message:   r.Message,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
		Version:   r.Version,
	}
}

var _ store.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore keeps feedback in a SQLite table. The schema is migrated
// lazily on first use.
type FeedbackStore struct {
	getDatabase func(ctx context.Context) (*gorm.DB, error)
	maxRetries  int
	backoff     time.Duration
}

func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{
		getDatabase: createGetDatabase(db),
		maxRetries:  10,
		backoff:     100 * time.Millisecond,
	}
}

// ListFeedback implements store.FeedbackStore.
func (s *FeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	var records []feedbackRecord

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		return db.Order("created_at DESC, id DESC").Find(&records).Error
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feedback")
	}

	feedback := make([]*types.Feedback, 0, len(records))
	for i := range records {
		feedback = append(feedback, records[i].toFeedback())
	}
	return feedback, nil
}

// CreateFeedback implements store.FeedbackStore.
func (s *FeedbackStore) CreateFeedback(ctx context.Context, fields types.FeedbackFields) (*types.Feedback, error) {
	record := feedbackRecord{
		ID:      uuid.NewString(),
		Name:    fields.Name,
		Message: fields.Message,
		Version: 1,
	}

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		return db.Create(&record).Error
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create feedback")
	}

	logger.GetLogger().Infow("Successfully created feedback", "feedbackID", record.ID)
	return record.toFeedback(), nil
}

// UpdateFeedback implements store.FeedbackStore.
func (s *FeedbackStore) UpdateFeedback(ctx context.Context, id string, fields types.FeedbackFields, expectedVersion *int64) (*types.Feedback, error) {
	var record feedbackRecord

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(store.ErrNotFound)
			}
			return errors.WithStack(err)
		}

		if expectedVersion != nil && record.Version != *expectedVersion {
			return errors.WithStack(store.ErrConflict)
		}

		record.Name = fields.Name
		record.Message = fields.Message
		record.Version++

		return errors.WithStack(db.Save(&record).Error)
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.Wrapf(err, "update feedback %s", id)
	}

	logger.GetLogger().Infow("Feedback updated successfully", "feedbackID", id, "version", record.Version)
	return record.toFeedback(), nil
}

// DeleteFeedback implements store.FeedbackStore.
func (s *FeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	var record feedbackRecord

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(store.ErrNotFound)
			}
			return errors.WithStack(err)
		}

		return errors.WithStack(db.Delete(&record).Error)
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.Wrapf(err, "delete feedback %s", id)
	}

	logger.GetLogger().Infow("Successfully deleted feedback", "feedbackID", id)
	return record.toFeedback(), nil
}

// withRetry runs fn in a transaction, retrying with exponential backoff when
// SQLite reports one of the given error codes.
func (s *FeedbackStore) withRetry(ctx context.Context, fn func(ctx context.Context, db *gorm.DB) error, codes ...sqlite3.ErrorCode) error {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	backoff := s.backoff
	retries := 0

	for {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, tx)
		})
		if err == nil {
			return nil
		}

		var sqliteErr *sqlite3.Error
		if retries >= s.maxRetries || !errors.As(err, &sqliteErr) || !slices.Contains(codes, sqliteErr.Code()) {
			return err
		}

		logger.GetLogger().Debugw("Transaction failed, will retry",
			"retries", retries,
			"backoff", backoff,
			"error", err)

		retries++
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func createGetDatabase(db *gorm.DB) func(ctx context.Context) (*gorm.DB, error) {
	var (
		migrateOnce sync.Once
		migrateErr  error
	)

	return func(ctx context.Context) (*gorm.DB, error) {
		migrateOnce.Do(func() {
			if err := db.WithContext(ctx).AutoMigrate(&feedbackRecord{}); err != nil {
				migrateErr = errors.WithStack(err)
			}
		})
		if migrateErr != nil {
			return nil, errors.WithStack(migrateErr)
		}

		return db, nil
	}
}
