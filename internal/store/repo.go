package store

import (
	"context"
	"time"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
)

// Repo defines storage operations for user profiles and reminder jobs.
// Jobs are keyed by their encoded domain.JobKey token; PutJob replaces any
// existing job under the same key atomically.
type Repo interface {
	UpsertUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, chatID int64) (*domain.User, error)
	SetLocale(ctx context.Context, chatID int64, locale string) error
	ListUsers(ctx context.Context) ([]domain.User, error)

	PutJob(ctx context.Context, j *domain.ReminderJob) error
	// GetJob returns (nil, nil) when no job exists under the key.
	GetJob(ctx context.Context, key string) (*domain.ReminderJob, error)
	// DeleteJob reports whether a job was actually removed; deleting a
	// missing key is not an error.
	DeleteJob(ctx context.Context, key string) (bool, error)
	ListJobsByChat(ctx context.Context, chatID int64) ([]domain.ReminderJob, error)
	ListDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.ReminderJob, error)
	SetJobNextFire(ctx context.Context, key string, next time.Time) error

	Close() error
}
