package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts or updates a user's profile by chat_id.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}

	now := time.Now().UTC().Unix()
	created := u.CreatedAt.UTC().Unix()
	if u.CreatedAt.IsZero() {
		created = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (chat_id, first_name, last_name, username, locale, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			username   = excluded.username,
			locale     = excluded.locale`,
		u.ChatID, toNullString(u.FirstName), toNullString(u.LastName),
		toNullString(u.Username), u.Locale, created,
	)
	return err
}

// GetUser returns a user's profile by chatID or an error if not found.
func (r *SQLiteRepo) GetUser(ctx context.Context, chatID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, first_name, last_name, username, locale, created_at
		FROM users
		WHERE chat_id = ?`,
		chatID,
	)
	return scanUser(row.Scan)
}

// SetLocale updates only the locale field of a user.
func (r *SQLiteRepo) SetLocale(ctx context.Context, chatID int64, locale string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET locale = ?
		WHERE chat_id = ?`,
		locale, chatID,
	)
	return err
}

// ListUsers returns every known user, ordered by registration time.
func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, first_name, last_name, username, locale, created_at
		FROM users
		ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func scanUser(scan func(dest ...any) error) (*domain.User, error) {
	var (
		chatID    int64
		firstName sql.NullString
		lastName  sql.NullString
		username  sql.NullString
		locale    string
		createdAt int64
	)
	if err := scan(&chatID, &firstName, &lastName, &username, &locale, &createdAt); err != nil {
		return nil, err
	}
	return &domain.User{
		ChatID:    chatID,
		FirstName: fromNullString(firstName),
		LastName:  fromNullString(lastName),
		Username:  fromNullString(username),
		Locale:    locale,
		CreatedAt: unixUTC(createdAt),
	}, nil
}

// PutJob inserts or wholesale-replaces a reminder job under its key. The
// UPSERT makes re-scheduling the same slot atomic per key.
func (r *SQLiteRepo) PutJob(ctx context.Context, j *domain.ReminderJob) error {
	if j == nil {
		return errors.New("nil job")
	}

	now := time.Now().UTC().Unix()
	created := j.CreatedAt.UTC().Unix()
	if j.CreatedAt.IsZero() {
		created = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_jobs (job_key, chat_id, campus, slot, day_before, period_days, next_fire_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_key) DO UPDATE SET
			chat_id      = excluded.chat_id,
			campus       = excluded.campus,
			slot         = excluded.slot,
			day_before   = excluded.day_before,
			period_days  = excluded.period_days,
			next_fire_at = excluded.next_fire_at`,
		j.Key, j.ChatID, j.Campus, j.Slot, boolToInt(j.DayBefore),
		j.PeriodDays, j.NextFireAt.UTC().Unix(), created,
	)
	return err
}

// GetJob returns the job stored under key, or (nil, nil) if there is none.
func (r *SQLiteRepo) GetJob(ctx context.Context, key string) (*domain.ReminderJob, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT job_key, chat_id, campus, slot, day_before, period_days, next_fire_at, created_at
		FROM reminder_jobs
		WHERE job_key = ?`,
		key,
	)
	j, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

// DeleteJob removes the job under key and reports whether a row existed.
func (r *SQLiteRepo) DeleteJob(ctx context.Context, key string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminder_jobs WHERE job_key = ?`, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListJobsByChat returns all jobs of one chat, soonest first.
func (r *SQLiteRepo) ListJobsByChat(ctx context.Context, chatID int64) ([]domain.ReminderJob, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT job_key, chat_id, campus, slot, day_before, period_days, next_fire_at, created_at
		FROM reminder_jobs
		WHERE chat_id = ?
		ORDER BY next_fire_at ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// ListDueJobs returns up to `limit` jobs whose next_fire_at is <= now,
// ordered by next_fire_at ascending.
func (r *SQLiteRepo) ListDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.ReminderJob, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT job_key, chat_id, campus, slot, day_before, period_days, next_fire_at, created_at
		FROM reminder_jobs
		WHERE next_fire_at <= ?
		ORDER BY next_fire_at ASC
		LIMIT ?`,
		now.UTC().Unix(), limit,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// SetJobNextFire updates next_fire_at for a job after it has fired.
func (r *SQLiteRepo) SetJobNextFire(ctx context.Context, key string, next time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reminder_jobs
		SET next_fire_at = ?
		WHERE job_key = ?`,
		next.UTC().Unix(), key,
	)
	return err
}

func collectJobs(rows *sql.Rows) ([]domain.ReminderJob, error) {
	defer rows.Close()

	var res []domain.ReminderJob
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func scanJob(scan func(dest ...any) error) (*domain.ReminderJob, error) {
	var (
		key        string
		chatID     int64
		campus     int
		slot       int
		dayBefore  int
		periodDays int
		nextFireAt int64
		createdAt  int64
	)
	if err := scan(&key, &chatID, &campus, &slot, &dayBefore, &periodDays, &nextFireAt, &createdAt); err != nil {
		return nil, err
	}
	return &domain.ReminderJob{
		Key:        key,
		ChatID:     chatID,
		Campus:     campus,
		Slot:       slot,
		DayBefore:  dayBefore != 0,
		PeriodDays: periodDays,
		NextFireAt: unixUTC(nextFireAt),
		CreatedAt:  unixUTC(createdAt),
	}, nil
}
