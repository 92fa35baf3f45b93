package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	u := &domain.User{ChatID: 100, FirstName: "Ann", Username: "ann", Locale: "en"}
	if err := repo.UpsertUser(ctx, u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetUser(ctx, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FirstName != "Ann" || got.Username != "ann" || got.Locale != "en" {
		t.Fatalf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	if err := repo.SetLocale(ctx, 100, "ru"); err != nil {
		t.Fatalf("set locale: %v", err)
	}
	got, _ = repo.GetUser(ctx, 100)
	if got.Locale != "ru" {
		t.Fatalf("locale not updated: %+v", got)
	}
}

func TestListUsers(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if err := repo.UpsertUser(ctx, &domain.User{ChatID: id, Locale: "ru"}); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}
	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("want 3 users, got %d", len(users))
	}
}

func TestJobPutReplacesByKey(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	key := domain.JobKey{ChatID: 100, Campus: 1, Slot: 0}.Encode()
	first := time.Date(2019, time.April, 19, 12, 0, 0, 0, time.UTC)

	job := &domain.ReminderJob{
		Key: key, ChatID: 100, Campus: 1, Slot: 0,
		PeriodDays: domain.CyclePeriodDays, NextFireAt: first,
	}
	if err := repo.PutJob(ctx, job); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Re-schedule the same slot with a different time of day.
	job.NextFireAt = first.Add(3 * time.Hour)
	if err := repo.PutJob(ctx, job); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.GetJob(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("job missing after replace")
	}
	if !got.NextFireAt.Equal(first.Add(3 * time.Hour)) {
		t.Fatalf("next_fire_at not replaced: %v", got.NextFireAt)
	}

	jobs, err := repo.ListJobsByChat(ctx, 100)
	if err != nil {
		t.Fatalf("list by chat: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("replace duplicated the job: %d rows", len(jobs))
	}
}

func TestJobGetMissingIsNil(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.GetJob(context.Background(), "cleaning:1:1:0")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil, got %+v", got)
	}
}

func TestJobDeleteReportsRemoval(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	key := domain.JobKey{ChatID: 5, Campus: 2, Slot: 1, DayBefore: true}.Encode()
	job := &domain.ReminderJob{
		Key: key, ChatID: 5, Campus: 2, Slot: 1, DayBefore: true,
		PeriodDays: domain.CyclePeriodDays, NextFireAt: time.Now().UTC(),
	}
	if err := repo.PutJob(ctx, job); err != nil {
		t.Fatalf("put: %v", err)
	}

	removed, err := repo.DeleteJob(ctx, key)
	if err != nil || !removed {
		t.Fatalf("first delete: removed=%v err=%v", removed, err)
	}
	removed, err = repo.DeleteJob(ctx, key)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatal("second delete reported a removal")
	}
}

func TestListDueJobs(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	put := func(slot int, fireAt time.Time) {
		key := domain.JobKey{ChatID: 9, Campus: 3, Slot: slot}.Encode()
		err := repo.PutJob(ctx, &domain.ReminderJob{
			Key: key, ChatID: 9, Campus: 3, Slot: slot,
			PeriodDays: domain.CyclePeriodDays, NextFireAt: fireAt,
		})
		if err != nil {
			t.Fatalf("put slot %d: %v", slot, err)
		}
	}
	put(0, now.Add(-2*time.Hour))
	put(1, now.Add(-1*time.Hour))
	put(3, now.Add(time.Hour))

	due, err := repo.ListDueJobs(ctx, now, 100)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("want 2 due jobs, got %d", len(due))
	}
	if due[0].Slot != 0 || due[1].Slot != 1 {
		t.Fatalf("wrong order: %+v", due)
	}

	next := domain.NextOccurrence(due[0].NextFireAt, now)
	if err := repo.SetJobNextFire(ctx, due[0].Key, next); err != nil {
		t.Fatalf("set next fire: %v", err)
	}
	due, _ = repo.ListDueJobs(ctx, now, 100)
	if len(due) != 1 {
		t.Fatalf("advanced job still due: %d", len(due))
	}
}
