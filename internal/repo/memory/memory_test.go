package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bintrack/bintrack/internal/domain/feedback"
	"github.com/bintrack/bintrack/internal/domain/user"
	"github.com/bintrack/bintrack/internal/domain/wastebin"
)

func TestWastebinsCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewWastebinsRepo()

	in := wastebin.Wastebin{
		ID:               99, // ignored
		Address:          "12 Elm St",
		EmptyingSchedule: "weekly",
		LastEmptiedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UserID:           1,
	}

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("first id = %d, want 1", created.ID)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	in.ID = created.ID
	if got != in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
}

func TestListOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	for _, name := range []string{"Edward Perry", "Josephine Drake", "Ada"} {
		if _, err := repo.Create(ctx, user.User{Name: name}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_ = repo.Delete(ctx, 2)
	_, _ = repo.Create(ctx, user.User{Name: "late"})

	users, _ := repo.List(ctx)

	wantIDs := []int64{1, 3, 4}
	if len(users) != len(wantIDs) {
		t.Fatalf("got %d users, want %d", len(users), len(wantIDs))
	}
	for i, id := range wantIDs {
		if users[i].ID != id {
			t.Fatalf("users[%d].ID = %d, want %d (ids are never reused)", i, users[i].ID, id)
		}
	}
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewWastebinsRepo()

	w, _ := repo.Create(ctx, wastebin.Wastebin{Address: "a"})

	if err := repo.Delete(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, w.ID); !errors.Is(err, wastebin.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := repo.Delete(ctx, w.ID); !errors.Is(err, wastebin.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestListByUserExactSet(t *testing.T) {
	ctx := context.Background()
	repo := NewWastebinsRepo()

	for _, uid := range []int64{1, 2, 1, 3} {
		_, _ = repo.Create(ctx, wastebin.Wastebin{Address: "x", UserID: uid})
	}

	bins, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(bins) != 2 || bins[0].ID != 1 || bins[1].ID != 3 {
		t.Fatalf("unexpected bins %+v", bins)
	}

	none, err := repo.ListByUser(ctx, 42)
	if err != nil {
		t.Fatalf("empty match should not error: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", none)
	}
}

func TestUpdateMissingRow(t *testing.T) {
	ctx := context.Background()

	if _, err := NewUsersRepo().Update(ctx, 5, user.User{ID: 5}); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("users: %v", err)
	}
	if _, err := NewWastebinsRepo().Update(ctx, 5, wastebin.Wastebin{ID: 5}); !errors.Is(err, wastebin.ErrNotFound) {
		t.Fatalf("wastebins: %v", err)
	}
	if _, err := NewFeedbackRepo().Update(ctx, 5, feedback.Feedback{ID: 5}); !errors.Is(err, feedback.ErrNotFound) {
		t.Fatalf("feedback: %v", err)
	}
}

func TestFeedbackCreatedAtIsServerOwned(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepo()
	repo.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 12, 0, time.UTC) }

	created, _ := repo.Create(ctx, feedback.Feedback{UserID: 1, Message: "hi", CreatedAt: "2000-01-01T00:00"})
	if created.CreatedAt != "2025-06-01T08:30" {
		t.Fatalf("createdAt = %q", created.CreatedAt)
	}

	repo.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	updated, err := repo.Update(ctx, created.ID, feedback.Feedback{ID: created.ID, UserID: 1, Message: "edited", CreatedAt: "1970-01-01T00:00"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CreatedAt != created.CreatedAt || updated.Message != "edited" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	got, _ := repo.GetByID(ctx, created.ID)
	if got.CreatedAt != created.CreatedAt {
		t.Fatalf("createdAt drifted: %q", got.CreatedAt)
	}
}

func TestConcurrentUpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		repo := NewWastebinsRepo()
		w, _ := repo.Create(ctx, wastebin.Wastebin{Address: "race"})

		var wg sync.WaitGroup
		var updateErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updateErr = repo.Update(ctx, w.ID, wastebin.Wastebin{ID: w.ID, Address: "moved"})
		}()
		go func() {
			defer wg.Done()
			_ = repo.Delete(ctx, w.ID)
		}()
		wg.Wait()

		if _, err := repo.GetByID(ctx, w.ID); !errors.Is(err, wastebin.ErrNotFound) {
			t.Fatalf("row must be gone after delete, got %v", err)
		}
		if updateErr != nil && !errors.Is(updateErr, wastebin.ErrNotFound) {
			t.Fatalf("update must succeed before the delete or see not found, got %v", updateErr)
		}
	}
}
