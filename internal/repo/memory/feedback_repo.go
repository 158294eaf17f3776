package memory

import (
	"context"
	"time"

	"github.com/bintrack/bintrack/internal/domain/feedback"
)

type FeedbackRepo struct {
	t   *table[feedback.Feedback]
	now func() time.Time
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		t: newTable(
			func(f feedback.Feedback) int64 { return f.ID },
			func(f *feedback.Feedback, id int64) { f.ID = id },
		),
		now: time.Now,
	}
}

func (r *FeedbackRepo) List(ctx context.Context) ([]feedback.Feedback, error) {
	return r.t.list(nil), nil
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID int64) ([]feedback.Feedback, error) {
	return r.t.list(func(f feedback.Feedback) bool { return f.UserID == userID }), nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id int64) (feedback.Feedback, error) {
	f, ok := r.t.get(id)
	if !ok {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	return f, nil
}

func (r *FeedbackRepo) Create(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	return r.t.insert(feedback.NewFromSubmission(f, r.now())), nil
}

// Update never touches createdAt.
func (r *FeedbackRepo) Update(ctx context.Context, id int64, f feedback.Feedback) (feedback.Feedback, error) {
	updated, ok := r.t.replace(id, f, func(stored, submitted feedback.Feedback) feedback.Feedback {
		submitted.CreatedAt = stored.CreatedAt
		return submitted
	})
	if !ok {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	return updated, nil
}

func (r *FeedbackRepo) Delete(ctx context.Context, id int64) error {
	if !r.t.delete(id) {
		return feedback.ErrNotFound
	}
	return nil
}
