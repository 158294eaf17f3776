package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bintrack/bintrack/internal/domain/feedback"
	"github.com/bintrack/bintrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackRepo struct {
	base
	now func() time.Time
}

func NewFeedbackRepo(pool *pgxpool.Pool, prom *observability.Prom) *FeedbackRepo {
	return &FeedbackRepo{base: base{db: pool, prom: prom}, now: time.Now}
}

const feedbackColumns = `id, user_id, message, created_at`

func scanFeedback(row pgx.Row) (feedback.Feedback, error) {
	var f feedback.Feedback
	err := row.Scan(&f.ID, &f.UserID, &f.Message, &f.CreatedAt)
	return f, err
}

func (r *FeedbackRepo) list(ctx context.Context, op, query string, args ...any) ([]feedback.Feedback, error) {
	var out []feedback.Feedback

	err := r.observe(op, func() error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, func(rows pgx.Rows) (feedback.Feedback, error) { return scanFeedback(rows) })
		return err
	})

	return out, err
}

func (r *FeedbackRepo) List(ctx context.Context) ([]feedback.Feedback, error) {
	out, err := r.list(ctx, "feedback.list", `SELECT `+feedbackColumns+` FROM feedback ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID int64) ([]feedback.Feedback, error) {
	out, err := r.list(ctx, "feedback.list_by_user",
		`SELECT `+feedbackColumns+` FROM feedback WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback for user %d: %w", userID, err)
	}
	return out, nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id int64) (feedback.Feedback, error) {
	var f feedback.Feedback

	err := r.observe("feedback.get", func() (err error) {
		f, err = scanFeedback(r.db.QueryRow(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return feedback.Feedback{}, feedback.ErrNotFound
		}
		return feedback.Feedback{}, fmt.Errorf("get feedback %d: %w", id, err)
	}
	return f, nil
}

func (r *FeedbackRepo) Create(ctx context.Context, in feedback.Feedback) (feedback.Feedback, error) {
	in = feedback.NewFromSubmission(in, r.now())
	var f feedback.Feedback

	err := r.observe("feedback.create", func() (err error) {
		f, err = scanFeedback(r.db.QueryRow(ctx,
			`INSERT INTO feedback (user_id, message, created_at) VALUES ($1, $2, $3)
			RETURNING `+feedbackColumns,
			in.UserID, in.Message, in.CreatedAt,
		))
		return err
	})

	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// Update rewrites user_id and message; created_at is left as stamped on create.
func (r *FeedbackRepo) Update(ctx context.Context, id int64, in feedback.Feedback) (feedback.Feedback, error) {
	var f feedback.Feedback

	err := r.observe("feedback.update", func() (err error) {
		f, err = scanFeedback(r.db.QueryRow(ctx,
			`UPDATE feedback
				SET user_id = $2,
					message = $3
			WHERE id = $1
			RETURNING `+feedbackColumns,
			id, in.UserID, in.Message,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return feedback.Feedback{}, feedback.ErrNotFound
		}
		return feedback.Feedback{}, fmt.Errorf("update feedback %d: %w", id, err)
	}
	return f, nil
}

func (r *FeedbackRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe("feedback.delete", func() error {
		tag, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	if affected == 0 {
		return feedback.ErrNotFound
	}
	return nil
}
