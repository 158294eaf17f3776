package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bintrack/bintrack/internal/domain/wastebin"
	"github.com/bintrack/bintrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WastebinsRepo struct {
	base
}

func NewWastebinsRepo(pool *pgxpool.Pool, prom *observability.Prom) *WastebinsRepo {
	return &WastebinsRepo{base{db: pool, prom: prom}}
}

const wastebinColumns = `id, address, emptying_schedule, last_emptied_at, user_id`

func scanWastebin(row pgx.Row) (wastebin.Wastebin, error) {
	var w wastebin.Wastebin
	err := row.Scan(&w.ID, &w.Address, &w.EmptyingSchedule, &w.LastEmptiedAt, &w.UserID)
	w.LastEmptiedAt = w.LastEmptiedAt.UTC()
	return w, err
}

func (r *WastebinsRepo) list(ctx context.Context, op, query string, args ...any) ([]wastebin.Wastebin, error) {
	var out []wastebin.Wastebin

	err := r.observe(op, func() error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, func(rows pgx.Rows) (wastebin.Wastebin, error) { return scanWastebin(rows) })
		return err
	})

	return out, err
}

func (r *WastebinsRepo) List(ctx context.Context) ([]wastebin.Wastebin, error) {
	out, err := r.list(ctx, "wastebins.list", `SELECT `+wastebinColumns+` FROM wastebins ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list wastebins: %w", err)
	}
	return out, nil
}

func (r *WastebinsRepo) ListByUser(ctx context.Context, userID int64) ([]wastebin.Wastebin, error) {
	out, err := r.list(ctx, "wastebins.list_by_user",
		`SELECT `+wastebinColumns+` FROM wastebins WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wastebins for user %d: %w", userID, err)
	}
	return out, nil
}

func (r *WastebinsRepo) GetByID(ctx context.Context, id int64) (wastebin.Wastebin, error) {
	var w wastebin.Wastebin

	err := r.observe("wastebins.get", func() (err error) {
		w, err = scanWastebin(r.db.QueryRow(ctx, `SELECT `+wastebinColumns+` FROM wastebins WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wastebin.Wastebin{}, wastebin.ErrNotFound
		}
		return wastebin.Wastebin{}, fmt.Errorf("get wastebin %d: %w", id, err)
	}
	return w, nil
}

func (r *WastebinsRepo) Create(ctx context.Context, in wastebin.Wastebin) (wastebin.Wastebin, error) {
	var w wastebin.Wastebin

	err := r.observe("wastebins.create", func() (err error) {
		w, err = scanWastebin(r.db.QueryRow(ctx,
			`INSERT INTO wastebins (address, emptying_schedule, last_emptied_at, user_id)
			VALUES ($1, $2, $3, $4)
			RETURNING `+wastebinColumns,
			in.Address, in.EmptyingSchedule, in.LastEmptiedAt.UTC(), in.UserID,
		))
		return err
	})

	if err != nil {
		return wastebin.Wastebin{}, fmt.Errorf("create wastebin: %w", err)
	}
	return w, nil
}

func (r *WastebinsRepo) Update(ctx context.Context, id int64, in wastebin.Wastebin) (wastebin.Wastebin, error) {
	var w wastebin.Wastebin

	err := r.observe("wastebins.update", func() (err error) {
		w, err = scanWastebin(r.db.QueryRow(ctx,
			`UPDATE wastebins
				SET address = $2,
					emptying_schedule = $3,
					last_emptied_at = $4,
					user_id = $5
			WHERE id = $1
			RETURNING `+wastebinColumns,
			id, in.Address, in.EmptyingSchedule, in.LastEmptiedAt.UTC(), in.UserID,
		))
		return err
	})

	if err != nil {
		// the row vanished between the handler's precondition and the write
		if errors.Is(err, pgx.ErrNoRows) {
			return wastebin.Wastebin{}, wastebin.ErrNotFound
		}
		return wastebin.Wastebin{}, fmt.Errorf("update wastebin %d: %w", id, err)
	}
	return w, nil
}

func (r *WastebinsRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe("wastebins.delete", func() error {
		tag, err := r.db.Exec(ctx, `DELETE FROM wastebins WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return fmt.Errorf("delete wastebin %d: %w", id, err)
	}
	if affected == 0 {
		return wastebin.ErrNotFound
	}
	return nil
}
