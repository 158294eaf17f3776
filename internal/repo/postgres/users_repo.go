package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bintrack/bintrack/internal/domain/user"
	"github.com/bintrack/bintrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	base
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base{db: pool, prom: prom}}
}

const userColumns = `id, name, email, phone`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone)
	return u, err
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
		if err != nil {
			return err
		}
		out, err = collect(rows, func(rows pgx.Rows) (user.User, error) { return scanUser(rows) })
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get", func() (err error) {
		u, err = scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, in user.User) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() (err error) {
		u, err = scanUser(r.db.QueryRow(ctx,
			`INSERT INTO users (name, email, phone) VALUES ($1, $2, $3)
			RETURNING `+userColumns,
			in.Name, in.Email, in.Phone,
		))
		return err
	})

	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update overwrites the whole row. A row deleted concurrently yields no
// RETURNING row, reported as user.ErrNotFound.
func (r *UsersRepo) Update(ctx context.Context, id int64, in user.User) (user.User, error) {
	var u user.User

	err := r.observe("users.update", func() (err error) {
		u, err = scanUser(r.db.QueryRow(ctx,
			`UPDATE users
				SET name = $2,
					email = $3,
					phone = $4
			WHERE id = $1
			RETURNING `+userColumns,
			id, in.Name, in.Email, in.Phone,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

// Delete leaves wastebins and feedback that reference the user in place.
func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe("users.delete", func() error {
		tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}
