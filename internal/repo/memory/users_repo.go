package memory

import (
	"context"

	"github.com/bintrack/bintrack/internal/domain/user"
)

type UsersRepo struct {
	t *table[user.User]
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		t: newTable(
			func(u user.User) int64 { return u.ID },
			func(u *user.User, id int64) { u.ID = id },
		),
	}
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	return r.t.list(nil), nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	u, ok := r.t.get(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return r.t.insert(u), nil
}

func (r *UsersRepo) Update(ctx context.Context, id int64, u user.User) (user.User, error) {
	updated, ok := r.t.replace(id, u, nil)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return updated, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	if !r.t.delete(id) {
		return user.ErrNotFound
	}
	return nil
}
