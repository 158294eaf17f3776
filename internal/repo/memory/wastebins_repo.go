package memory

import (
	"context"

	"github.com/bintrack/bintrack/internal/domain/wastebin"
)

type WastebinsRepo struct {
	t *table[wastebin.Wastebin]
}

func NewWastebinsRepo() *WastebinsRepo {
	return &WastebinsRepo{
		t: newTable(
			func(w wastebin.Wastebin) int64 { return w.ID },
			func(w *wastebin.Wastebin, id int64) { w.ID = id },
		),
	}
}

func (r *WastebinsRepo) List(ctx context.Context) ([]wastebin.Wastebin, error) {
	return r.t.list(nil), nil
}

func (r *WastebinsRepo) ListByUser(ctx context.Context, userID int64) ([]wastebin.Wastebin, error) {
	return r.t.list(func(w wastebin.Wastebin) bool { return w.UserID == userID }), nil
}

func (r *WastebinsRepo) GetByID(ctx context.Context, id int64) (wastebin.Wastebin, error) {
	w, ok := r.t.get(id)
	if !ok {
		return wastebin.Wastebin{}, wastebin.ErrNotFound
	}
	return w, nil
}

func (r *WastebinsRepo) Create(ctx context.Context, w wastebin.Wastebin) (wastebin.Wastebin, error) {
	w.LastEmptiedAt = w.LastEmptiedAt.UTC()
	return r.t.insert(w), nil
}

func (r *WastebinsRepo) Update(ctx context.Context, id int64, w wastebin.Wastebin) (wastebin.Wastebin, error) {
	w.LastEmptiedAt = w.LastEmptiedAt.UTC()
	updated, ok := r.t.replace(id, w, nil)
	if !ok {
		return wastebin.Wastebin{}, wastebin.ErrNotFound
	}
	return updated, nil
}

func (r *WastebinsRepo) Delete(ctx context.Context, id int64) error {
	if !r.t.delete(id) {
		return wastebin.ErrNotFound
	}
	return nil
}
