// Package cached wraps entity stores with a read-through cache. Reads are
// served from the cache when present; every successful write drops the
// entity's whole namespace so list, by-user and by-id reads refill together.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/bintrack/bintrack/internal/cache"
)

type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in T) (T, error)
	Update(ctx context.Context, id int64, in T) (T, error)
	Delete(ctx context.Context, id int64) error
}

type OwnedStore[T any] interface {
	Store[T]
	ListByUser(ctx context.Context, userID int64) ([]T, error)
}

// Observer receives one of hit, miss or error per lookup.
type Observer func(entity, result string)

type Repo[T any] struct {
	next      Store[T]
	cache     cache.Cache
	namespace string
	observe   Observer
}

func New[T any](next Store[T], c cache.Cache, namespace string, observe Observer) *Repo[T] {
	if observe == nil {
		observe = func(string, string) {}
	}
	return &Repo[T]{next: next, cache: c, namespace: namespace, observe: observe}
}

// read serves key from the cache or loads it. Cache failures degrade to a
// direct store read; they never fail the request.
func read[V any](ctx context.Context, r *Repo[V], key string, out any, load func() error) error {
	// version is taken before load so a write that lands during the load
	// makes the fill below a no-op
	raw, version, ok, err := r.cache.Get(ctx, r.namespace, key)
	cacheUp := err == nil

	switch {
	case err != nil:
		r.observe(r.namespace, "error")
		slog.Default().WarnContext(ctx, "cache_get_failed", "namespace", r.namespace, "key", key, "err", err)
	case ok:
		if jsonErr := json.Unmarshal(raw, out); jsonErr == nil {
			r.observe(r.namespace, "hit")
			return nil
		}
		r.observe(r.namespace, "error")
	default:
		r.observe(r.namespace, "miss")
	}

	if err := load(); err != nil {
		return err
	}

	if !cacheUp {
		return nil
	}

	if b, err := json.Marshal(out); err == nil {
		if err := r.cache.Set(ctx, r.namespace, version, key, b); err != nil {
			slog.Default().WarnContext(ctx, "cache_set_failed", "namespace", r.namespace, "key", key, "err", err)
		}
	}
	return nil
}

func (r *Repo[T]) invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx, r.namespace); err != nil {
		slog.Default().ErrorContext(ctx, "cache_invalidate_failed", "namespace", r.namespace, "err", err)
	}
}

func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := read(ctx, r, "list", &out, func() (err error) {
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *Repo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var out T
	err := read(ctx, r, "id:"+strconv.FormatInt(id, 10), &out, func() (err error) {
		out, err = r.next.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (r *Repo[T]) Create(ctx context.Context, in T) (T, error) {
	out, err := r.next.Create(ctx, in)
	if err == nil {
		r.invalidate(ctx)
	}
	return out, err
}

func (r *Repo[T]) Update(ctx context.Context, id int64, in T) (T, error) {
	out, err := r.next.Update(ctx, id, in)
	if err == nil {
		r.invalidate(ctx)
	}
	return out, err
}

func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// OwnedRepo adds a cached ListByUser.
type OwnedRepo[T any] struct {
	*Repo[T]
	owned OwnedStore[T]
}

func NewOwned[T any](next OwnedStore[T], c cache.Cache, namespace string, observe Observer) *OwnedRepo[T] {
	return &OwnedRepo[T]{Repo: New[T](next, c, namespace, observe), owned: next}
}

func (r *OwnedRepo[T]) ListByUser(ctx context.Context, userID int64) ([]T, error) {
	var out []T
	err := read(ctx, r.Repo, "user:"+strconv.FormatInt(userID, 10), &out, func() (err error) {
		out, err = r.owned.ListByUser(ctx, userID)
		return err
	})
	return out, err
}
