package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultStoreTimeout = 2 * time.Second

// resource describes one entity table for the shared CRUD flow.
type resource struct {
	name     string // display name used in messages, e.g. "Wastebin"
	notFound error
	timeout  time.Duration
}

func (r resource) storeContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	timeout := r.timeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx.Request.Context(), timeout)
}

// storeFailed answers a store error: the entity's not-found sentinel becomes
// 404, anything else is logged and surfaces as 500.
func (r resource) storeFailed(ctx *gin.Context, op string, err error) {
	if errors.Is(err, r.notFound) {
		RespondNotFound(ctx, r.name+" not found")
		return
	}

	slog.Default().ErrorContext(ctx.Request.Context(), "store_failed",
		"entity", strings.ToLower(r.name), "op", op, "err", err, "request_id", requestIDFrom(ctx))
	RespondInternal(ctx, "Could not "+op+" "+strings.ToLower(r.name))
}

// pathID parses a positive integer path parameter.
func pathID(ctx *gin.Context, param string) (int64, bool) {
	raw := ctx.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || id <= 0 {
		RespondError(ctx, http.StatusBadRequest, "invalid_id", "Invalid id", gin.H{"param": param, "value": raw, "reason": "must be a positive integer"})
		return 0, false
	}

	return id, true
}

func listAll[T any](ctx *gin.Context, r resource, list func(context.Context) ([]T, error)) {
	cctx, cancel := r.storeContext(ctx)
	defer cancel()

	items, err := list(cctx)
	if err != nil {
		r.storeFailed(ctx, "list", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func listByOwner[T any](ctx *gin.Context, r resource, list func(context.Context, int64) ([]T, error)) {
	userID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := r.storeContext(ctx)
	defer cancel()

	items, err := list(cctx, userID)
	if err != nil {
		r.storeFailed(ctx, "list", err)
		return
	}

	// no match is an empty array, never 404
	if items == nil {
		items = []T{}
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func getOne[T any](ctx *gin.Context, r resource, get func(context.Context, int64) (T, error)) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := r.storeContext(ctx)
	defer cancel()

	item, err := get(cctx, id)
	if err != nil {
		r.storeFailed(ctx, "fetch", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, item)
}

// createOne binds the body, lets the store assign the id (any id in the body
// is ignored) and answers 201 with a Location header.
func createOne[T any](ctx *gin.Context, r resource, create func(context.Context, T) (T, error), idOf func(T) int64) {
	var in T

	if !BindJSON(ctx, &in) {
		return
	}

	cctx, cancel := r.storeContext(ctx)
	defer cancel()

	item, err := create(cctx, in)
	if err != nil {
		r.storeFailed(ctx, "create", err)
		return
	}

	base := strings.TrimSuffix(ctx.Request.URL.Path, "/")
	ctx.Header("Location", base+"/"+strconv.FormatInt(idOf(item), 10))
	ctx.JSON(http.StatusCreated, item)
}

// updateOne replaces the whole row. The body id must equal the path id; a
// mismatch is rejected before the store is touched.
func updateOne[T any](ctx *gin.Context, r resource, update func(context.Context, int64, T) (T, error), idOf func(T) int64) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var in T

	if !BindJSON(ctx, &in) {
		return
	}

	if bodyID := idOf(in); bodyID != id {
		RespondError(ctx, http.StatusBadRequest, "id_mismatch", "Path id and body id differ", gin.H{"pathId": id, "bodyId": bodyID})
		return
	}

	cctx, cancel := r.storeContext(ctx)
	defer cancel()

	item, err := update(cctx, id, in)
	if err != nil {
		r.storeFailed(ctx, "update", err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func deleteOne(ctx *gin.Context, r resource, del func(context.Context, int64) error) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := r.storeContext(ctx)
	defer cancel()

	if err := del(cctx, id); err != nil {
		r.storeFailed(ctx, "delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
