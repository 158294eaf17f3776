package handlers

import (
	"context"
	"time"

	"github.com/bintrack/bintrack/internal/domain/wastebin"
	"github.com/gin-gonic/gin"
)

type WastebinsStore interface {
	List(ctx context.Context) ([]wastebin.Wastebin, error)
	ListByUser(ctx context.Context, userID int64) ([]wastebin.Wastebin, error)
	GetByID(ctx context.Context, id int64) (wastebin.Wastebin, error)
	Create(ctx context.Context, w wastebin.Wastebin) (wastebin.Wastebin, error)
	Update(ctx context.Context, id int64, w wastebin.Wastebin) (wastebin.Wastebin, error)
	Delete(ctx context.Context, id int64) error
}

type WastebinsHandler struct {
	repo WastebinsStore
	res  resource
}

func NewWastebinsHandler(repo WastebinsStore, timeout time.Duration) *WastebinsHandler {
	return &WastebinsHandler{
		repo: repo,
		res:  resource{name: "Wastebin", notFound: wastebin.ErrNotFound, timeout: timeout},
	}
}

func wastebinID(w wastebin.Wastebin) int64 { return w.ID }

func (h *WastebinsHandler) List(ctx *gin.Context) {
	listAll(ctx, h.res, h.repo.List)
}

func (h *WastebinsHandler) ListByUser(ctx *gin.Context) {
	listByOwner(ctx, h.res, h.repo.ListByUser)
}

func (h *WastebinsHandler) Get(ctx *gin.Context) {
	getOne(ctx, h.res, h.repo.GetByID)
}

// Create accepts an empty address: non-empty checks belong to the dashboard form.
func (h *WastebinsHandler) Create(ctx *gin.Context) {
	createOne(ctx, h.res, h.repo.Create, wastebinID)
}

func (h *WastebinsHandler) Update(ctx *gin.Context) {
	updateOne(ctx, h.res, h.repo.Update, wastebinID)
}

func (h *WastebinsHandler) Delete(ctx *gin.Context) {
	deleteOne(ctx, h.res, h.repo.Delete)
}
