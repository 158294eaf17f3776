package handlers

import (
	"context"
	"time"

	"github.com/bintrack/bintrack/internal/domain/feedback"
	"github.com/gin-gonic/gin"
)

// FeedbackStore implementations stamp createdAt on Create and keep it on Update.
type FeedbackStore interface {
	List(ctx context.Context) ([]feedback.Feedback, error)
	ListByUser(ctx context.Context, userID int64) ([]feedback.Feedback, error)
	GetByID(ctx context.Context, id int64) (feedback.Feedback, error)
	Create(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error)
	Update(ctx context.Context, id int64, f feedback.Feedback) (feedback.Feedback, error)
	Delete(ctx context.Context, id int64) error
}

type FeedbackHandler struct {
	repo FeedbackStore
	res  resource
}

func NewFeedbackHandler(repo FeedbackStore, timeout time.Duration) *FeedbackHandler {
	return &FeedbackHandler{
		repo: repo,
		res:  resource{name: "Feedback", notFound: feedback.ErrNotFound, timeout: timeout},
	}
}

func feedbackID(f feedback.Feedback) int64 { return f.ID }

func (h *FeedbackHandler) List(ctx *gin.Context) {
	listAll(ctx, h.res, h.repo.List)
}

func (h *FeedbackHandler) ListByUser(ctx *gin.Context) {
	listByOwner(ctx, h.res, h.repo.ListByUser)
}

func (h *FeedbackHandler) Get(ctx *gin.Context) {
	getOne(ctx, h.res, h.repo.GetByID)
}

func (h *FeedbackHandler) Create(ctx *gin.Context) {
	createOne(ctx, h.res, h.repo.Create, feedbackID)
}

func (h *FeedbackHandler) Update(ctx *gin.Context) {
	updateOne(ctx, h.res, h.repo.Update, feedbackID)
}

func (h *FeedbackHandler) Delete(ctx *gin.Context) {
	deleteOne(ctx, h.res, h.repo.Delete)
}
