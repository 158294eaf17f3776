package handlers

import (
	"context"
	"time"

	"github.com/bintrack/bintrack/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	Update(ctx context.Context, id int64, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

type UsersHandler struct {
	repo UsersStore
	res  resource
}

func NewUsersHandler(repo UsersStore, timeout time.Duration) *UsersHandler {
	return &UsersHandler{
		repo: repo,
		res:  resource{name: "User", notFound: user.ErrNotFound, timeout: timeout},
	}
}

func userID(u user.User) int64 { return u.ID }

func (h *UsersHandler) List(ctx *gin.Context) {
	listAll(ctx, h.res, h.repo.List)
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	getOne(ctx, h.res, h.repo.GetByID)
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	createOne(ctx, h.res, h.repo.Create, userID)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	updateOne(ctx, h.res, h.repo.Update, userID)
}

// Delete does not cascade to the user's wastebins or feedback.
func (h *UsersHandler) Delete(ctx *gin.Context) {
	deleteOne(ctx, h.res, h.repo.Delete)
}
