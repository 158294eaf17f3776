package wastebin

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("wastebin not found")

type Wastebin struct {
	ID               int64     `json:"id" binding:"gte=0"`
	Address          string    `json:"address" binding:"max=500"`
	EmptyingSchedule string    `json:"emptyingSchedule" binding:"max=200"`
	LastEmptiedAt    time.Time `json:"lastEmptiedAt"`
	UserID           int64     `json:"userId" binding:"gte=0"`
}
