package feedback

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("feedback not found")

// CreatedAtLayout is the minute-precision UTC layout feedback timestamps are stored in.
const CreatedAtLayout = "2006-01-02T15:04"

type Feedback struct {
	ID        int64  `json:"id" binding:"gte=0"`
	UserID    int64  `json:"userId" binding:"gte=0"`
	Message   string `json:"message" binding:"max=4000"`
	CreatedAt string `json:"createdAt"`
}

// Stamp returns the createdAt value for a feedback submitted at now.
func Stamp(now time.Time) string {
	return now.UTC().Format(CreatedAtLayout)
}

// NewFromSubmission drops any caller supplied id and createdAt.
func NewFromSubmission(in Feedback, now time.Time) Feedback {
	return Feedback{
		UserID:    in.UserID,
		Message:   in.Message,
		CreatedAt: Stamp(now),
	}
}
