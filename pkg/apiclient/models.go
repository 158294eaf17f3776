package apiclient

import "time"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Wastebin struct {
	ID               int64     `json:"id"`
	Address          string    `json:"address"`
	EmptyingSchedule string    `json:"emptyingSchedule"`
	LastEmptiedAt    time.Time `json:"lastEmptiedAt"`
	UserID           int64     `json:"userId"`
}

// Feedback.CreatedAt is assigned by the server; values sent are ignored.
type Feedback struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}
