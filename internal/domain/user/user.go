package user

import "errors"

var ErrNotFound = errors.New("user not found")

// User owns wastebins and submits feedback. Email is kept as text even though
// older dashboard builds typed it as a number.
type User struct {
	ID    int64  `json:"id" binding:"gte=0"`
	Name  string `json:"name" binding:"max=200"`
	Email string `json:"email" binding:"max=320"`
	Phone string `json:"phone" binding:"max=64"`
}
