// Package forms holds dashboard draft state and the client-side field rules
// that run before any request is sent.
package forms

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/bintrack/bintrack/pkg/apiclient"
	"github.com/go-playground/validator/v10"
)

// Issue is one failed field rule. Field is the camelCase json key.
type Issue struct {
	Field   string
	Message string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return v
}

type UserDraft struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

func UserDraftFrom(u apiclient.User) UserDraft {
	return UserDraft{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func (d UserDraft) User() apiclient.User {
	return apiclient.User{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone}
}

type WastebinDraft struct {
	ID               int64     `json:"id"`
	Address          string    `json:"address" validate:"required"`
	EmptyingSchedule string    `json:"emptyingSchedule"`
	LastEmptiedAt    time.Time `json:"lastEmptiedAt"`
	UserID           int64     `json:"userId"`
}

func WastebinDraftFrom(w apiclient.Wastebin) WastebinDraft {
	return WastebinDraft{
		ID:               w.ID,
		Address:          w.Address,
		EmptyingSchedule: w.EmptyingSchedule,
		LastEmptiedAt:    w.LastEmptiedAt,
		UserID:           w.UserID,
	}
}

func (d WastebinDraft) Wastebin() apiclient.Wastebin {
	return apiclient.Wastebin{
		ID:               d.ID,
		Address:          d.Address,
		EmptyingSchedule: d.EmptyingSchedule,
		LastEmptiedAt:    d.LastEmptiedAt,
		UserID:           d.UserID,
	}
}

func ValidateUser(d UserDraft) []Issue {
	return issues(d)
}

func ValidateWastebin(d WastebinDraft) []Issue {
	return issues(d)
}

// ValidateFeedback accepts every draft; feedback has no client rules.
func ValidateFeedback(apiclient.Feedback) []Issue {
	return nil
}

// draft lists the types with field rules; validate.Struct on them only ever
// fails with ValidationErrors.
type draft interface {
	UserDraft | WastebinDraft
}

func issues[D draft](d D) []Issue {
	var verrs validator.ValidationErrors
	if !errors.As(validate.Struct(d), &verrs) {
		return nil
	}

	out := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Issue{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.StructField() + " is required"
	default:
		return fe.StructField() + " is invalid"
	}
}
