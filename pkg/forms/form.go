package forms

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/bintrack/bintrack/pkg/apiclient"
)

// ErrInvalid is returned by Submit when the draft fails validation.
var ErrInvalid = errors.New("forms: draft has invalid fields")

// Form is the editable state behind one create or edit dialog.
type Form[D any] struct {
	mu       sync.Mutex
	initial  D
	values   D
	errors   map[string]string
	validate func(D) []Issue
	inflight int
}

// New starts a form at initial. A nil validate accepts every draft.
func New[D any](initial D, validate func(D) []Issue) *Form[D] {
	if validate == nil {
		validate = func(D) []Issue { return nil }
	}
	return &Form[D]{
		initial:  initial,
		values:   initial,
		errors:   map[string]string{},
		validate: validate,
	}
}

func NewUserForm(initial UserDraft) *Form[UserDraft] {
	return New(initial, ValidateUser)
}

func NewWastebinForm(initial WastebinDraft) *Form[WastebinDraft] {
	return New(initial, ValidateWastebin)
}

func NewFeedbackForm(initial apiclient.Feedback) *Form[apiclient.Feedback] {
	return New(initial, ValidateFeedback)
}

func (f *Form[D]) Values() D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns a copy of the field → message map.
func (f *Form[D]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// Busy reports whether a submit callback is running.
func (f *Form[D]) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight > 0
}

// Change applies mutate to the draft and re-checks field only. Errors on
// other fields are left as they were.
func (f *Form[D]) Change(field string, mutate func(*D)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mutate(&f.values)

	delete(f.errors, field)
	for _, is := range f.validate(f.values) {
		if is.Field == field {
			f.errors[field] = is.Message
			break
		}
	}
}

// Submit validates the whole draft and, when clean, calls fn once with it.
// Invalid drafts return ErrInvalid and fn is not called. Concurrent submits
// are not serialized.
func (f *Form[D]) Submit(ctx context.Context, fn func(context.Context, D) error) error {
	f.mu.Lock()

	issues := f.validate(f.values)
	if len(issues) > 0 {
		f.errors = firstPerField(issues)
		f.mu.Unlock()
		return ErrInvalid
	}

	f.errors = map[string]string{}
	f.inflight++
	draft := f.values
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	return fn(ctx, draft)
}

// Reset restores the initial values and clears errors.
func (f *Form[D]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = f.initial
	f.errors = map[string]string{}
}

func firstPerField(issues []Issue) map[string]string {
	out := make(map[string]string, len(issues))
	for _, is := range issues {
		if _, seen := out[is.Field]; !seen {
			out[is.Field] = is.Message
		}
	}
	return out
}
