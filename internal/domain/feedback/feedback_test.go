package feedback_test

import (
	"testing"
	"time"

	"github.com/bintrack/bintrack/internal/domain/feedback"
)

func TestNewFromSubmissionOverwritesServerFields(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 9, 14, 7, 59, 0, loc)

	got := feedback.NewFromSubmission(feedback.Feedback{
		ID:        42,
		UserID:    7,
		Message:   "bin lid is broken",
		CreatedAt: "1999-01-01T00:00",
	}, now)

	if got.ID != 0 {
		t.Fatalf("id should be left for the store, got %d", got.ID)
	}
	if got.UserID != 7 || got.Message != "bin lid is broken" {
		t.Fatalf("unexpected payload copy: %+v", got)
	}
	if got.CreatedAt != "2024-03-09T12:07" {
		t.Fatalf("createdAt = %q, want %q", got.CreatedAt, "2024-03-09T12:07")
	}
}
