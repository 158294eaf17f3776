package forms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpx "github.com/bintrack/bintrack/internal/http"
	"github.com/bintrack/bintrack/internal/repo/memory"
	"github.com/bintrack/bintrack/pkg/apiclient"
	"github.com/gin-gonic/gin"
)

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name  string
		draft UserDraft
		want  map[string]string
	}{
		{
			name:  "complete",
			draft: UserDraft{Name: "Ana", Email: "ana@example.com", Phone: "555"},
			want:  map[string]string{},
		},
		{
			name:  "empty",
			draft: UserDraft{},
			want: map[string]string{
				"name":  "Name is required",
				"email": "Email is required",
				"phone": "Phone is required",
			},
		},
		{
			name:  "missing phone",
			draft: UserDraft{Name: "Ana", Email: "ana@example.com"},
			want:  map[string]string{"phone": "Phone is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firstPerField(ValidateUser(tt.draft))
			if len(got) != len(tt.want) {
				t.Fatalf("issues = %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Fatalf("%s: got %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestValidateWastebin(t *testing.T) {
	got := ValidateWastebin(WastebinDraft{EmptyingSchedule: "weekly"})
	if len(got) != 1 || got[0].Field != "address" || got[0].Message != "Address is required" {
		t.Fatalf("issues = %+v", got)
	}

	// schedule, timestamp and owner have no client rules
	if got := ValidateWastebin(WastebinDraft{Address: "12 Elm St"}); len(got) != 0 {
		t.Fatalf("issues = %+v", got)
	}
}

func TestIssuesAlwaysNameAField(t *testing.T) {
	all := append(ValidateUser(UserDraft{}), ValidateWastebin(WastebinDraft{})...)
	if len(all) != 4 {
		t.Fatalf("issues = %+v", all)
	}

	for _, is := range all {
		if is.Field == "" || is.Message == "" {
			t.Fatalf("issue without field or message: %+v", is)
		}
	}

	if _, ok := firstPerField(all)[""]; ok {
		t.Fatal("errors keyed under an empty field")
	}
}

func TestValidateFeedbackAcceptsEverything(t *testing.T) {
	if got := ValidateFeedback(apiclient.Feedback{}); len(got) != 0 {
		t.Fatalf("issues = %+v", got)
	}
}

func TestChangeSetsOnlyThatField(t *testing.T) {
	f := NewUserForm(UserDraft{})

	f.Change("name", func(d *UserDraft) { d.Name = "" })

	errs := f.Errors()
	if len(errs) != 1 || errs["name"] != "Name is required" {
		t.Fatalf("errors = %v", errs)
	}

	f.Change("name", func(d *UserDraft) { d.Name = "Ana" })
	if errs := f.Errors(); len(errs) != 0 {
		t.Fatalf("errors after fix = %v", errs)
	}
}

func TestSubmitInvalidSkipsCallback(t *testing.T) {
	f := NewWastebinForm(WastebinDraft{})

	called := false
	err := f.Submit(context.Background(), func(context.Context, WastebinDraft) error {
		called = true
		return nil
	})

	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if called {
		t.Fatalf("callback must not run for an invalid draft")
	}
	if f.Errors()["address"] != "Address is required" {
		t.Fatalf("errors = %v", f.Errors())
	}
}

func TestSubmitReportsBusyAndClearsErrors(t *testing.T) {
	f := NewUserForm(UserDraft{})
	_ = f.Submit(context.Background(), func(context.Context, UserDraft) error { return nil })

	f.Change("name", func(d *UserDraft) { d.Name = "Ana" })
	f.Change("email", func(d *UserDraft) { d.Email = "ana@example.com" })
	f.Change("phone", func(d *UserDraft) { d.Phone = "555" })

	var busyInside atomic.Bool
	err := f.Submit(context.Background(), func(_ context.Context, d UserDraft) error {
		busyInside.Store(f.Busy())
		if d.Name != "Ana" {
			t.Errorf("draft = %+v", d)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !busyInside.Load() {
		t.Fatalf("form should report busy while the callback runs")
	}
	if f.Busy() {
		t.Fatalf("form still busy after submit returned")
	}
	if len(f.Errors()) != 0 {
		t.Fatalf("errors = %v", f.Errors())
	}
}

func TestSubmitReturnsCallbackError(t *testing.T) {
	f := NewFeedbackForm(apiclient.Feedback{Message: "hi"})
	boom := errors.New("boom")

	if err := f.Submit(context.Background(), func(context.Context, apiclient.Feedback) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestReset(t *testing.T) {
	initial := WastebinDraft{ID: 4, Address: "12 Elm St"}
	f := NewWastebinForm(initial)

	f.Change("address", func(d *WastebinDraft) { d.Address = "" })
	f.Reset()

	if f.Values() != initial {
		t.Fatalf("values = %+v", f.Values())
	}
	if len(f.Errors()) != 0 {
		t.Fatalf("errors = %v", f.Errors())
	}
}

func TestWastebinFormDrivesClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(httpx.NewRouter(quiet, httpx.RouterDeps{
		Env:       "dev",
		Users:     memory.NewUsersRepo(),
		Wastebins: memory.NewWastebinsRepo(),
		Feedback:  memory.NewFeedbackRepo(),
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL+"/api", apiclient.WithHTTPClient(srv.Client()), apiclient.WithLogger(quiet))
	ctx := context.Background()

	f := NewWastebinForm(WastebinDraft{EmptyingSchedule: "weekly", LastEmptiedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), UserID: 1})

	var requests int
	create := func(ctx context.Context, d WastebinDraft) error {
		requests++
		_, err := client.CreateWastebin(ctx, d.Wastebin())
		return err
	}

	// blocked locally, nothing reaches the server
	if err := f.Submit(ctx, create); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	if requests != 0 {
		t.Fatalf("requests = %d", requests)
	}

	f.Change("address", func(d *WastebinDraft) { d.Address = "12 Elm St" })
	if err := f.Submit(ctx, create); err != nil {
		t.Fatalf("submit: %v", err)
	}

	bins, err := client.ListWastebins(ctx)
	if err != nil || len(bins) != 1 || bins[0].Address != "12 Elm St" {
		t.Fatalf("bins = %+v, %v", bins, err)
	}

	edit := NewWastebinForm(WastebinDraftFrom(bins[0]))
	if edit.Values().ID != bins[0].ID {
		t.Fatalf("draft lost id: %+v", edit.Values())
	}
}
