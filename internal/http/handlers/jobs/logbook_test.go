package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/types"
)

type fakeLogbook struct {
	userID   string
	from, to time.Time
	hours    []types.WorkHours
	miles    []types.MileageLog
	err      error
}

func (f *fakeLogbook) ListWorkHours(ctx context.Context, userID string, from, to time.Time) ([]types.WorkHours, error) {
	f.userID, f.from, f.to = userID, from, to
	return f.hours, f.err
}

func (f *fakeLogbook) ListMileage(ctx context.Context, userID string, from, to time.Time) ([]types.MileageLog, error) {
	f.userID, f.from, f.to = userID, from, to
	return f.miles, f.err
}

func authed(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), "u1"))
}

func TestHours(t *testing.T) {
	logbook := &fakeLogbook{hours: []types.WorkHours{
		{ID: "1", UserID: "u1", Hours: 2.25},
		{ID: "2", UserID: "u1", Hours: 1.5},
	}}

	rec := httptest.NewRecorder()
	Hours(logbook)(rec, authed("/hours?date=2025-03-01"))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var summary types.HoursSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if summary.Date != "2025-03-01" || summary.TotalHours != 3.8 || len(summary.Entries) != 2 {
		t.Fatalf("Unexpected summary %+v", summary)
	}

	wantFrom := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if logbook.userID != "u1" || !logbook.from.Equal(wantFrom) || !logbook.to.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Fatalf("Unexpected range %s..%s for %q", logbook.from, logbook.to, logbook.userID)
	}
}

func TestHours_DefaultsToToday(t *testing.T) {
	logbook := &fakeLogbook{}

	rec := httptest.NewRecorder()
	Hours(logbook)(rec, authed("/hours"))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	today := time.Now().UTC().Format(dateLayout)
	if logbook.from.Format(dateLayout) != today {
		t.Fatalf("Expected range to start today (%s), got %s", today, logbook.from)
	}
}

func TestMileage(t *testing.T) {
	logbook := &fakeLogbook{miles: []types.MileageLog{{ID: "1", Miles: 12.34}, {ID: "2", Miles: 7}}}

	rec := httptest.NewRecorder()
	Mileage(logbook)(rec, authed("/mileage?date=2025-03-01"))

	var summary types.MileageSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if summary.TotalMiles != 19.3 || len(summary.Entries) != 2 {
		t.Fatalf("Unexpected summary %+v", summary)
	}
}

func TestLogbook_Errors(t *testing.T) {
	rec := httptest.NewRecorder()
	Mileage(&fakeLogbook{})(rec, httptest.NewRequest(http.MethodGet, "/mileage", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	Hours(&fakeLogbook{})(rec, authed("/hours?date=01-03-2025"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a bad date, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	Mileage(&fakeLogbook{err: errors.New("db down")})(rec, authed("/mileage"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
}
