package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

type listOnlyService struct {
	window  timeentry.Range
	entries []timeentry.TimeEntry
	err     error
}

func (s *listOnlyService) ActiveEntry(ctx context.Context, userId string) (*timeentry.TimeEntry, error) {
	return nil, nil
}

func (s *listOnlyService) CreateEntry(ctx context.Context, req timeentry.CreateEntryRequest) (timeentry.TimeEntry, error) {
	return timeentry.TimeEntry{}, errors.New("not implemented")
}

func (s *listOnlyService) UpdateEntry(ctx context.Context, entryId string, req timeentry.UpdateEntryRequest) (timeentry.TimeEntry, error) {
	return timeentry.TimeEntry{}, errors.New("not implemented")
}

func (s *listOnlyService) DeleteEntry(ctx context.Context, entryId string) error {
	return errors.New("not implemented")
}

func (s *listOnlyService) Entries(ctx context.Context, userId string, window timeentry.Range) ([]timeentry.TimeEntry, error) {
	s.window = window
	return s.entries, s.err
}

func closedEntry(id string, start time.Time, minutes int) timeentry.TimeEntry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return timeentry.TimeEntry{
		Id:              id,
		UserId:          "user-1",
		JobId:           "job-1",
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: &minutes,
	}
}

func newTestReporter(svc timeentry.Service, at time.Time) *Reporter {
	r := NewReporter(svc, "user-1")
	r.now = func() time.Time { return at }
	return r
}

func TestWindows(t *testing.T) {
	// A Wednesday afternoon.
	ref := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

	day := DayWindow(ref)
	if !day.From.Equal(time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)) || !day.To.Equal(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day window = %v..%v", day.From, day.To)
	}

	week := WeekWindow(ref)
	if !week.From.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week must start on Sunday, got %v", week.From)
	}
	if !week.To.Equal(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week must end before next Sunday, got %v", week.To)
	}

	month := MonthWindow(ref)
	if !month.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) || !month.To.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month window = %v..%v", month.From, month.To)
	}
}

func TestWeekWindowOnASunday(t *testing.T) {
	ref := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	week := WeekWindow(ref)
	if !week.From.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("a Sunday belongs to the week it opens, got %v", week.From)
	}
}

func TestSummaryBucketsByStartTime(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC) // Wednesday

	svc := &listOnlyService{
		entries: []timeentry.TimeEntry{
			closedEntry("today", time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), 90),
			closedEntry("monday", time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC), 60),
			closedEntry("sunday", time.Date(2024, 3, 10, 0, 30, 0, 0, time.UTC), 30),
			closedEntry("last-saturday", time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), 120),
			// Overnight session is attributed to the day it started.
			closedEntry("overnight", time.Date(2024, 3, 12, 23, 30, 0, 0, time.UTC), 60),
			// Still running, must not count.
			{Id: "open", UserId: "user-1", StartTime: time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)},
		},
	}

	reporter := newTestReporter(svc, now)
	summary, err := reporter.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TodayHours != 1.5 {
		t.Errorf("today = %v, want 1.5", summary.TodayHours)
	}
	if summary.WeekHours != 4.0 {
		t.Errorf("week = %v, want 4.0", summary.WeekHours)
	}
	if summary.MonthHours != 6.0 {
		t.Errorf("month = %v, want 6.0", summary.MonthHours)
	}

	wantWeekdays := [7]float64{0.5, 1.0, 1.0, 1.5, 0, 0, 0}
	if summary.WeekdayHours != wantWeekdays {
		t.Errorf("weekday histogram = %v, want %v", summary.WeekdayHours, wantWeekdays)
	}

	// One fetch covering both week and month.
	if !svc.window.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("fetch window from = %v, want month start", svc.window.From)
	}
	if !svc.window.To.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("fetch window to = %v, want month end", svc.window.To)
	}
}

func TestSummaryFetchCoversWeekAcrossMonths(t *testing.T) {
	// Sunday March 31st: the week runs into April.
	now := time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC)

	svc := &listOnlyService{}
	reporter := newTestReporter(svc, now)
	if _, err := reporter.Summary(context.Background()); err != nil {
		t.Fatalf("summary: %v", err)
	}

	if !svc.window.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("fetch from = %v, want March 1st", svc.window.From)
	}
	if !svc.window.To.Equal(time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("fetch to = %v, want April 7th", svc.window.To)
	}
}

func TestSummaryFailureGivesZeros(t *testing.T) {
	backendErr := errors.New("listing failed")
	svc := &listOnlyService{err: backendErr}

	reporter := newTestReporter(svc, time.Now())
	summary, err := reporter.Summary(context.Background())

	if !errors.Is(err, backendErr) {
		t.Fatalf("expected wrapped listing error, got %v", err)
	}
	if summary != (Summary{}) {
		t.Errorf("summary on failure = %+v, want zeros", summary)
	}
}

func TestSummaryWithActiveAddsElapsed(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC) // Wednesday

	svc := &listOnlyService{
		entries: []timeentry.TimeEntry{
			closedEntry("today", time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), 90),
		},
	}

	active := &timeentry.TimeEntry{
		Id:        "running",
		UserId:    "user-1",
		StartTime: now.Add(-2 * time.Hour),
	}

	reporter := newTestReporter(svc, now)
	summary, err := reporter.SummaryWithActive(context.Background(), active)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TodayHours != 3.5 {
		t.Errorf("today = %v, want 3.5 with the live session", summary.TodayHours)
	}
	if summary.WeekHours != 3.5 {
		t.Errorf("week = %v, want 3.5", summary.WeekHours)
	}
	if summary.WeekdayHours[3] != 3.5 {
		t.Errorf("wednesday bucket = %v, want 3.5", summary.WeekdayHours[3])
	}
}

func TestSummaryWithNoActiveEntryMatchesSummary(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)
	svc := &listOnlyService{
		entries: []timeentry.TimeEntry{
			closedEntry("today", time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), 90),
		},
	}

	reporter := newTestReporter(svc, now)
	summary, err := reporter.SummaryWithActive(context.Background(), nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TodayHours != 1.5 {
		t.Errorf("today = %v, want 1.5", summary.TodayHours)
	}
}
