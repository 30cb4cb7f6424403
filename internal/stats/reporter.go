package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timer"
)

// Summary aggregates a user's booked time around a reference instant.
// Values come from closed entries only unless the caller folds the running
// session in via SummaryWithActive.
type Summary struct {
	TodayHours float64
	WeekHours  float64
	MonthHours float64

	// WeekdayHours buckets the current week's hours by the local calendar
	// day an entry started on. Index 0 is Sunday, matching time.Weekday.
	WeekdayHours [7]float64
}

// DayWindow is the local calendar day around ref: [midnight, next midnight).
func DayWindow(ref time.Time) timeentry.Range {
	from := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return timeentry.Range{From: from, To: from.AddDate(0, 0, 1)}
}

// WeekWindow is the Sunday-started week around ref.
func WeekWindow(ref time.Time) timeentry.Range {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	from := day.AddDate(0, 0, -int(day.Weekday()))
	return timeentry.Range{From: from, To: from.AddDate(0, 0, 7)}
}

// MonthWindow is the calendar month around ref.
func MonthWindow(ref time.Time) timeentry.Range {
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return timeentry.Range{From: from, To: from.AddDate(0, 1, 0)}
}

// Reporter computes summaries from the service's entry listings. Entries are
// attributed to windows by their start time only, so an overnight session
// counts fully towards the day it began and totals stay stable once booked.
type Reporter struct {
	svc    timeentry.Service
	userId string
	now    func() time.Time
}

func NewReporter(svc timeentry.Service, userId string) *Reporter {
	return &Reporter{
		svc:    svc,
		userId: userId,
		now:    time.Now,
	}
}

// Summary fetches one window covering both the current week and month and
// buckets the closed entries. On error the zero Summary is returned so
// surfaces can keep rendering zeros instead of blocking.
func (r *Reporter) Summary(ctx context.Context) (Summary, error) {
	now := r.now()

	day := DayWindow(now)
	week := WeekWindow(now)
	month := MonthWindow(now)

	// The week can straddle a month boundary, so fetch the union.
	fetch := week
	if month.From.Before(fetch.From) {
		fetch.From = month.From
	}
	if month.To.After(fetch.To) {
		fetch.To = month.To
	}

	entries, err := r.svc.Entries(ctx, r.userId, fetch)
	if err != nil {
		return Summary{}, fmt.Errorf("could not fetch entries for summary: %w", err)
	}

	summary := Summary{}
	for _, entry := range entries {
		if entry.Open() || entry.DurationMinutes == nil {
			continue
		}

		hours := float64(*entry.DurationMinutes) / 60
		bucket(&summary, entry.StartTime, hours, now, day, week, month)
	}

	return summary, nil
}

// SummaryWithActive extends Summary with the running session's elapsed time,
// attributed to the day the session started just like a closed entry.
func (r *Reporter) SummaryWithActive(ctx context.Context, active *timeentry.TimeEntry) (Summary, error) {
	summary, err := r.Summary(ctx)
	if err != nil || active == nil {
		return summary, err
	}

	now := r.now()
	hours := float64(timer.Elapsed(active.StartTime, now)) / 3600
	bucket(&summary, active.StartTime, hours, now, DayWindow(now), WeekWindow(now), MonthWindow(now))

	return summary, nil
}

func bucket(s *Summary, start time.Time, hours float64, now time.Time, day, week, month timeentry.Range) {
	if day.Contains(start) {
		s.TodayHours += hours
	}
	if week.Contains(start) {
		s.WeekHours += hours
		s.WeekdayHours[start.In(now.Location()).Weekday()] += hours
	}
	if month.Contains(start) {
		s.MonthHours += hours
	}
}
