package timeentry

import "time"

// TimeEntry is a single tracked work session. While the session is still
// running, EndTime and DurationMinutes are nil. A closed entry always has
// both set, with EndTime never before StartTime.
type TimeEntry struct {
	Id              string     `json:"id"`
	UserId          string     `json:"userId"`
	JobId           string     `json:"jobId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Description     string     `json:"description,omitempty"`
}

// Open reports whether the entry is still running.
func (e TimeEntry) Open() bool {
	return e.EndTime == nil
}

// Job is the slice of the jobs catalog a timer session can be billed to.
type Job struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	ClientName string `json:"clientName,omitempty"`
}

type CreateEntryRequest struct {
	UserId      string    `json:"userId"`
	JobId       string    `json:"jobId"`
	StartTime   time.Time `json:"startTime"`
	Description string    `json:"description,omitempty"`
}

type UpdateEntryRequest struct {
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

// Range is a half-open window of wall-clock time: [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}
