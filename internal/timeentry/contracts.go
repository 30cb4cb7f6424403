package timeentry

import (
	"context"
	"errors"
)

var (
	// ErrConflict means the service already holds an open entry for the user,
	// for example a timer started from another device.
	ErrConflict = errors.New("an open time entry already exists for this user")

	// ErrNotFound means the referenced entry no longer exists or was already
	// closed elsewhere.
	ErrNotFound = errors.New("time entry not found")

	// ErrJobRequired means a session was about to start without a job selected.
	ErrJobRequired = errors.New("a job must be selected before starting a timer")
)

// Service is the remote time-entry backend. It is the single source of truth
// for which entry, if any, is currently open: clients reconcile against it
// and never trust local state across restarts.
type Service interface {
	// ActiveEntry returns the user's open entry, or nil when no timer is
	// running. An error means the answer is unknown, not that there is none.
	ActiveEntry(ctx context.Context, userId string) (*TimeEntry, error)

	// CreateEntry opens a new entry. Fails with ErrConflict if the user
	// already has an open entry. The returned entry carries the
	// service-assigned id and canonical start time.
	CreateEntry(ctx context.Context, req CreateEntryRequest) (TimeEntry, error)

	// UpdateEntry closes an open entry. Fails with ErrNotFound if the entry
	// was deleted or already closed elsewhere.
	UpdateEntry(ctx context.Context, entryId string, req UpdateEntryRequest) (TimeEntry, error)

	// DeleteEntry removes an open entry without keeping its time. Fails with
	// ErrNotFound under the same conditions as UpdateEntry.
	DeleteEntry(ctx context.Context, entryId string) error

	// Entries lists the user's entries whose start time falls within the
	// window, ordered by start time.
	Entries(ctx context.Context, userId string, window Range) ([]TimeEntry, error)
}

// JobDirectory lists jobs a timer session can be booked against.
type JobDirectory interface {
	Jobs(ctx context.Context) ([]Job, error)
}
