package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

// Store is an in-memory time-entry backend with the same semantics as the
// sqlite store. The dev server falls back to it when no database is
// configured, and tests use it to avoid touching disk.
type Store struct {
	mu      sync.Mutex
	entries map[string]timeentry.TimeEntry
	jobs    []timeentry.Job
}

func New() *Store {
	return &Store{
		entries: make(map[string]timeentry.TimeEntry),
	}
}

// SeedJobs replaces the jobs catalog.
func (s *Store) SeedJobs(jobs ...timeentry.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = slices.Clone(jobs)
}

func (s *Store) ActiveEntry(ctx context.Context, userId string) (*timeentry.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.UserId == userId && entry.Open() {
			found := entry
			return &found, nil
		}
	}

	return nil, nil
}

func (s *Store) CreateEntry(ctx context.Context, req timeentry.CreateEntryRequest) (timeentry.TimeEntry, error) {
	if req.UserId == "" {
		return timeentry.TimeEntry{}, fmt.Errorf("userId is required")
	}
	if req.JobId == "" {
		return timeentry.TimeEntry{}, timeentry.ErrJobRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.UserId == req.UserId && entry.Open() {
			return timeentry.TimeEntry{}, timeentry.ErrConflict
		}
	}

	start := req.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	entry := timeentry.TimeEntry{
		Id:          uuid.NewString(),
		UserId:      req.UserId,
		JobId:       req.JobId,
		StartTime:   start,
		Description: req.Description,
	}
	s.entries[entry.Id] = entry

	return entry, nil
}

func (s *Store) UpdateEntry(ctx context.Context, entryId string, req timeentry.UpdateEntryRequest) (timeentry.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryId]
	if !ok || !entry.Open() {
		return timeentry.TimeEntry{}, timeentry.ErrNotFound
	}

	if req.EndTime.Before(entry.StartTime) {
		return timeentry.TimeEntry{}, fmt.Errorf("end time precedes start time")
	}
	if req.DurationMinutes < 1 {
		return timeentry.TimeEntry{}, fmt.Errorf("duration must be at least one minute")
	}

	end := req.EndTime
	minutes := req.DurationMinutes
	entry.EndTime = &end
	entry.DurationMinutes = &minutes
	s.entries[entryId] = entry

	return entry, nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryId]
	if !ok || !entry.Open() {
		return timeentry.ErrNotFound
	}

	delete(s.entries, entryId)
	return nil
}

func (s *Store) Entries(ctx context.Context, userId string, window timeentry.Range) ([]timeentry.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []timeentry.TimeEntry{}
	for _, entry := range s.entries {
		if entry.UserId == userId && window.Contains(entry.StartTime) {
			result = append(result, entry)
		}
	}

	slices.SortFunc(result, func(i, j timeentry.TimeEntry) int {
		return i.StartTime.Compare(j.StartTime)
	})

	return result, nil
}

func (s *Store) Jobs(ctx context.Context) ([]timeentry.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.jobs), nil
}
