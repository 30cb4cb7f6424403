package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dev-avwi/TradieTrack-sub007/internal/logger"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

var (
	ErrNotIdle    = errors.New("a timer session is already active")
	ErrNotRunning = errors.New("no timer session is running")
	ErrBusy       = errors.New("another timer action is still in progress")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseSaving
	PhaseDiscarding
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseSaving:
		return "saving"
	case PhaseDiscarding:
		return "discarding"
	}

	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a point-in-time view of the machine for rendering. ActiveEntry is
// a copy, so callers may hold on to it across updates.
type State struct {
	Phase          Phase
	ActiveEntry    *timeentry.TimeEntry
	ElapsedSeconds int
	Clock          string
	SelectedJobId  string

	// InFlight is true while a service call is outstanding. Surfaces should
	// keep their controls disabled until it clears.
	InFlight bool
}

// Machine drives a single user's timer session against the remote service.
// The service is the arbiter of whether a session exists; the machine only
// mirrors it and refuses overlapping transitions. All methods are safe for
// concurrent use.
type Machine struct {
	svc    timeentry.Service
	userId string
	now    func() time.Time

	mu       sync.Mutex
	phase    Phase
	active   *timeentry.TimeEntry
	jobId    string
	inFlight bool
}

func New(svc timeentry.Service, userId string) *Machine {
	return &Machine{
		svc:    svc,
		userId: userId,
		now:    time.Now,
	}
}

// Snapshot returns the current state. It never blocks on the service, so a
// ticking UI can call it every second even while a transition is in flight.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := State{
		Phase:         m.phase,
		SelectedJobId: m.jobId,
		InFlight:      m.inFlight,
	}

	if m.active != nil {
		entry := *m.active
		state.ActiveEntry = &entry
		state.ElapsedSeconds = Elapsed(entry.StartTime, m.now())
	}

	state.Clock = FormatClock(state.ElapsedSeconds)
	return state
}

// SelectJob records the job the next session will be booked to.
func (m *Machine) SelectJob(jobId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobId = jobId
}

// Start opens a new session for jobId. On success the machine is running
// with the entry the service returned. If the service reports a conflict,
// the machine adopts the already-open entry via Reconcile and still returns
// an error wrapping timeentry.ErrConflict so callers can word the outcome.
// Any other failure leaves the machine idle with nothing recorded.
func (m *Machine) Start(ctx context.Context, jobId string) error {
	if jobId == "" {
		return timeentry.ErrJobRequired
	}

	m.mu.Lock()
	if m.phase != PhaseIdle {
		m.mu.Unlock()
		return ErrNotIdle
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	m.jobId = jobId
	m.inFlight = true
	m.mu.Unlock()

	req := timeentry.CreateEntryRequest{
		UserId:    m.userId,
		JobId:     jobId,
		StartTime: m.now(),
	}
	created, err := m.svc.CreateEntry(ctx, req)

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		m.mu.Unlock()
		if errors.Is(err, timeentry.ErrConflict) {
			if rerr := m.Reconcile(ctx); rerr != nil {
				logger.GetFromContext(ctx).WarnContext(ctx, "could not adopt conflicting entry", "error", rerr)
			}
		}

		return fmt.Errorf("could not start timer: %w", err)
	}

	m.phase = PhaseRunning
	m.active = &created
	m.jobId = created.JobId
	m.mu.Unlock()

	return nil
}

// Stop closes the running session and returns the saved entry. The duration
// is rounded up to whole minutes and never below one minute. While the save
// is in flight the machine reports PhaseSaving and keeps counting; a
// transient failure reverts to running so no tracked time is lost.
func (m *Machine) Stop(ctx context.Context) (timeentry.TimeEntry, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return timeentry.TimeEntry{}, ErrBusy
	}
	if m.phase != PhaseRunning || m.active == nil {
		m.mu.Unlock()
		return timeentry.TimeEntry{}, ErrNotRunning
	}
	entry := *m.active
	m.phase = PhaseSaving
	m.inFlight = true
	m.mu.Unlock()

	end := m.now()
	if end.Before(entry.StartTime) {
		// clock skew
		end = entry.StartTime
	}

	minutes := CeilMinutes(end.Sub(entry.StartTime))
	if minutes < 1 {
		minutes = 1
	}

	req := timeentry.UpdateEntryRequest{
		EndTime:         end,
		DurationMinutes: minutes,
	}
	closed, err := m.svc.UpdateEntry(ctx, entry.Id, req)

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		if errors.Is(err, timeentry.ErrNotFound) {
			// The entry vanished while we held it: closed or deleted from
			// another device. Drop it and ask the service what is true now.
			m.phase = PhaseIdle
			m.active = nil
			m.mu.Unlock()

			if rerr := m.Reconcile(ctx); rerr != nil {
				logger.GetFromContext(ctx).WarnContext(ctx, "reconcile after stop failed", "error", rerr)
			}

			return timeentry.TimeEntry{}, fmt.Errorf("could not stop timer: %w", err)
		}

		m.phase = PhaseRunning
		m.mu.Unlock()
		return timeentry.TimeEntry{}, fmt.Errorf("could not stop timer: %w", err)
	}

	m.phase = PhaseIdle
	m.active = nil
	m.mu.Unlock()

	return closed, nil
}

// Discard deletes the running session without saving any time. Requires an
// explicit call, so surfaces must never route their primary action here.
func (m *Machine) Discard(ctx context.Context) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.phase != PhaseRunning || m.active == nil {
		m.mu.Unlock()
		return ErrNotRunning
	}
	entryId := m.active.Id
	m.phase = PhaseDiscarding
	m.inFlight = true
	m.mu.Unlock()

	err := m.svc.DeleteEntry(ctx, entryId)

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		if errors.Is(err, timeentry.ErrNotFound) {
			m.phase = PhaseIdle
			m.active = nil
			m.mu.Unlock()

			if rerr := m.Reconcile(ctx); rerr != nil {
				logger.GetFromContext(ctx).WarnContext(ctx, "reconcile after discard failed", "error", rerr)
			}

			return fmt.Errorf("could not discard timer: %w", err)
		}

		m.phase = PhaseRunning
		m.mu.Unlock()
		return fmt.Errorf("could not discard timer: %w", err)
	}

	m.phase = PhaseIdle
	m.active = nil
	m.mu.Unlock()

	return nil
}
