package timer

import (
	"context"
	"fmt"
)

// Reconcile replaces local state with the service's view of the user's open
// entry. Surfaces call it on activation, before enabling any timer action,
// and again whenever local state turns out to be stale.
//
// When the service cannot be reached the machine falls back to idle and the
// error is returned: showing no timer until the next successful reconcile is
// safer than guessing that one is still running. Calling Reconcile twice in
// a row is harmless, the second call lands on the same state.
func (m *Machine) Reconcile(ctx context.Context) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	m.inFlight = true
	m.mu.Unlock()

	active, err := m.svc.ActiveEntry(ctx, m.userId)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		m.phase = PhaseIdle
		m.active = nil
		return fmt.Errorf("could not reconcile timer state: %w", err)
	}

	if active == nil {
		m.phase = PhaseIdle
		m.active = nil
		return nil
	}

	entry := *active
	m.phase = PhaseRunning
	m.active = &entry
	m.jobId = entry.JobId

	return nil
}
