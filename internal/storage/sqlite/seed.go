package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Seed fills an empty database with demo jobs and a couple of closed
// entries so reports have something to show right away.
func (s *SqliteStorage) Seed() error {
	jobsSeed := `INSERT INTO jobs (id, title, client_name) VALUES (?, ?, ?)`

	jobs := [][3]string{
		{"job-fence-repair", "Fence repair", "H. Whitfield"},
		{"job-deck-build", "Deck build", "Sunnybank Cafe"},
		{"job-gutter-clean", "Gutter cleaning", "R. Okafor"},
		{"job-bathroom-reno", "Bathroom renovation", "M. Tran"},
	}

	for _, job := range jobs {
		if _, err := s.db.Exec(jobsSeed, job[0], job[1], job[2]); err != nil {
			return fmt.Errorf("could not seed job data: %w", err)
		}
	}

	entriesSeed := `INSERT INTO entries (id, user_id, job_id, start_time, end_time, duration_minutes, description)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC().Truncate(time.Second)
	closed := []struct {
		jobId   string
		start   time.Time
		minutes int
		note    string
	}{
		{"job-fence-repair", now.Add(-26 * time.Hour), 95, "replaced two posts"},
		{"job-deck-build", now.Add(-4 * time.Hour), 140, "framing"},
	}

	for _, e := range closed {
		end := e.start.Add(time.Duration(e.minutes) * time.Minute)
		if _, err := s.db.Exec(entriesSeed,
			uuid.NewString(), "demo-user", e.jobId,
			e.start.Format(time.RFC3339), end.Format(time.RFC3339), e.minutes, e.note); err != nil {
			return fmt.Errorf("could not seed entry data: %w", err)
		}
	}

	return nil
}
