package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/dev-avwi/TradieTrack-sub007/internal/logger"
	"github.com/dev-avwi/TradieTrack-sub007/internal/storage"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

// SqliteStorage backs the time-entry service and the bot account registry
// with a single sqlite database. Timestamps are stored as RFC3339 UTC text,
// which keeps range scans plain string comparisons.
type SqliteStorage struct {
	db *sql.DB
}

func New(name string) (*SqliteStorage, error) {
	slog.Info("initializing DB...", "db_name", name)
	db, err := sql.Open("sqlite3", name)

	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not access database: %w", err)
	}

	return &SqliteStorage{db: db}, nil
}

func (s *SqliteStorage) Up(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createEntriesTable)
	if err != nil {
		return fmt.Errorf("could not create table entries: %w", err)
	}

	_, err = s.db.ExecContext(ctx, createOpenEntryIndex)
	if err != nil {
		return fmt.Errorf("could not create open entry index: %w", err)
	}

	_, err = s.db.ExecContext(ctx, createJobsTable)
	if err != nil {
		return fmt.Errorf("could not create table jobs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, createAccountsTable)
	if err != nil {
		return fmt.Errorf("could not create table accounts: %w", err)
	}

	return nil
}

func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) ActiveEntry(ctx context.Context, userId string) (*timeentry.TimeEntry, error) {
	q, err := s.db.Prepare(getActiveEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	defer q.Close()

	entry, err := scanEntry(q.QueryRowContext(ctx, userId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch active entry: %w", err)
	}

	return &entry, nil
}

func (s *SqliteStorage) CreateEntry(ctx context.Context, req timeentry.CreateEntryRequest) (timeentry.TimeEntry, error) {
	if req.UserId == "" {
		return timeentry.TimeEntry{}, fmt.Errorf("userId is required")
	}
	if req.JobId == "" {
		return timeentry.TimeEntry{}, timeentry.ErrJobRequired
	}

	start := req.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	start = start.UTC().Truncate(time.Second)

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, addEntry, id, req.UserId, req.JobId, start.Format(time.RFC3339), req.Description)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return timeentry.TimeEntry{}, timeentry.ErrConflict
		}

		return timeentry.TimeEntry{}, fmt.Errorf("could not add new entry: %w", err)
	}

	return timeentry.TimeEntry{
		Id:          id,
		UserId:      req.UserId,
		JobId:       req.JobId,
		StartTime:   start,
		Description: req.Description,
	}, nil
}

func (s *SqliteStorage) UpdateEntry(ctx context.Context, entryId string, req timeentry.UpdateEntryRequest) (timeentry.TimeEntry, error) {
	entry, err := s.entryById(ctx, entryId)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	if !entry.Open() {
		return timeentry.TimeEntry{}, timeentry.ErrNotFound
	}

	end := req.EndTime.UTC().Truncate(time.Second)
	if end.Before(entry.StartTime) {
		return timeentry.TimeEntry{}, fmt.Errorf("end time precedes start time")
	}
	if req.DurationMinutes < 1 {
		return timeentry.TimeEntry{}, fmt.Errorf("duration must be at least one minute")
	}

	res, err := s.db.ExecContext(ctx, closeEntry, end.Format(time.RFC3339), req.DurationMinutes, entryId)
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("could not update entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("could not update entry: %w", err)
	}
	if affected == 0 {
		return timeentry.TimeEntry{}, timeentry.ErrNotFound
	}

	minutes := req.DurationMinutes
	entry.EndTime = &end
	entry.DurationMinutes = &minutes

	return entry, nil
}

func (s *SqliteStorage) DeleteEntry(ctx context.Context, entryId string) error {
	res, err := s.db.ExecContext(ctx, removeOpenEntry, entryId)
	if err != nil {
		return fmt.Errorf("could not delete entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not delete entry: %w", err)
	}
	if affected == 0 {
		return timeentry.ErrNotFound
	}

	return nil
}

func (s *SqliteStorage) Entries(ctx context.Context, userId string, window timeentry.Range) ([]timeentry.TimeEntry, error) {
	from := window.From.UTC().Format(time.RFC3339)
	to := window.To.UTC().Format(time.RFC3339)

	rows, err := s.db.QueryContext(ctx, getEntriesInRange, userId, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not fetch entries: %w", err)
	}
	defer rows.Close()

	result := []timeentry.TimeEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("could not read entry row: %w", err)
		}

		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read entry rows: %w", err)
	}

	return result, nil
}

func (s *SqliteStorage) Jobs(ctx context.Context) ([]timeentry.Job, error) {
	rows, err := s.db.QueryContext(ctx, getJobs)
	if err != nil {
		return nil, fmt.Errorf("could not fetch jobs: %w", err)
	}
	defer rows.Close()

	result := []timeentry.Job{}
	for rows.Next() {
		job := timeentry.Job{}
		if err := rows.Scan(&job.Id, &job.Title, &job.ClientName); err != nil {
			return nil, fmt.Errorf("could not read job row: %w", err)
		}

		result = append(result, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read job rows: %w", err)
	}

	return result, nil
}

func (s *SqliteStorage) entryById(ctx context.Context, entryId string) (timeentry.TimeEntry, error) {
	q, err := s.db.Prepare(getEntryById)
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to build query: %w", err)
	}
	defer q.Close()

	entry, err := scanEntry(q.QueryRowContext(ctx, entryId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrNotFound
		}

		return timeentry.TimeEntry{}, fmt.Errorf("failed to fetch row: %w", err)
	}

	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (timeentry.TimeEntry, error) {
	entry := timeentry.TimeEntry{}

	var rawStart string
	var rawEnd sql.NullString
	var minutes sql.NullInt64

	err := row.Scan(&entry.Id, &entry.UserId, &entry.JobId, &rawStart, &rawEnd, &minutes, &entry.Description)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	start, err := time.Parse(time.RFC3339, rawStart)
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("malformed start time %q: %w", rawStart, err)
	}
	entry.StartTime = start

	if rawEnd.Valid {
		end, err := time.Parse(time.RFC3339, rawEnd.String)
		if err != nil {
			return timeentry.TimeEntry{}, fmt.Errorf("malformed end time %q: %w", rawEnd.String, err)
		}
		entry.EndTime = &end
	}

	if minutes.Valid {
		m := int(minutes.Int64)
		entry.DurationMinutes = &m
	}

	return entry, nil
}

func (s *SqliteStorage) AddAccount(ctx context.Context, account storage.Account) error {
	_, err := s.db.ExecContext(ctx, addAccount,
		account.TelegramId, account.UserId, account.ApiToken, account.DefaultJobId, account.IsActive)
	if err != nil {
		return fmt.Errorf("could not add new account: %w", err)
	}

	return nil
}

func (s *SqliteStorage) AccountExists(ctx context.Context, telegramId int64) bool {
	ctxLogger := logger.GetFromContext(ctx)
	q, err := s.db.Prepare(checkAccountExists)

	if err != nil {
		ctxLogger.ErrorContext(ctx, err.Error())
		return false
	}
	defer q.Close()

	var exists int
	err = q.QueryRowContext(ctx, telegramId).Scan(&exists)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false
		}

		ctxLogger.ErrorContext(ctx, err.Error())
	}

	return true
}

func (s *SqliteStorage) Account(ctx context.Context, telegramId int64) (storage.Account, error) {
	q, err := s.db.Prepare(getAccountById)
	if err != nil {
		return storage.Account{}, fmt.Errorf("failed to build query: %w", err)
	}
	defer q.Close()

	account := storage.Account{}
	err = q.QueryRowContext(ctx, telegramId).Scan(
		&account.TelegramId, &account.UserId, &account.ApiToken, &account.DefaultJobId, &account.IsActive)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Account{}, storage.ErrAccountNotFound
		}

		return storage.Account{}, fmt.Errorf("failed to fetch row: %w", err)
	}

	return account, nil
}

func (s *SqliteStorage) UpdateAccount(ctx context.Context, account storage.Account) error {
	_, err := s.db.ExecContext(ctx, updateAccount,
		account.UserId, account.ApiToken, account.DefaultJobId, account.TelegramId)
	if err != nil {
		return fmt.Errorf("could not update account: %w", err)
	}

	return nil
}

func (s *SqliteStorage) RemoveAccount(ctx context.Context, telegramId int64) error {
	_, err := s.db.ExecContext(ctx, removeAccount, telegramId)
	if err != nil {
		return err
	}

	return nil
}
