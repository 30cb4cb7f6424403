package sqlite

const (
	createEntriesTable = `
CREATE TABLE IF NOT EXISTS entries (
  id               TEXT PRIMARY KEY,
  user_id          TEXT,
  job_id           TEXT,
  start_time       TEXT,
  end_time         TEXT,
  duration_minutes INT,
  description      TEXT
)`

	// The service-wide invariant lives in the schema: at most one open entry
	// per user, no matter how many clients talk to the store at once.
	createOpenEntryIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS one_open_entry_per_user
ON entries(user_id)
WHERE end_time IS NULL`

	createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
  id          TEXT PRIMARY KEY,
  title       TEXT,
  client_name TEXT
)`

	createAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
  telegram_id    INT PRIMARY KEY,
  user_id        TEXT,
  api_token      TEXT,
  default_job_id TEXT,
  is_active      BIT
)`

	addEntry = `
INSERT INTO entries (id, user_id, job_id, start_time, end_time, duration_minutes, description)
VALUES (?, ?, ?, ?, NULL, NULL, ?)
	`

	getActiveEntry = `
SELECT
  id, user_id, job_id, start_time, end_time, duration_minutes, description
FROM entries
WHERE user_id = ? AND end_time IS NULL
	`

	getEntryById = `
SELECT
  id, user_id, job_id, start_time, end_time, duration_minutes, description
FROM entries
WHERE id = ?
	`

	getEntriesInRange = `
SELECT
  id, user_id, job_id, start_time, end_time, duration_minutes, description
FROM entries
WHERE user_id = ? AND start_time >= ? AND start_time < ?
ORDER BY start_time
	`

	closeEntry = `
UPDATE entries SET
  end_time = ?,
  duration_minutes = ?
WHERE id = ? AND end_time IS NULL
	`

	removeOpenEntry = `
DELETE FROM entries
WHERE id = ? AND end_time IS NULL
	`

	getJobs = `
SELECT id, title, client_name
FROM jobs
ORDER BY title
	`

	addAccount = `
INSERT INTO accounts (telegram_id, user_id, api_token, default_job_id, is_active)
VALUES (?, ?, ?, ?, ?)
	`

	getAccountById = `
SELECT
  telegram_id, user_id, api_token, default_job_id, is_active
FROM accounts
WHERE telegram_id = ?
	`

	updateAccount = `
UPDATE accounts SET
  user_id = ?,
  api_token = ?,
  default_job_id = ?
WHERE telegram_id = ?
	`

	removeAccount = `
DELETE FROM accounts
WHERE telegram_id = ?
	`

	checkAccountExists = `
SELECT 1 FROM accounts
WHERE telegram_id = ?
	`
)
