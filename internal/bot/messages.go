package bot

const helloMsg = `Available commands:
	/help - how to set up the bot
	/reg - register this chat
	/unreg - delete the account
	/status - current timer state
	/clock_in - start the timer on your default job
	/clock_out - stop the timer and book the minutes
	/scrap - discard the running session without booking
	/day - hours worked today
	/week - hours worked this week
`

const helpMsg = `
	To set or update your api token, send a message with the
	'token:' prefix and no spaces.
	Example:
	'token:tt-9f2c81d4a0b35e67'

	To set or update the default job for /clock_in, send a message
	with the 'job:' prefix and no spaces. Job ids are listed in the
	TradieTrack app under Jobs.
	Example:
	'job:job-fence-repair'
`

// replies
const (
	accountNotRegisteredMsg     = "Error: this chat is not registered. Use /reg to register"
	accountAlreadyRegisteredMsg = "Error: this chat is already registered"
	accountUpdateErrorMsg       = "Error while updating account data"
	accountRegistrationErrorMsg = "Error while registering the account"
	accountRemovedMsg           = "Account has been deleted"
	accountRegisteredMsg        = "Account registered. Set your api token and default job next, see /help"
	tokenSavedMsg               = "Token has been saved"
	jobSavedMsg                 = "Default job has been saved"
	jobNotSetMsg                = "Error: no default job set. Send 'job:<job id>' first, see /help"
	serverUnreachableMsg        = "Could not reach the TradieTrack server, try again later"
	timerAdoptedMsg             = "A timer was already running on another device, the bot picked it up"
	timerClosedElsewhereMsg     = "That timer was already closed on another device"
	noTimerRunningMsg           = "No timer is running"
	clockInFailedMsg            = "Could not start the timer"
	clockOutFailedMsg           = "Could not stop the timer"
	scrapFailedMsg              = "Could not discard the session"
	scrappedMsg                 = "Session discarded, nothing was booked"
	reportFailedMsg             = "Could not fetch the report"
)

const statusRunningTemplate = `Timer is RUNNING
Job: %s
Started: %s
On the clock: %s`

const timerAlreadyRunningTemplate = "A timer is already running on job %s (%s on the clock)"

const statusIdleTemplate = `Timer is idle
Worked today: %.1f h`

const clockedInTemplate = "Clocked in on job %s at %s"

const clockedOutTemplate = "Clocked out, booked %d min"

const dayReportTemplate = "Worked today: %.1f h"
