package storage

import "errors"

var ErrAccountNotFound = errors.New("account is not registered")

// Account links a Telegram user to the time-entry backend: which tracker
// user they act as, the API token used on their behalf, and the job new
// sessions default to when the command does not name one.
type Account struct {
	TelegramId   int64
	UserId       string
	ApiToken     string
	DefaultJobId string
	IsActive     bool
}
