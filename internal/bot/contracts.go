package bot

import (
	"context"

	"github.com/dev-avwi/TradieTrack-sub007/internal/storage"
)

type Registry interface {
	Account(ctx context.Context, telegramId int64) (storage.Account, error)
	AddAccount(ctx context.Context, account storage.Account) error
	AccountExists(ctx context.Context, telegramId int64) bool
	UpdateAccount(ctx context.Context, account storage.Account) error
	RemoveAccount(ctx context.Context, telegramId int64) error
	Up(ctx context.Context) error
}
