package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dev-avwi/TradieTrack-sub007/internal/clients/timeapi"
	"github.com/dev-avwi/TradieTrack-sub007/internal/stats"
	"github.com/dev-avwi/TradieTrack-sub007/internal/storage"
	"github.com/dev-avwi/TradieTrack-sub007/internal/storage/sqlite"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timer"
)

type TimerBot struct {
	Bot tg.BotAPI

	registry   Registry
	apiBaseUrl string
	timeout    time.Duration
}

const empty = ""

// commands
const (
	startCmd    = "start"
	helpCmd     = "help"
	regCmd      = "reg"
	unregCmd    = "unreg"
	statusCmd   = "status"
	clockInCmd  = "clock_in"
	clockOutCmd = "clock_out"
	scrapCmd    = "scrap"
	dayCmd      = "day"
	weekCmd     = "week"
)

// user input prefixes
const (
	setTokenPrefix = "token:"
	setJobPrefix   = "job:"
)

func New(cfg *Config) *TimerBot {
	bot, err := tg.NewBotAPI(cfg.BotToken)
	if err != nil {
		panic(err)
	}

	store, err := sqlite.New(cfg.DbName)
	if err != nil {
		panic(err)
	}
	if err := store.Up(context.Background()); err != nil {
		panic(err)
	}

	return &TimerBot{
		Bot: *bot,

		registry:   store,
		apiBaseUrl: cfg.ApiBaseUrl,
		timeout:    time.Duration(cfg.CommandsTimeout) * time.Second,
	}
}

func (b *TimerBot) Serve(ctx context.Context) {
	slog.Info("authorized on account", "username", b.Bot.Self.UserName)

	updateConfig := tg.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.Bot.GetUpdatesChan(updateConfig)

	for update := range updates {
		// ignore any non-Message updates
		if update.Message == nil {
			continue
		}

		tctx, cancel := context.WithTimeout(ctx, b.timeout)
		b.handleMessage(tctx, update.Message)
		cancel()
	}
}

func (b *TimerBot) handleMessage(ctx context.Context, message *tg.Message) {
	chatId := message.Chat.ID
	telegramId := message.From.ID

	// Handling account settings sent as plain text
	if !message.IsCommand() {
		userInput := message.Text

		account, err := b.registry.Account(ctx, telegramId)
		if err != nil {
			slog.Error("could not load account", "error", err)
			if errors.Is(err, storage.ErrAccountNotFound) {
				b.sendText(accountNotRegisteredMsg, chatId)
			}
			return
		}

		if strings.HasPrefix(userInput, setTokenPrefix) {
			b.setAccountToken(ctx, userInput, chatId, account)
		} else if strings.HasPrefix(userInput, setJobPrefix) {
			b.setDefaultJob(ctx, userInput, chatId, account)
		} else {
			slog.Info("user input was not recognized", "input", userInput)
		}
		return
	}

	switch message.Command() {
	case startCmd:
		b.sendText(helloMsg, chatId)
	case helpCmd:
		b.sendText(helpMsg, chatId)
	case regCmd:
		b.handleRegistration(ctx, telegramId, chatId)
	case unregCmd:
		b.handleUnregistration(ctx, telegramId, chatId)
	case statusCmd:
		b.withMachine(ctx, telegramId, chatId, b.handleStatus)
	case clockInCmd:
		b.withMachine(ctx, telegramId, chatId, b.handleClockIn)
	case clockOutCmd:
		b.withMachine(ctx, telegramId, chatId, b.handleClockOut)
	case scrapCmd:
		b.withMachine(ctx, telegramId, chatId, b.handleScrap)
	case dayCmd:
		b.withMachine(ctx, telegramId, chatId, b.handleDay)
	case weekCmd:
		b.withMachine(ctx, telegramId, chatId, b.handleWeek)
	default:
		slog.Info("command was not recognized", "command", message.Command())
	}
}

// session carries everything a timer command needs after reconciliation.
type session struct {
	account storage.Account
	client  *timeapi.Client
	machine *timer.Machine
	chatId  int64
}

// withMachine loads the account, builds a fresh state machine and reconciles
// it against the server before running the handler. The bot holds no timer
// state between commands, so a timer started in the terminal client is
// visible and stoppable from this chat.
func (b *TimerBot) withMachine(ctx context.Context, telegramId int64, chatId int64, handle func(ctx context.Context, s session)) {
	account, err := b.registry.Account(ctx, telegramId)
	if err != nil {
		slog.Error("could not load account", "error", err)
		if errors.Is(err, storage.ErrAccountNotFound) {
			b.sendText(accountNotRegisteredMsg, chatId)
		}
		return
	}

	client, err := timeapi.New(b.apiBaseUrl, account.ApiToken)
	if err != nil {
		slog.Error("could not build api client", "error", err)
		b.sendText(serverUnreachableMsg, chatId)
		return
	}

	machine := timer.New(client, account.UserId)
	if err := machine.Reconcile(ctx); err != nil {
		slog.Error("reconcile failed", "error", err)
		b.sendText(serverUnreachableMsg, chatId)
		return
	}

	handle(ctx, session{account: account, client: client, machine: machine, chatId: chatId})
}

func (b *TimerBot) handleStatus(ctx context.Context, s session) {
	snap := s.machine.Snapshot()
	if snap.Phase == timer.PhaseRunning {
		b.sendText(fmt.Sprintf(statusRunningTemplate,
			snap.ActiveEntry.JobId,
			snap.ActiveEntry.StartTime.Local().Format("15:04"),
			snap.Clock), s.chatId)
		return
	}

	reporter := stats.NewReporter(s.client, s.account.UserId)
	summary, err := reporter.Summary(ctx)
	if err != nil {
		slog.Error("could not fetch summary for status", "error", err)
	}
	b.sendText(fmt.Sprintf(statusIdleTemplate, summary.TodayHours), s.chatId)
}

func (b *TimerBot) handleClockIn(ctx context.Context, s session) {
	snap := s.machine.Snapshot()
	if snap.Phase == timer.PhaseRunning {
		b.sendText(fmt.Sprintf(timerAlreadyRunningTemplate, snap.ActiveEntry.JobId, snap.Clock), s.chatId)
		return
	}

	if s.account.DefaultJobId == "" {
		b.sendText(jobNotSetMsg, s.chatId)
		return
	}

	if err := s.machine.Start(ctx, s.account.DefaultJobId); err != nil {
		slog.Error("clock_in failed", "error", err)
		switch {
		case errors.Is(err, timeentry.ErrConflict):
			b.sendText(timerAdoptedMsg, s.chatId)
		case errors.Is(err, timeentry.ErrJobRequired):
			b.sendText(jobNotSetMsg, s.chatId)
		default:
			b.sendText(clockInFailedMsg, s.chatId)
		}
		return
	}

	snap = s.machine.Snapshot()
	b.sendText(fmt.Sprintf(clockedInTemplate,
		s.account.DefaultJobId,
		snap.ActiveEntry.StartTime.Local().Format("15:04")), s.chatId)
}

func (b *TimerBot) handleClockOut(ctx context.Context, s session) {
	if s.machine.Snapshot().Phase != timer.PhaseRunning {
		b.sendText(noTimerRunningMsg, s.chatId)
		return
	}

	entry, err := s.machine.Stop(ctx)
	if err != nil {
		slog.Error("clock_out failed", "error", err)
		if errors.Is(err, timeentry.ErrNotFound) {
			b.sendText(timerClosedElsewhereMsg, s.chatId)
		} else {
			b.sendText(clockOutFailedMsg, s.chatId)
		}
		return
	}

	minutes := 0
	if entry.DurationMinutes != nil {
		minutes = *entry.DurationMinutes
	}
	b.sendText(fmt.Sprintf(clockedOutTemplate, minutes), s.chatId)
}

func (b *TimerBot) handleScrap(ctx context.Context, s session) {
	if s.machine.Snapshot().Phase != timer.PhaseRunning {
		b.sendText(noTimerRunningMsg, s.chatId)
		return
	}

	if err := s.machine.Discard(ctx); err != nil {
		slog.Error("scrap failed", "error", err)
		if errors.Is(err, timeentry.ErrNotFound) {
			b.sendText(timerClosedElsewhereMsg, s.chatId)
		} else {
			b.sendText(scrapFailedMsg, s.chatId)
		}
		return
	}

	b.sendText(scrappedMsg, s.chatId)
}

func (b *TimerBot) handleDay(ctx context.Context, s session) {
	reporter := stats.NewReporter(s.client, s.account.UserId)
	summary, err := reporter.SummaryWithActive(ctx, s.machine.Snapshot().ActiveEntry)
	if err != nil {
		slog.Error("day report failed", "error", err)
		b.sendText(reportFailedMsg, s.chatId)
		return
	}

	b.sendText(fmt.Sprintf(dayReportTemplate, summary.TodayHours), s.chatId)
}

func (b *TimerBot) handleWeek(ctx context.Context, s session) {
	reporter := stats.NewReporter(s.client, s.account.UserId)
	summary, err := reporter.SummaryWithActive(ctx, s.machine.Snapshot().ActiveEntry)
	if err != nil {
		slog.Error("week report failed", "error", err)
		b.sendText(reportFailedMsg, s.chatId)
		return
	}

	labels := [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	var sb strings.Builder
	sb.WriteString("This week:\n")
	for i, label := range labels {
		fmt.Fprintf(&sb, "%s  %.1f h\n", label, summary.WeekdayHours[i])
	}
	fmt.Fprintf(&sb, "Total: %.1f h", summary.WeekHours)

	b.sendText(sb.String(), s.chatId)
}

func (b *TimerBot) handleRegistration(ctx context.Context, telegramId int64, chatId int64) {
	alreadyRegistered := b.registry.AccountExists(ctx, telegramId)
	if alreadyRegistered {
		b.sendText(accountAlreadyRegisteredMsg, chatId)
		return
	}

	newAccount := storage.Account{
		TelegramId: telegramId,
		UserId:     fmt.Sprintf("tg-%d", telegramId),
		IsActive:   true,
	}

	if err := b.registry.AddAccount(ctx, newAccount); err != nil {
		slog.Error("failed to add new account", "error", err)
		b.sendText(accountRegistrationErrorMsg, chatId)
		return
	}

	b.sendText(accountRegisteredMsg, chatId)
}

func (b *TimerBot) handleUnregistration(ctx context.Context, telegramId int64, chatId int64) {
	isRegistered := b.registry.AccountExists(ctx, telegramId)

	if isRegistered {
		if err := b.registry.RemoveAccount(ctx, telegramId); err != nil {
			slog.Error("failed to remove account", "error", err)
			b.sendText(accountUpdateErrorMsg, chatId)
			return
		}
		b.sendText(accountRemovedMsg, chatId)
		return
	}

	b.sendText(accountNotRegisteredMsg, chatId)
}

func (b *TimerBot) setAccountToken(ctx context.Context, userInput string, chatId int64, account storage.Account) {
	account.ApiToken = strings.TrimPrefix(userInput, setTokenPrefix)

	if err := b.registry.UpdateAccount(ctx, account); err != nil {
		slog.Error("could not update account", "error", err)
		b.sendText(accountUpdateErrorMsg, chatId)
		return
	}
	b.sendText(tokenSavedMsg, chatId)
}

func (b *TimerBot) setDefaultJob(ctx context.Context, userInput string, chatId int64, account storage.Account) {
	account.DefaultJobId = strings.TrimPrefix(userInput, setJobPrefix)

	if err := b.registry.UpdateAccount(ctx, account); err != nil {
		slog.Error("could not update account", "error", err)
		b.sendText(accountUpdateErrorMsg, chatId)
		return
	}
	b.sendText(jobSavedMsg, chatId)
}

func (b *TimerBot) sendText(text string, chatId int64) {
	message := tg.NewMessage(chatId, empty)
	message.Text = text

	if _, err := b.Bot.Send(message); err != nil {
		slog.Error("could not send message", "error", err)
	}
}
