package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"assignment-tracker/internal/config"
	"assignment-tracker/internal/model"
	"assignment-tracker/internal/service"
)

type dialogStage int

const (
	stageNone dialogStage = iota
	stageTitle
	stageCategory
	stageDueDate
	stagePriority
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
	cbUpPrefix     = "up:"
	cbDownPrefix   = "down:"
)

// maxListed caps the rows of one list message.
const maxListed = 30

// dialogState is a step-by-step input. For edits the task id is the
// service's editing target.
type dialogState struct {
	stage dialogStage
	draft model.Draft
	edit  bool
}

type confirmationAction int

const (
	actionDelete confirmationAction = iota
	actionClearCompleted
)

type confirmationRequest struct {
	taskID string
	action confirmationAction
}

// chatState is what the bot remembers about one chat between updates.
type chatState struct {
	filter  service.Filter
	listed  []string
	dialog  *dialogState
	confirm *confirmationRequest
}

// sender is the part of the Telegram API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot connects the Telegram API with the tracker services.
type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	tasks    *service.TaskService
	prefs    *service.PreferenceService
	reminder *service.ReminderService
	config   *config.Config
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	chats map[int64]*chatState
}

func New(cfg *config.Config, tasks *service.TaskService, prefs *service.PreferenceService, reminder *service.ReminderService, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	b := newBot(api, cfg, tasks, prefs, reminder, log)
	b.api = api
	b.log.Info().Str("account", api.Self.UserName).Msg("bot authorized")
	return b, nil
}

func newBot(out sender, cfg *config.Config, tasks *service.TaskService, prefs *service.PreferenceService, reminder *service.ReminderService, log zerolog.Logger) *Bot {
	return &Bot{
		out:      out,
		tasks:    tasks,
		prefs:    prefs,
		reminder: reminder,
		config:   cfg,
		log:      log.With().Str("component", "bot").Logger(),
		now:      time.Now,
		chats:    make(map[int64]*chatState),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.log.Error().Err(err).Msg("handle callback")
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error().Err(err).Msg("handle message")
		}
	}
}

// SendDigest delivers the due-date digest to the owner, or to every chat
// seen since start when no owner is configured.
func (b *Bot) SendDigest(ctx context.Context) error {
	text := b.reminder.Summary(b.now())
	for _, chatID := range b.digestRecipients() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(chatID, text); err != nil {
			b.log.Error().Err(err).Int64("chat", chatID).Msg("send digest")
		}
	}
	return nil
}

func (b *Bot) digestRecipients() []int64 {
	if b.config != nil && b.config.OwnerID != 0 {
		return []int64{b.config.OwnerID}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		ids = append(ids, id)
	}
	return ids
}

func (b *Bot) allowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if b.config == nil || b.config.OwnerID == 0 {
		return true
	}
	return from.ID == b.config.OwnerID
}

// state returns the chat state, creating it on first use.
func (b *Bot) state(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{filter: service.DefaultFilter()}
		b.chats[chatID] = st
	}
	return st
}
