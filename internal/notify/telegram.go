package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/models"
	"github.com/mmynk/billsplitter/internal/scan"
)

const defaultTimeout = 10 * time.Second

// Telegram posts scan summaries to one chat through the Bot API.
//
// The bot client is created on first use, so a bad token or an unreachable
// API never blocks server startup; a failed creation is retried on the
// next notification.
type Telegram struct {
	cfg      Config
	endpoint string
	client   *http.Client
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// Ensure Telegram implements scan.Notifier
var _ scan.Notifier = (*Telegram)(nil)

// NewTelegram creates a Telegram notifier.
func NewTelegram(cfg Config, m *metrics.Metrics, logger *slog.Logger) *Telegram {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Currency == "" {
		cfg.Currency = models.DefaultCurrency
	}
	return &Telegram{
		cfg:      cfg,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// NotifyScan sends the scan summary. The Bot API client has no context
// support, so ctx is only checked before sending; the HTTP client timeout
// bounds the call itself.
func (t *Telegram) NotifyScan(ctx context.Context, items []scan.Item) error {
	if err := ctx.Err(); err != nil {
		t.metrics.ObserveNotification("canceled")
		return err
	}

	bot, err := t.botAPI()
	if err != nil {
		t.metrics.ObserveNotification("failed")
		return err
	}

	msg, err := t.message(ScanMessage(items, t.cfg.Currency, t.now().In(t.cfg.Location)))
	if err != nil {
		t.metrics.ObserveNotification("failed")
		return err
	}

	if _, err := bot.Send(msg); err != nil {
		t.metrics.ObserveNotification("failed")
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	t.metrics.ObserveNotification("sent")
	t.logger.Debug("Scan notification sent", "items", len(items))
	return nil
}

func (t *Telegram) botAPI() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.cfg.TelegramToken, t.endpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	t.logger.Info("Telegram notifier ready", "bot", bot.Self.UserName)
	t.bot = bot
	return bot, nil
}

// message targets a numeric chat ID or an @channel username.
func (t *Telegram) message(text string) (tgbotapi.MessageConfig, error) {
	var msg tgbotapi.MessageConfig
	chat := strings.TrimSpace(t.cfg.TelegramChatID)
	if strings.HasPrefix(chat, "@") {
		msg = tgbotapi.NewMessageToChannel(chat, text)
	} else {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return msg, fmt.Errorf("invalid telegram chat id %q: %w", chat, err)
		}
		msg = tgbotapi.NewMessage(id, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg, nil
}
