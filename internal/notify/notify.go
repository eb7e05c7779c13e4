// Package notify delivers best-effort announcements of successful scans.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/scan"
)

// Config selects and configures the notification sink.
type Config struct {
	TelegramToken  string
	TelegramChatID string

	// Currency is the code scanned prices are shown in.
	Currency string

	// Location is the time zone of the message timestamp. Nil means UTC.
	Location *time.Location

	// Timeout bounds one Telegram API call.
	Timeout time.Duration
}

// Nop discards every notification.
type Nop struct{}

// NotifyScan implements scan.Notifier.
func (Nop) NotifyScan(context.Context, []scan.Item) error { return nil }

// New returns a Telegram notifier, or Nop when the token or chat is missing.
func New(cfg Config, m *metrics.Metrics, logger *slog.Logger) scan.Notifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		logger.Info("Scan notifications disabled: missing Telegram bot token or chat ID")
		return Nop{}
	}
	return NewTelegram(cfg, m, logger)
}
