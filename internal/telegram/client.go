// Package telegram sends forecast digests and service notifications via the
// Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spendcal/spendcal/internal/models"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// Digest is the content of one forecast notification.
type Digest struct {
	Timeframe   string
	Predictions models.Predictions
	Risk        models.RiskAssessment
	Advisories  []models.Recommendation
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// ListenForCommands starts a goroutine that polls for Telegram updates and
// handles bot commands. It returns immediately; the goroutine stops when ctx
// is cancelled.
func (c *Client) ListenForCommands(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil && update.Message.IsCommand() {
					c.handleCommand(update.Message)
				}
			}
		}
	}()
}

func (c *Client) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "ping":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Pong")
		c.bot.Send(reply) //nolint:errcheck
	}
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (c *Client) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendError sends a sync error notification.
// Call this only on the first occurrence of a consecutive error sequence.
func (c *Client) SendError(syncErr error) error {
	text := fmt.Sprintf("⚠️ *Sync error*\n`%s`", escapeMarkdownV2(syncErr.Error()))
	return c.sendMarkdownV2(text)
}

// SendRecovery sends a recovery notification after consecutive failures.
func (c *Client) SendRecovery(failureCount int) error {
	text := fmt.Sprintf("✅ *Sync recovered* after %d consecutive failure\\(s\\)", failureCount)
	return c.sendMarkdownV2(text)
}

// SendDigest sends a forecast digest notification.
func (c *Client) SendDigest(digest Digest) error {
	return c.sendMarkdownV2(formatDigest(digest))
}

// formatDigest formats a forecast digest into a Telegram MarkdownV2 message.
func formatDigest(digest Digest) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("💸 *Spending Forecast* \\(%s\\)\n\n", escapeMarkdownV2(digest.Timeframe)))

	b.WriteString(fmt.Sprintf("%s Risk: *%s* \\(score %d\\)\n",
		riskEmoji(digest.Risk.Level), escapeMarkdownV2(string(digest.Risk.Level)), digest.Risk.Score))
	b.WriteString(fmt.Sprintf("📊 Predicted total: *%s*\n",
		escapeMarkdownV2(fmt.Sprintf("$%.2f", digest.Predictions.TotalSpending))))
	if digest.Predictions.PeakSpendingDay != "" {
		b.WriteString(fmt.Sprintf("📅 Peak day: %s \\(%s\\)\n",
			escapeMarkdownV2(digest.Predictions.PeakSpendingDay),
			escapeMarkdownV2(fmt.Sprintf("$%.2f", digest.Predictions.PeakSpendingAmount))))
	}

	if len(digest.Predictions.CategoryPredictions) > 0 {
		b.WriteString("\n*Top categories*\n")
		top := digest.Predictions.CategoryPredictions
		if len(top) > 3 {
			top = top[:3]
		}
		for _, cp := range top {
			b.WriteString(fmt.Sprintf("  • %s — %s\n",
				escapeMarkdownV2(string(cp.Category)),
				escapeMarkdownV2(fmt.Sprintf("$%.2f (%.1f%%)", cp.Amount, cp.Percentage))))
		}
	}

	if len(digest.Advisories) > 0 {
		b.WriteString("\n*Recommendations*\n")
		for _, rec := range digest.Advisories {
			b.WriteString(fmt.Sprintf("  %s *%s*: %s\n",
				typeEmoji(rec.Type),
				escapeMarkdownV2(rec.Title),
				escapeMarkdownV2(rec.Message)))
		}
	}

	return b.String()
}

func riskEmoji(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return "🔴"
	case models.RiskMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func typeEmoji(recType string) string {
	switch recType {
	case "warning":
		return "⚠️"
	case "success":
		return "✅"
	default:
		return "ℹ️"
	}
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
