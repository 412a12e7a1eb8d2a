package notify

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobradar-engine/internal/domain"
)

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// telegramMessage renders one job for HTML parse mode. Scraped fields get
// escaped; a stray '<' or '&' in a title makes the Bot API reject the send.
func telegramMessage(j domain.Job) string {
	return fmt.Sprintf(
		"🏢 <b>%s</b>\n%s\n📍 %s\n🔗 <a href=%q>View Job</a>",
		html.EscapeString(j.Company), html.EscapeString(j.Title),
		html.EscapeString(j.Location), j.URL,
	)
}

// Send posts one message per new job. HTML parse mode keeps titles bold
// without MarkdownV2's escaping rules.
func (t *TelegramNotifier) Send(jobs []domain.Job) error {
	var firstErr error
	sent := 0
	for _, j := range jobs {
		msg := tgbotapi.NewMessage(t.chatID, telegramMessage(j))
		msg.ParseMode = "HTML"
		if _, err := t.bot.Send(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}
	log.Printf("[notify:telegram] sent=%d of %d", sent, len(jobs))
	return firstErr
}
