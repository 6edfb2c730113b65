package bot

import (
	"github.com/m3rciful/vbot/core/logger"
	"github.com/m3rciful/vbot/core/telegram/helpers"
	"github.com/m3rciful/vbot/storage"

	"log/slog"
	tele "gopkg.in/telebot.v4"
)

// recordMessage is the text fallback: non-command group text is saved for
// reporting, private text is left alone.
func (a *App) recordMessage(c tele.Context) error {
	msg := c.Message()
	if msg == nil || c.Sender() == nil || c.Chat() == nil {
		return nil
	}
	if c.Chat().Type == tele.ChatPrivate {
		return nil
	}

	ctx := helpers.BuildContext(c)
	err := a.store.SaveMessage(ctx, storage.Message{
		UserID:    c.Sender().ID,
		Username:  senderName(c.Sender()),
		ChatID:    c.Chat().ID,
		ChatTitle: c.Chat().Title,
		SentAt:    msg.Time(),
		Text:      msg.Text,
	})
	if err != nil {
		// One lost row must not disturb the chat.
		logger.SVCMessages.Error("message save failed",
			slog.String("event", "record"),
			slog.Int64("chat_id", c.Chat().ID),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

func senderName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
