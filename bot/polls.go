package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/m3rciful/vbot/core/logger"
	"github.com/m3rciful/vbot/core/telegram/format"
	"github.com/m3rciful/vbot/core/telegram/helpers"
	"github.com/m3rciful/vbot/core/telegram/keyboard"
	"github.com/m3rciful/vbot/core/telegram/state"
	"github.com/m3rciful/vbot/vote"

	"log/slog"
	tele "gopkg.in/telebot.v4"
)

const voteCallbackKey = "vote"

const (
	upEmoji   = "\U0001F44D"
	downEmoji = "\U0001F44E"
)

// statePollQuestion waits for the poll question after a bare /newpoll.
const statePollQuestion state.State = "poll_question"

func (a *App) registerStates() {
	state.RegisterHandler(statePollQuestion, a.handlePollQuestion)
}

func (a *App) handleNewPoll(c tele.Context) error {
	question := commandPayload(c)
	if question != "" {
		return a.publishPoll(c, question)
	}
	a.fsm.SetState(c.Sender().ID, statePollQuestion)
	return helpers.SendText(c, "Send the poll question.")
}

func (a *App) handlePollQuestion(c tele.Context) error {
	userID := c.Sender().ID
	question := strings.TrimSpace(c.Text())
	if question == "" {
		return helpers.SendText(c, "The question cannot be empty, send it again.")
	}
	a.fsm.ClearState(userID)
	return a.publishPoll(c, question)
}

// publishPoll sends the poll message synchronously: the message id is needed
// to track its session before the first button press can arrive.
func (a *App) publishPoll(c tele.Context, question string) error {
	ctx := helpers.BuildContext(c)
	markup := pollMarkup(0, 0)
	escaped, err := format.EscapeMarkdown(question, format.MarkdownV1)
	if err != nil {
		return err
	}
	text := "*" + escaped + "*"
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}

	var msg *tele.Message
	err = a.policy.Execute(ctx, "tg.send_poll", func(context.Context) error {
		var sendErr error
		msg, sendErr = c.Bot().Send(c.Chat(), text, opts)
		return sendErr
	})
	if err != nil {
		logger.SVCVotes.Error("poll publish failed",
			slog.String("event", "poll.publish"),
			slog.Int64("chat_id", c.Chat().ID),
			slog.String("err", err.Error()),
		)
		return helpers.SendText(c, "Could not publish the poll, try again later.")
	}

	key := vote.PollKey{ChatID: msg.Chat.ID, MessageID: int64(msg.ID)}
	a.sessions.Track(key)

	logger.SVCVotes.Info("poll published",
		slog.String("event", "poll.publish"),
		slog.Int64("poll_chat_id", key.ChatID),
		slog.Int64("poll_message_id", key.MessageID),
	)
	return nil
}

// pollMarkup renders the two-button keyboard. A zero count shows the emoji
// alone; otherwise the label is "{emoji} {count}".
func pollMarkup(up, down int) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: voteLabel(upEmoji, up), Unique: voteCallbackKey, Data: string(vote.Up)},
		{Text: voteLabel(downEmoji, down), Unique: voteCallbackKey, Data: string(vote.Down)},
	})
}

func voteLabel(emoji string, count int) string {
	if count == 0 {
		return emoji
	}
	return fmt.Sprintf("%s %d", emoji, count)
}
