package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/m3rciful/vbot/core/logger"
	"github.com/m3rciful/vbot/core/telegram/callbacks"
	"github.com/m3rciful/vbot/core/telegram/helpers"
	"github.com/m3rciful/vbot/vote"

	"log/slog"
	tele "gopkg.in/telebot.v4"
)

// handleVote processes one button press. The decision, the persist, and the
// keyboard redraw all happen inside the poll's critical section, so two
// near-simultaneous presses on the same poll are fully serialized and the
// displayed counts never regress.
func (a *App) handleVote(c tele.Context) error {
	msg := c.Message()
	if msg == nil || c.Sender() == nil {
		return nil
	}

	choice := vote.Choice(callbacks.CallbackPayload(c))
	if !choice.Valid() {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}

	userID := c.Sender().ID
	key := vote.PollKey{ChatID: msg.Chat.ID, MessageID: int64(msg.ID)}
	ctx := helpers.BuildContext(c)

	var decision vote.Decision
	var prev vote.Choice
	var persisted bool
	err := a.sessions.With(ctx, key, func(l *vote.Ledger) error {
		if e, ok := l.Entry(userID); ok {
			prev = e.Choice
		}
		decision = a.machine.Decide(l, userID, choice)
		if decision != vote.Persist {
			return nil
		}
		if err := a.store.SaveVote(ctx, key.ChatID, key.MessageID, userID, choice); err != nil {
			return err
		}
		l.Apply(vote.Record{UserID: userID, Choice: choice})
		persisted = true
		up, down := l.Counts()

		logger.SVCVotes.Info("vote accepted",
			slog.String("event", "vote"),
			slog.Int64("poll_chat_id", key.ChatID),
			slog.Int64("poll_message_id", key.MessageID),
			slog.String("choice", string(choice)),
			slog.Int("votes_up", up),
			slog.Int("votes_down", down),
		)
		return a.redrawPoll(ctx, c, key, up, down)
	})
	if err != nil {
		logger.SVCVotes.Error("vote failed",
			slog.String("event", "vote"),
			slog.Int64("poll_chat_id", key.ChatID),
			slog.Int64("poll_message_id", key.MessageID),
			slog.String("choice", string(choice)),
			slog.Bool("persisted", persisted),
			slog.String("err", err.Error()),
		)
	}
	return c.Respond(&tele.CallbackResponse{Text: voteResponseText(decision, prev, persisted, err != nil)})
}

// voteResponseText picks the callback answer for one processed press. A vote
// that was persisted counts even when the redraw afterwards failed: the
// counts catch up on the next accepted vote, and telling the user to retry
// would only earn them a duplicate rejection.
func voteResponseText(decision vote.Decision, prev vote.Choice, persisted, failed bool) string {
	if failed && !persisted {
		return "Something went wrong, try again later."
	}
	switch decision {
	case vote.RejectDuplicate:
		return "You already voted " + choiceWord(prev) + "."
	case vote.RejectExhausted:
		return "You have no vote changes left."
	default:
		return "Vote counted."
	}
}

// redrawPoll edits the poll keyboard with fresh counts. Called under the
// poll lock; the occasional "message is not modified" from Telegram is not
// an error here.
func (a *App) redrawPoll(ctx context.Context, c tele.Context, key vote.PollKey, up, down int) error {
	editable := &tele.StoredMessage{
		MessageID: strconv.FormatInt(key.MessageID, 10),
		ChatID:    key.ChatID,
	}
	markup := pollMarkup(up, down)
	return a.policy.Execute(ctx, "tg.edit_markup", func(context.Context) error {
		_, err := c.Bot().EditReplyMarkup(editable, markup)
		if err != nil && strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	})
}

func choiceWord(c vote.Choice) string {
	if c == vote.Down {
		return "down"
	}
	return "up"
}
