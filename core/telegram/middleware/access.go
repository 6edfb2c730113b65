package middleware

import (
	"context"
	"log/slog"

	"github.com/m3rciful/vbot/core/logger"
	tghelpers "github.com/m3rciful/vbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminChecker resolves whether a Telegram user id belongs to the admin set.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	Checker  AdminChecker
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only admin users can invoke downstream handlers.
// When the admin set cannot be resolved at all, the update is rejected the same
// way as for a non-admin; the resolution error is logged, not surfaced to chat.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Checker == nil {
				return next(c)
			}
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			ctx := tghelpers.BuildContext(c)
			ok, err := opts.Checker.IsAdmin(ctx, sender.ID)
			if err != nil {
				logger.Error(ctx, "tg", "access.check_failed",
					slog.Int64("user_id", sender.ID),
					slog.String("err", err.Error()),
				)
				ok = false
			}
			if !ok {
				logger.Debug(ctx, "tg", "access.denied",
					slog.String("status", "skip"),
					slog.Int64("user_id", sender.ID),
				)
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
