// Package storage exposes the Postgres stored-function boundary of the bot.
// Every call goes through the shared retry policy so a flaky database shows
// up either as a recovered transient or as a single fatal failure.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/vbot/core/logger"
	"github.com/m3rciful/vbot/core/retry"
	"github.com/m3rciful/vbot/vote"

	"log/slog"
)

// Store wraps the database handle with the retry policy applied to every
// stored-function invocation.
type Store struct {
	db     *sqlx.DB
	policy retry.Policy
}

// New builds a Store over the given handle. A zero policy uses the default
// backoff schedule.
func New(db *sqlx.DB, policy retry.Policy) *Store {
	return &Store{db: db, policy: policy}
}

// FetchAdminIDs returns the full set of admin user ids.
func (s *Store) FetchAdminIDs(ctx context.Context) ([]int64, error) {
	start := time.Now()
	ids, err := retry.Value(ctx, s.policy, "db.fetch_admin_ids", func(ctx context.Context) ([]int64, error) {
		var out []int64
		if err := s.db.SelectContext(ctx, &out, `SELECT fetch_admin_ids()`); err != nil {
			return nil, fmt.Errorf("fetch_admin_ids: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	logger.DB.Debug("admins fetched",
		slog.String("event", "proc"),
		slog.String("proc", "fetch_admin_ids"),
		slog.Int("admins", len(ids)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return ids, nil
}

// FetchMessageReport returns the report rows for the given requester over the
// last days. Row arity is decided by the stored function, not by the caller.
func (s *Store) FetchMessageReport(ctx context.Context, userID int64, days int) ([][]string, error) {
	start := time.Now()
	rows, err := retry.Value(ctx, s.policy, "db.fetch_message_report", func(ctx context.Context) ([][]string, error) {
		rs, err := s.db.QueryxContext(ctx, `SELECT * FROM fetch_message_report($1, $2)`, userID, days)
		if err != nil {
			return nil, fmt.Errorf("fetch_message_report: %w", err)
		}
		defer rs.Close()

		var out [][]string
		for rs.Next() {
			raw, err := rs.SliceScan()
			if err != nil {
				return nil, fmt.Errorf("fetch_message_report scan: %w", err)
			}
			out = append(out, stringifyRow(raw))
		}
		if err := rs.Err(); err != nil {
			return nil, fmt.Errorf("fetch_message_report rows: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	logger.DB.Debug("report fetched",
		slog.String("event", "proc"),
		slog.String("proc", "fetch_message_report"),
		slog.Int("days", days),
		slog.Int("rows", len(rows)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return rows, nil
}

// SaveMessage records one group-chat message.
func (s *Store) SaveMessage(ctx context.Context, m Message) error {
	start := time.Now()
	err := s.policy.Execute(ctx, "db.save_message", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx,
			`SELECT save_message($1, $2, $3, $4, $5, $6)`,
			m.UserID, m.Username, m.ChatID, m.ChatTitle, m.SentAt, m.Text,
		)
		if err != nil {
			return fmt.Errorf("save_message: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.DB.Debug("message saved",
		slog.String("event", "proc"),
		slog.String("proc", "save_message"),
		slog.Int64("chat_id", m.ChatID),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

// SaveVote appends one accepted vote action. The history is append-only;
// repeated calls never overwrite earlier rows.
func (s *Store) SaveVote(ctx context.Context, chatID, messageID, userID int64, choice vote.Choice) error {
	start := time.Now()
	err := s.policy.Execute(ctx, "db.save_vote", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx,
			`SELECT save_vote($1, $2, $3, $4)`,
			chatID, messageID, userID, string(choice),
		)
		if err != nil {
			return fmt.Errorf("save_vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.DB.Debug("vote saved",
		slog.String("event", "proc"),
		slog.String("proc", "save_vote"),
		slog.Int64("poll_chat_id", chatID),
		slog.Int64("poll_message_id", messageID),
		slog.String("choice", string(choice)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

// FetchVoters returns the vote history of one poll in insertion order.
func (s *Store) FetchVoters(ctx context.Context, chatID, messageID int64) ([]vote.Record, error) {
	start := time.Now()
	records, err := retry.Value(ctx, s.policy, "db.fetch_voters", func(ctx context.Context) ([]vote.Record, error) {
		var rows []voterRow
		err := s.db.SelectContext(ctx, &rows,
			`SELECT user_id, choice FROM fetch_voters($1, $2)`,
			chatID, messageID,
		)
		if err != nil {
			return nil, fmt.Errorf("fetch_voters: %w", err)
		}
		out := make([]vote.Record, 0, len(rows))
		for _, r := range rows {
			out = append(out, vote.Record{UserID: r.UserID, Choice: vote.Choice(r.Choice)})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	logger.DB.Debug("voters fetched",
		slog.String("event", "proc"),
		slog.String("proc", "fetch_voters"),
		slog.Int64("poll_chat_id", chatID),
		slog.Int64("poll_message_id", messageID),
		slog.Int("rows", len(records)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return records, nil
}

// Message is one recorded group-chat message.
type Message struct {
	UserID    int64
	Username  string
	ChatID    int64
	ChatTitle string
	SentAt    time.Time
	Text      string
}

type voterRow struct {
	UserID int64  `db:"user_id"`
	Choice string `db:"choice"`
}

func stringifyRow(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		switch t := v.(type) {
		case nil:
			out[i] = ""
		case []byte:
			out[i] = string(t)
		case string:
			out[i] = t
		case time.Time:
			out[i] = t.Format("2006-01-02")
		case sql.RawBytes:
			out[i] = string(t)
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}
