package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/vbot/core/bootstrap"
	"github.com/m3rciful/vbot/core/logger"

	"log/slog"
)

// adminSeeder upserts the configured admin ids during bootstrap. Idempotent:
// rerunning with the same config changes nothing.
func adminSeeder(ids []int64) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
		if len(ids) == 0 {
			return nil
		}
		for _, id := range ids {
			_, err := db.ExecContext(ctx,
				`INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
				id,
			)
			if err != nil {
				return fmt.Errorf("seed admin %d: %w", id, err)
			}
		}
		logger.SEED.Info("admins seeded",
			slog.String("event", "seed"),
			slog.Int("admins", len(ids)),
		)
		return nil
	})
}
