// Package bot wires the poll engine, admin directory, and storage into the
// Telegram runtime.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/vbot/admins"
	"github.com/m3rciful/vbot/core/bootstrap"
	"github.com/m3rciful/vbot/core/retry"
	coretelegram "github.com/m3rciful/vbot/core/telegram"
	"github.com/m3rciful/vbot/core/telegram/router"
	tgsender "github.com/m3rciful/vbot/core/telegram/sender"
	"github.com/m3rciful/vbot/core/telegram/state"
	"github.com/m3rciful/vbot/storage"
	"github.com/m3rciful/vbot/vote"

	tele "gopkg.in/telebot.v4"
)

// App owns all application state: database, directory, poll sessions, FSM.
type App struct {
	cfg    *Config
	db     *sqlx.DB
	store  *storage.Store
	admins *admins.Directory

	sessions *vote.Sessions
	machine  vote.Machine
	fsm      state.Manager

	policy retry.Policy
}

// Bootstrap initializes infrastructure and builds the application.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders:  []bootstrap.Seeder{adminSeeder(cfg.Admins.Seed)},
	})
	if err != nil {
		return nil, err
	}

	policy := retry.Policy{}
	store := storage.New(res.DB, policy)

	ttl := admins.DefaultTTL
	if cfg.Admins.TTLMinutes > 0 {
		ttl = time.Duration(cfg.Admins.TTLMinutes) * time.Minute
	}
	directory := admins.NewDirectory(admins.Options{
		Fetch: store.FetchAdminIDs,
		TTL:   ttl,
	})

	app := &App{
		cfg:    cfg,
		db:     res.DB,
		store:  store,
		admins: directory,
		machine: vote.Machine{
			MaxAttempts: cfg.Vote.MaxAttempts,
		},
		fsm:    state.NewMemoryManager(),
		policy: policy,
	}
	app.sessions = vote.NewSessions(func(ctx context.Context, key vote.PollKey) ([]vote.Record, error) {
		return store.FetchVoters(ctx, key.ChatID, key.MessageID)
	})
	app.registerStates()

	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// TelegramRunOptions assembles the bot runtime: registry, routes, middleware.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)

	if err := reg.RegisterCallback(voteCallbackKey, a.handleVote); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.recordMessage)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		Admins:        a.admins,
		OnAdminReject: rejectNonAdmin,
	})
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{}),
		router.TextRoute(a.fsm, reg, router.TextOptions{
			Admins:        a.admins,
			OnAdminReject: rejectNonAdmin,
		}),
	)

	core := a.cfg.CoreConfig()
	return coretelegram.RunOptions{
		Config:   core,
		Registry: reg,
		DispatcherOptions: tgsender.Options{
			Policy: a.policy,
		},
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

func rejectNonAdmin(c tele.Context) error {
	return c.Send("This command is for group admins only.")
}
