package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/bootstrap"
	"github.com/m3rciful/quizbot/core/cmd"
	coredatabase "github.com/m3rciful/quizbot/core/database"
	"github.com/m3rciful/quizbot/core/logger"
	coretelegram "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/router"
	"github.com/m3rciful/quizbot/core/telegram/state"
	"github.com/m3rciful/quizbot/internal/bot"
	"github.com/m3rciful/quizbot/internal/conversation"
	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/users"
)

// App holds the long-lived dependencies built at startup.
type App struct {
	cfg      *Config
	store    users.Store
	service  *conversation.Service
	handlers *bot.Handlers
	locks    *state.Locks
}

// Bootstrap initializes logging, loads the catalog and opens the store.
// Any failure here is fatal for the process.
func Bootstrap(cfg *Config) (*App, error) {
	var dbCfg *coredatabase.Config
	if cfg.Storage.Driver == users.DriverPostgres {
		dbCfg = &cfg.Database
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: dbCfg,
	})
	if err != nil {
		return nil, err
	}

	catalog, err := quiz.Load(cfg.Quiz.TasksFile)
	if err != nil {
		closeDB(res.DB)
		return nil, err
	}

	store, err := openStore(context.Background(), cfg, res.DB)
	if err != nil {
		closeDB(res.DB)
		return nil, err
	}
	logger.Info(context.Background(), "app", "store.open",
		slog.String("driver", cfg.Storage.Driver),
		slog.Int("tasks", catalog.Len()),
	)

	service := conversation.NewService(conversation.New(catalog, nil), store)
	return &App{
		cfg:      cfg,
		store:    store,
		service:  service,
		handlers: bot.New(service),
		locks:    state.NewLocks(),
	}, nil
}

func openStore(ctx context.Context, cfg *Config, db *sqlx.DB) (users.Store, error) {
	switch cfg.Storage.Driver {
	case users.DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("app: postgres store without database connection")
		}
		return users.NewPostgresStore(db), nil
	case users.DriverRedis:
		return users.NewRedisStore(ctx, cfg.Storage.Redis)
	default:
		return users.NewFileStore(cfg.Storage.Dir), nil
	}
}

func closeDB(db *sqlx.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// TelegramRunOptions wires commands, text routing and middleware.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: core.Telegram.AdminID})
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, a.handlers.Limited, a.locks),
		Routes:      routes,
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("app: close store: %w", err)
	}
	return nil
}

// Main runs the bot with configuration from CONFIG_PATH (default config.yaml).
func Main() error {
	return cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			cfg, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: func(cfg cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			c, ok := cfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("app: unexpected config type %T", cfg)
			}
			application, err := Bootstrap(c)
			if err != nil {
				return nil, err
			}
			return application, nil
		},
	})
}
