// Package commands is the process CLI: running the bot and maintenance tasks.
package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"telegram-journal-bot/internal/analytics"
	"telegram-journal-bot/internal/config"
	"telegram-journal-bot/internal/handlers"
	"telegram-journal-bot/internal/journal"
	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/messages"
	"telegram-journal-bot/internal/questions"
	"telegram-journal-bot/internal/scheduler"
	"telegram-journal-bot/internal/service"
	"telegram-journal-bot/internal/storage"
)

// pollTimeout is the long polling window asked of Telegram.
const pollTimeout = 60 * time.Second

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the CLI. Without a subcommand it runs the bot.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal-bot",
		Short: "Telegram journaling bot",
		Long: `A Telegram bot that sends daily journaling check-ins at each user's
chosen times, records their answers and reports streaks and trends.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runBot(ctx, cfg, log)
		},
	}

	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewEraseCmd())
	cmd.AddCommand(NewSchedulesCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func setup() (config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func openStore(cfg config.Config, log *logger.Logger) (*storage.DB, error) {
	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DBDriver, err)
	}
	log.Info("Storage opened", "driver", cfg.DBDriver)
	return db, nil
}

func runBot(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}
	db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := questions.Load(ctx, db)
	if err != nil {
		return err
	}
	log.Info("Catalog loaded", "questions", catalog.Len())

	// long polling holds a request open for pollTimeout, so it gets its own client
	bot, err := messages.NewBotAPI(cfg.TelegramToken, tgbotapi.APIEndpoint, pollTimeout+15*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	log.Info("Authorized on telegram", "account", bot.Self.UserName)

	sender, err := messages.NewBotAPI(cfg.TelegramToken, tgbotapi.APIEndpoint, cfg.DeliveryTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	transport := messages.NewTelegramTransport(sender, log)
	timers, err := scheduler.New(messages.NewReminder(db, transport, log),
		scheduler.WithLogger(log),
		scheduler.WithDeliveryTimeout(cfg.DeliveryTimeout),
	)
	if err != nil {
		return err
	}
	svc := service.New(db,
		journal.NewEngine(db, catalog, journal.WithLogger(log)),
		scheduler.NewRegistry(db, timers, log),
		analytics.NewAnalyzer(db, catalog, analytics.WithLogger(log)),
		service.Defaults{Timezone: cfg.DefaultTimezone, Times: cfg.DefaultScheduleTimes},
		log,
	)
	h := handlers.New(svc, transport, log)

	if _, err := timers.LoadAll(ctx, db); err != nil {
		return err
	}
	timers.Start()
	defer func() {
		if err := timers.Shutdown(); err != nil {
			log.Warn("PromptScheduler shutdown failed", "error", err)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(pollTimeout / time.Second)
	updates := bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	log.Info("Bot started")
	h.Listen(ctx, updates)
	log.Info("Bot stopped")
	return nil
}
