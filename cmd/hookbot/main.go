package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/averlyn/hookbot/internal/bot"
	"github.com/averlyn/hookbot/internal/interactions"
	"github.com/averlyn/hookbot/internal/rest"
	"github.com/averlyn/hookbot/internal/server"
	"github.com/averlyn/hookbot/internal/storage"

	_ "github.com/averlyn/hookbot/internal/modules/bookmarks"
	_ "github.com/averlyn/hookbot/internal/modules/convert"
	_ "github.com/averlyn/hookbot/internal/modules/core"
	_ "github.com/averlyn/hookbot/internal/modules/messageinfo"
	_ "github.com/averlyn/hookbot/internal/modules/reminders"
	_ "github.com/averlyn/hookbot/internal/modules/todo"
	_ "github.com/averlyn/hookbot/internal/modules/userinfo"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/hookbot
var version = "dev"

func main() {
	registerCommands := flag.Bool("register", false, "register application commands with Discord and exit")
	flag.Parse()

	// Configure JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	slog.Info("starting hookbot", "version", version)

	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DataDir, cfg.RedisAddr)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Create and configure bot
	api := rest.NewClient(cfg.DiscordToken)
	bus := interactions.NewBus()
	b := bot.NewBot(cfg, api, bus)
	b.SetStore(store)
	b.LoadModules()

	if err := b.Init(); err != nil {
		slog.Error("failed to initialize bot", "error", err)
		os.Exit(1)
	}

	if *registerCommands {
		if err := b.RegisterCommands(context.Background()); err != nil {
			slog.Error("failed to register commands", "error", err)
			os.Exit(1)
		}
		return
	}

	// Schedule periodic module work
	scheduler := cron.New()
	for _, mod := range b.ScheduledModules() {
		if _, err := scheduler.AddFunc(mod.Schedule(), func() {
			if err := mod.RunScheduled(context.Background()); err != nil {
				slog.Error("scheduled run failed", "error", err)
			}
		}); err != nil {
			slog.Error("failed to schedule module", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	srv, err := server.New(cfg.ListenAddr, cfg.PublicKey, cfg.SignatureMaxAge, b)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-stop:
		slog.Info("received termination signal, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	<-scheduler.Stop().Done()

	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
}
