// Command botd runs the Celtia support assistant: a websocket chat
// gateway in front of the dialogue engine, backed by a generative model
// for the free-form paths.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/celtia/supportbot/calendar"
	"github.com/celtia/supportbot/config"
	"github.com/celtia/supportbot/content"
	"github.com/celtia/supportbot/dialogue"
	"github.com/celtia/supportbot/generative"
	anthropicbackend "github.com/celtia/supportbot/generative/anthropic"
	openaibackend "github.com/celtia/supportbot/generative/openai"
	"github.com/celtia/supportbot/logging"
	"github.com/celtia/supportbot/notify"
	"github.com/celtia/supportbot/session"
	"github.com/celtia/supportbot/temporal"
	"github.com/celtia/supportbot/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "botd:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "botd: .env not loaded:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(&logging.Config{
		Level:  parseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	backend, err := newBackend(cfg.Generative)
	if err != nil {
		return err
	}

	invoker := generative.NewInvoker(backend, func(o *generative.Options) {
		o.PrimaryModel = cfg.Generative.PrimaryModel
		o.FallbackModel = cfg.Generative.FallbackModel
		o.Logger = logger.WithComponent("generative")
	})

	resolver := temporal.NewResolver(
		invoker.WithBudget(temporal.FallbackAttempts),
		cfg.Bot.Timezone,
		func(o *temporal.Options) {
			o.Logger = logger.WithComponent("temporal")
		},
	)

	provider := content.NewProvider(cfg.Content.SiteURL, invoker, func(o *content.Options) {
		o.SiteTTL = cfg.Content.SiteTTL
		o.PitchTTL = cfg.Content.PitchTTL
		o.ImagePath = cfg.Content.ImagePath
		o.ImageMIME = cfg.Content.ImageMIME
		o.Logger = logger.WithComponent("content")
	})

	gateway := transport.NewGateway(logger.WithComponent("transport"))
	notifier := notify.NewAdmin(gateway, cfg.Bot.AdminConversationID, logger.WithComponent("notify"))

	engine := dialogue.NewEngine(dialogue.Options{
		Sessions:       session.NewInMemoryStore(),
		Transport:      gateway,
		Resolver:       resolver,
		Generator:      invoker,
		Calendar:       calendar.NewInMemory(),
		Content:        provider,
		Notifier:       notifier,
		Timezone:       cfg.Bot.Timezone,
		AllowedAmounts: cfg.Bot.RechargeAmounts,
		Logger:         logger.WithComponent("dialogue"),
	})
	gateway.Bind(engine)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: gateway.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Addr, "provider", string(cfg.Generative.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func newBackend(cfg config.GenerativeConfig) (generative.Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		// The official client reads OPENAI_API_KEY from the environment.
		return openaibackend.NewBackend(), nil
	case config.ProviderAnthropic:
		return anthropicbackend.NewBackend(func(o *anthropicbackend.Options) {
			o.APIKey = cfg.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
