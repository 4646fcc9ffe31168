package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/calorie-tracker/internal/api"
	"github.com/vladimiradmaev/calorie-tracker/internal/app"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	if err := logger.InitWithConfig(cfg.Logger.Logger()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()

	if envErr != nil {
		logger.Warn(".env file not found, using environment only")
	}
	logger.Info("Starting calorie tracker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize", "error", err)
	}
	defer a.Close()

	surfaces, err := buildSurfaces(cfg, a)
	if err != nil {
		logger.Fatal("Failed to create surfaces", "error", err)
	}
	if len(surfaces) == 0 {
		logger.Fatal("Nothing to run: enable HTTP_ENABLED or set TELEGRAM_TOKEN")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range surfaces {
		s := s
		g.Go(func() error {
			logger.Info("Starting surface", "name", s.Name())
			return s.Start(gctx)
		})
	}

	logger.Info("Calorie tracker is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil {
		logger.Error("Surface stopped with error", "error", err)
		for _, s := range surfaces {
			s.Stop()
		}
		os.Exit(1)
	}
	logger.Info("Calorie tracker stopped")
}

func buildSurfaces(cfg *config.Config, a *app.App) ([]domain.Surface, error) {
	var surfaces []domain.Surface
	if cfg.HTTP.Enabled {
		surfaces = append(surfaces, api.NewServer(cfg.HTTP, a.Services, a.Hub, a.Ping))
	}
	if cfg.Telegram.Token != "" {
		var states state.StateManager = state.NewManager()
		if a.Redis != nil {
			states = state.NewRedisManager(a.Redis)
		}
		b, err := bot.NewBot(cfg.Telegram, a.Services, states)
		if err != nil {
			return nil, err
		}
		surfaces = append(surfaces, b)
	}
	return surfaces, nil
}
