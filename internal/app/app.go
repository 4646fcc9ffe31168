// Package app wires storage, services and the change hub from a Config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/calorie-tracker/internal/changes"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/foodapi"
	"github.com/vladimiradmaev/calorie-tracker/internal/interfaces"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/repository"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Hub      *changes.Hub
	Store    *repository.Store
	Redis    *redis.Client
	Services interfaces.Services

	ai *services.AIService
}

// New opens the database and builds every service. Redis and Gemini are
// only used when configured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: db, Hub: changes.NewHub()}

	if err := changes.RegisterCallbacks(db, a.Hub); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register change callbacks: %w", err)
	}
	a.Store = repository.NewStore(db)

	var settingsStore settings.Store = settings.NewDBStore(a.Store.Settings)
	if cfg.Redis.Enabled {
		a.Redis, err = settings.NewRedisClient(cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("Redis connection established", "host", cfg.Redis.Host)
		if cfg.Settings.Store == "redis" {
			settingsStore = settings.NewRedisStore(a.Redis, settingsStore)
		}
	}

	loc := cfg.Location()
	foods := services.NewFoodService(a.Store, foodapi.New(cfg.FoodAPI))
	a.Services = interfaces.Services{
		Foods:    foods,
		Diary:    services.NewDiaryService(a.Store, foods, settingsStore, loc),
		Streaks:  services.NewStreakService(a.Store, loc),
		Settings: services.NewSettingsService(settingsStore),
	}

	if cfg.Gemini.APIKey != "" {
		a.ai, err = services.NewAIService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Services.Photo = services.NewPhotoEstimateService(a.ai, foods)
		logger.Info("Photo estimates enabled", "model", cfg.Gemini.Model)
	}

	logger.Info("Services initialized successfully", "settings_store", cfg.Settings.Store, "timezone", loc.String())
	return a, nil
}

// Ping checks that the database answers.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every connection the app opened.
func (a *App) Close() error {
	var errs []error
	if a.ai != nil {
		errs = append(errs, a.ai.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	return errors.Join(errs...)
}
