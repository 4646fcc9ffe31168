package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	FoodAPI  FoodAPIConfig
	HTTP     HTTPConfig
	Telegram TelegramConfig
	Gemini   GeminiConfig
	Settings SettingsConfig
	Logger   LoggerConfig
	TimeZone string
}

type DBConfig struct {
	Driver   string // "sqlite" or "postgres"
	Path     string // sqlite file, ":memory:" allowed
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type FoodAPIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Language string
	Country  string
}

type HTTPConfig struct {
	Enabled bool
	Addr    string
}

type TelegramConfig struct {
	Token   string
	OwnerID int64
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SettingsConfig struct {
	Store string // "db" or "redis"
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

// Logger converts the section into the logger package's config.
func (c LoggerConfig) Logger() logger.Config {
	return logger.Config{Level: c.Level, OutputPath: c.OutputPath, Format: c.Format}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "data/calories.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "calorie_tracker")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("foodapi.base_url", "https://food.example.com/api/v1")
	v.SetDefault("foodapi.timeout", "10s")
	v.SetDefault("foodapi.language", "en")

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8080")

	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("settings.store", "db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.format", "json")

	v.SetDefault("timezone", "Local")
}

// Load reads config.yml from the working directory when present and lets
// environment variables override it (db.driver -> DB_DRIVER).
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return fromViper(v)
}

// LoadFile reads configuration from an explicit file.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString("db.driver")),
			Path:     v.GetString("db.path"),
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		FoodAPI: FoodAPIConfig{
			BaseURL:  strings.TrimRight(v.GetString("foodapi.base_url"), "/"),
			Timeout:  v.GetDuration("foodapi.timeout"),
			Language: v.GetString("foodapi.language"),
			Country:  v.GetString("foodapi.country"),
		},
		HTTP: HTTPConfig{
			Enabled: v.GetBool("http.enabled"),
			Addr:    v.GetString("http.addr"),
		},
		Telegram: TelegramConfig{
			Token:   v.GetString("telegram.token"),
			OwnerID: v.GetInt64("telegram.owner_id"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
		Settings: SettingsConfig{
			Store: strings.ToLower(v.GetString("settings.store")),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(v.GetString("log.level")),
			OutputPath: v.GetString("log.output"),
			Format:     v.GetString("log.format"),
		},
		TimeZone: v.GetString("timezone"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case "postgres":
		if c.DB.Host == "" || c.DB.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}

	if u, err := url.Parse(c.FoodAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("FOODAPI_BASE_URL %q is not an absolute URL", c.FoodAPI.BaseURL))
	}
	if c.FoodAPI.Timeout <= 0 {
		errs = append(errs, errors.New("FOODAPI_TIMEOUT must be positive"))
	}

	switch c.Settings.Store {
	case "db":
	case "redis":
		if !c.Redis.Enabled {
			errs = append(errs, errors.New("SETTINGS_STORE=redis requires REDIS_ENABLED=true"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported SETTINGS_STORE %q", c.Settings.Store))
	}

	if c.Telegram.Token != "" && c.Telegram.OwnerID == 0 {
		errs = append(errs, errors.New("TELEGRAM_OWNER_ID is required when TELEGRAM_TOKEN is set"))
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE %q: %w", c.TimeZone, err))
	}

	return errors.Join(errs...)
}

// Location returns the time zone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
