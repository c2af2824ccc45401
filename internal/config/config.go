// Package config resolves mapquiz settings from defaults, an optional .env
// file and MAPQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/engine"
)

// DefaultEnvFile is read when no explicit env file is given. Its absence
// is not an error.
const DefaultEnvFile = ".env"

type Config struct {
	DBPath  string
	Catalog string
	Game    GameConfig
	Server  ServerConfig
	Redis   RedisConfig
	Log     LogConfig
}

type GameConfig struct {
	WorkingSetSize int
	RoundDelay     time.Duration
	// Shuffle randomises catalog order before the first working set is
	// chosen.
	Shuffle bool
}

type ServerConfig struct {
	Addr string
}

// RedisConfig points at an optional shared high-score store. An empty
// Addr keeps everything in SQLite.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	File  string
	Level slog.Level
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Catalog: catalog.DemoSource,
		Game: GameConfig{
			WorkingSetSize: engine.DefaultWorkingSetSize,
			RoundDelay:     engine.DefaultRoundDelay,
			Shuffle:        true,
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: slog.LevelInfo},
	}
}

// Load reads envFile (DefaultEnvFile when empty) into the process
// environment and then resolves the configuration from it. A missing
// default file is ignored; a missing explicit file is an error.
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv overlays MAPQUIZ_* variables on DefaultConfig.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	cfg.DBPath = getEnv("MAPQUIZ_DB", cfg.DBPath)
	cfg.Catalog = getEnv("MAPQUIZ_CATALOG", cfg.Catalog)
	cfg.Game.WorkingSetSize = getEnvAsInt("MAPQUIZ_WORKING_SET", cfg.Game.WorkingSetSize)
	cfg.Game.RoundDelay = getEnvAsDuration("MAPQUIZ_ROUND_DELAY", cfg.Game.RoundDelay)
	cfg.Game.Shuffle = getEnvAsBool("MAPQUIZ_SHUFFLE", cfg.Game.Shuffle)
	cfg.Server.Addr = getEnv("MAPQUIZ_HTTP_ADDR", cfg.Server.Addr)
	cfg.Redis.Addr = getEnv("MAPQUIZ_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("MAPQUIZ_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("MAPQUIZ_REDIS_DB", cfg.Redis.DB)
	cfg.Log.File = getEnv("MAPQUIZ_LOG_FILE", cfg.Log.File)

	if lvl := getEnv("MAPQUIZ_LOG_LEVEL", ""); lvl != "" {
		if err := cfg.Log.Level.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("MAPQUIZ_LOG_LEVEL: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Game.WorkingSetSize < 1 {
		return fmt.Errorf("working set size must be at least 1, got %d", c.Game.WorkingSetSize)
	}
	if c.Game.RoundDelay <= 0 {
		return fmt.Errorf("round delay must be positive, got %s", c.Game.RoundDelay)
	}
	if strings.TrimSpace(c.Catalog) == "" {
		return errors.New("catalog source is empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("750ms") or a bare number of
// milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
