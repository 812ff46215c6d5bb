package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Redis   RedisConfig   `mapstructure:"redis"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Log     LogConfig     `mapstructure:"log"`
	OTEL    OTELConfig    `mapstructure:"otel"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	BodyLimitKB     int           `mapstructure:"body_limit_kb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	DefaultCategory string        `mapstructure:"default_category"`
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	AllowOrigins    string        `mapstructure:"allow_origins"`
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig holds Redis connection configuration. An empty Addr disables
// idempotent write replay.
type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// JWTConfig enables token checks on write routes when Secret is set.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	JSON     bool   `mapstructure:"json"`
	File     string `mapstructure:"file"`
	ToStdout bool   `mapstructure:"to_stdout"`
}

type OTELConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

var defaults = map[string]interface{}{
	"server.port":              "8080",
	"server.body_limit_kb":     512,
	"server.shutdown_timeout":  "10s",
	"server.default_category":  "18U",
	"server.default_page_size": 10,
	"server.max_page_size":     100,
	"server.allow_origins":     "*",
	"mongodb.uri":              "mongodb://localhost:27017",
	"mongodb.database":         "coachbook",
	"mongodb.connect_timeout":  "10s",
	"redis.addr":               "",
	"redis.password":           "",
	"redis.idempotency_ttl":    "24h",
	"jwt.secret":               "",
	"log.level":                "info",
	"log.json":                 false,
	"log.file":                 "",
	"log.to_stdout":            true,
	"otel.enabled":             false,
	"otel.endpoint":            "localhost:4318",
	"otel.service_name":        "coachbook",
	"otel.insecure":            true,
}

// Load builds the configuration from defaults, the YAML files listed in the
// CONFIG environment variable (comma or pipe separated, later files win), a
// .env file and finally the process environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg, err := LoadFiles(splitPaths(os.Getenv("CONFIG"))...)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFiles merges the given YAML files in order on top of the defaults and
// applies environment overrides. Files are merged in memory.
func LoadFiles(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("mongodb.uri", "MONGODB_URI", "MONGO_URI"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		err = v.MergeConfig(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("merge config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.MongoDB.Database == "" {
		return fmt.Errorf("MONGODB_DATABASE is required")
	}
	if c.Server.DefaultCategory == "" {
		return fmt.Errorf("SERVER_DEFAULT_CATEGORY is required")
	}
	if c.Server.DefaultPageSize <= 0 || c.Server.MaxPageSize < c.Server.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.Server.DefaultPageSize, c.Server.MaxPageSize)
	}
	return nil
}

func splitPaths(raw string) []string {
	var paths []string
	for _, p := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '|' }) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
