package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AllowedOrigins []string
	UploadDir      string
	MaxUploadSize  int64
	MaxOpenConns   int
	QueueTimeout   time.Duration
	LogLevel       string
	LogFormat      string
	LogFile        string
}

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Defaults
const (
	DefaultPort          = 3001
	DefaultOrigins       = "http://localhost:5173"
	DefaultUploadDir     = "./uploads"
	DefaultMaxUploadSize = "5MB"
	DefaultMaxOpenConns  = 10
	DefaultQueueTimeout  = 5 * time.Second
)

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins, maxUpload string

	fs := flag.NewFlagSet("party-registry", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&origins, "origins", "", "Comma-separated list of allowed CORS origins")

	// Storage
	fs.StringVar(&cfg.UploadDir, "uploads", "", "Directory for uploaded logos")
	fs.StringVar(&maxUpload, "max-upload", "", "Maximum logo size (e.g. 5MB)")
	fs.IntVar(&cfg.MaxOpenConns, "max-conns", 0, "Maximum open database connections")
	fs.DurationVar(&cfg.QueueTimeout, "queue-timeout", 0, "Maximum wait for a database connection")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Rotating log file path (stderr if empty)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabasePostgres
		}
	}
	if cfg.DatabaseType != DatabasePostgres && cfg.DatabaseType != DatabaseSQLite {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if origins == "" {
		origins = envOr("ALLOWED_ORIGINS", DefaultOrigins)
	}
	cfg.AllowedOrigins = splitList(origins)

	if cfg.UploadDir == "" {
		cfg.UploadDir = envOr("UPLOAD_DIR", DefaultUploadDir)
	}

	if maxUpload == "" {
		maxUpload = envOr("MAX_UPLOAD_SIZE", DefaultMaxUploadSize)
	}
	size, err := humanize.ParseBytes(maxUpload)
	if err != nil || size == 0 {
		return Config{}, fmt.Errorf("invalid max upload size %q", maxUpload)
	}
	cfg.MaxUploadSize = int64(size)

	if cfg.MaxOpenConns == 0 {
		if s := os.Getenv("DB_MAX_OPEN_CONNS"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid DB_MAX_OPEN_CONNS env variable")
			}
			cfg.MaxOpenConns = n
		} else {
			cfg.MaxOpenConns = DefaultMaxOpenConns
		}
	}

	if cfg.QueueTimeout == 0 {
		if s := os.Getenv("DB_QUEUE_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil || d <= 0 {
				return Config{}, errors.New("invalid DB_QUEUE_TIMEOUT env variable")
			}
			cfg.QueueTimeout = d
		} else {
			cfg.QueueTimeout = DefaultQueueTimeout
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envOr("LOG_FORMAT", "text")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("LOG_FILE")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList turns "a, b,,c" into [a b c]
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
