package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the delay analysis API and report
type Config struct {
	// HTTP API
	Port           int           `validate:"min=1,max=65535"`
	AllowedOrigins []string      `validate:"dive,required"`
	RequestTimeout time.Duration `validate:"gt=0"`

	// Output files
	OutputDir        string `validate:"required"`
	SQLiteExportPath string // empty disables the SQLite export

	// Generator
	Seed uint64
}

// fileConfig mirrors the TOML file; zero values mean "not set"
type fileConfig struct {
	Port                  int      `toml:"port"`
	AllowedOrigins        []string `toml:"allowed_origins"`
	RequestTimeoutSeconds int      `toml:"request_timeout_seconds"`
	OutputDir             string   `toml:"output_dir"`
	SQLiteExportPath      string   `toml:"sqlite_export_path"`
	Seed                  *uint64  `toml:"seed"`
}

// Fixed file names inside OutputDir
const (
	CSVFileName   = "bus_data.csv"
	ChartFileName = "bus_analysis.png"
	FeedFileName  = "bus_trip_updates.pb"
)

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Port:           8081,
		AllowedOrigins: []string{"http://localhost:5173"},
		RequestTimeout: 10 * time.Second,
		OutputDir:      "output",
		Seed:           42,
	}
}

// LoadDotEnv loads .env then .env.local (which overrides for local development).
// Missing files are ignored.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")
}

// Load builds the configuration: defaults, then the optional TOML file at
// path, then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.RequestTimeoutSeconds != 0 {
		c.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
	}
	if fc.OutputDir != "" {
		c.OutputDir = fc.OutputDir
	}
	if fc.SQLiteExportPath != "" {
		c.SQLiteExportPath = fc.SQLiteExportPath
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.SQLiteExportPath = getEnv("SQLITE_EXPORT_PATH", c.SQLiteExportPath)
	c.RequestTimeout = time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", int(c.RequestTimeout/time.Second))) * time.Second

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	if seed := os.Getenv("RANDOM_SEED"); seed != "" {
		if v, err := strconv.ParseUint(seed, 10, 64); err == nil {
			c.Seed = v
		}
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CSVPath is where the trip event table is exported
func (c *Config) CSVPath() string {
	return filepath.Join(c.OutputDir, CSVFileName)
}

// ChartPath is where the summary chart is rendered
func (c *Config) ChartPath() string {
	return filepath.Join(c.OutputDir, ChartFileName)
}

// FeedPath is where the GTFS-RT trip updates feed is exported
func (c *Config) FeedPath() string {
	return filepath.Join(c.OutputDir, FeedFileName)
}

// ListenAddr is the address the API binds to
func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
