// package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// jobs backend
	JobsAPIURL   string
	JobsAPIRPS   float64
	JobsAPIBurst int
	JobsPerPage  int

	// servers
	HTTPPort     int
	APIPort      int
	APIDocsTheme string
	CORSOrigins  []string

	// web
	TemplatesDir string
	StaticDir    string
	PresetsFile  string

	// nats, empty disables event publishing
	NatsURL string

	// logging
	LogLevel string
	LogFile  string
	LogJSON  bool
}

// LoadDotEnv reads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		JobsAPIURL:   strings.TrimRight(getEnv("JOBS_API_URL", "http://localhost:5000/api"), "/"),
		JobsAPIRPS:   getEnvFloat("JOBS_API_RPS", 0),
		JobsAPIBurst: getEnvInt("JOBS_API_BURST", 1),
		JobsPerPage:  getEnvInt("JOBS_PER_PAGE", 0),
		HTTPPort:     getEnvInt("HTTP_PORT", 3000),
		APIPort:      getEnvInt("API_PORT", 3001),
		APIDocsTheme: getEnv("API_DOCS_THEME", ""),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),
		TemplatesDir: getEnv("TEMPLATES_DIR", ""),
		StaticDir:    getEnv("STATIC_DIR", ""),
		PresetsFile:  getEnv("PRESETS_FILE", ""),
		NatsURL:      getEnv("NATS_URL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		LogJSON:      getEnvBool("LOG_JSON", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the servers cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.JobsAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("JOBS_API_URL %q is not an absolute URL", c.JobsAPIURL)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT %d out of range", c.HTTPPort)
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT %d out of range", c.APIPort)
	}
	if c.APIPort != 0 && c.APIPort == c.HTTPPort {
		return fmt.Errorf("API_PORT and HTTP_PORT are both %d", c.HTTPPort)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvList splits a comma-separated variable.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
