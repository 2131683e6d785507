package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the ingestion backend.
type Config struct {
	// OCR Configuration
	OCRLanguage string        // Tesseract language code (default: "fra")
	OCRTimeout  time.Duration // Per-recognition timeout (0 = unbounded)

	// PDF Configuration
	RenderScale   float64 // Raster scale for OCR fallback pages (default: 2.0)
	PageSeparator string  // Separator between page sections (default: "\n\n")

	// Processing Configuration
	MaxFileSize int64 // Maximum accepted upload size in bytes

	// Persistence Configuration
	DatabasePath   string // SQLite database file path
	MigrationsPath string // golang-migrate source URL (e.g. "file://db/migrations")
	HistoryEnabled bool   // Record extraction runs in the database

	// Quiz Generation (optional - requires EDUKAI_OPENAI_API_KEY)
	OpenAIAPIKey      string
	QuizModel         string
	QuizQuestionCount int

	// Logging
	LogFilePath string
	DevMode     bool
}

// fileConfig mirrors the YAML overlay file. Only tuning knobs are exposed
// there; credentials stay in the environment.
type fileConfig struct {
	OCRLanguage       string  `yaml:"ocr_language"`
	OCRTimeoutSec     int     `yaml:"ocr_timeout_seconds"`
	RenderScale       float64 `yaml:"render_scale"`
	PageSeparator     string  `yaml:"page_separator"`
	MaxFileSizeMB     int64   `yaml:"max_file_size_mb"`
	DatabasePath      string  `yaml:"database_path"`
	QuizModel         string  `yaml:"quiz_model"`
	QuizQuestionCount int     `yaml:"quiz_question_count"`
}

// DefaultConfig returns the configuration defaults used before any
// environment or file overrides are applied.
func DefaultConfig() Config {
	return Config{
		OCRLanguage:       "fra",
		OCRTimeout:        0,
		RenderScale:       2.0,
		PageSeparator:     "\n\n",
		MaxFileSize:       50 * 1024 * 1024, // 50MB
		DatabasePath:      "edukai.db",
		MigrationsPath:    "file://db/migrations",
		HistoryEnabled:    false,
		QuizModel:         "gpt-4",
		QuizQuestionCount: 10,
		LogFilePath:       "ingest.log",
		DevMode:           false,
	}
}

// LoadConfig builds the configuration from defaults overlaid with
// environment variables. Call godotenv.Load() before this if a .env file
// should be honored.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	cfg.OCRLanguage = GetEnvOrDefault("EDUKAI_OCR_LANGUAGE", cfg.OCRLanguage)
	cfg.OCRTimeout = ParseDurationEnv("EDUKAI_OCR_TIMEOUT_SECONDS", 0)
	cfg.RenderScale = ParseFloat64Env("EDUKAI_RENDER_SCALE", cfg.RenderScale)
	cfg.MaxFileSize = ParseInt64Env("EDUKAI_MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.DatabasePath = GetEnvOrDefault("EDUKAI_DB_PATH", cfg.DatabasePath)
	cfg.MigrationsPath = GetEnvOrDefault("EDUKAI_MIGRATIONS_PATH", cfg.MigrationsPath)
	cfg.HistoryEnabled = ParseBoolEnv("EDUKAI_HISTORY_ENABLED", cfg.HistoryEnabled)
	// EDUKAI_OPENAI_API_KEY matches the other knobs; the conventional
	// OPENAI_API_KEY is honored as a fallback.
	cfg.OpenAIAPIKey = GetEnvOrDefault("EDUKAI_OPENAI_API_KEY", os.Getenv("OPENAI_API_KEY"))
	cfg.QuizModel = GetEnvOrDefault("EDUKAI_QUIZ_MODEL", cfg.QuizModel)
	cfg.QuizQuestionCount = ParseIntEnv("EDUKAI_QUIZ_QUESTIONS", cfg.QuizQuestionCount)
	cfg.LogFilePath = GetEnvOrDefault("EDUKAI_LOG_FILE", cfg.LogFilePath)
	cfg.DevMode = ParseBoolEnv("DEV_MODE", cfg.DevMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithFile loads configuration as LoadConfig does, then applies
// overrides from a YAML tuning file. A missing file is not an error when
// path is the conventional default; an unreadable or malformed file is.
func LoadConfigWithFile(path string) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("core: failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("core: failed to parse config file %s: %w", path, err)
	}

	if fc.OCRLanguage != "" {
		cfg.OCRLanguage = fc.OCRLanguage
	}
	if fc.OCRTimeoutSec > 0 {
		cfg.OCRTimeout = time.Duration(fc.OCRTimeoutSec) * time.Second
	}
	if fc.RenderScale > 0 {
		cfg.RenderScale = fc.RenderScale
	}
	if fc.PageSeparator != "" {
		cfg.PageSeparator = fc.PageSeparator
	}
	if fc.MaxFileSizeMB > 0 {
		cfg.MaxFileSize = fc.MaxFileSizeMB * 1024 * 1024
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.QuizModel != "" {
		cfg.QuizModel = fc.QuizModel
	}
	if fc.QuizQuestionCount > 0 {
		cfg.QuizQuestionCount = fc.QuizQuestionCount
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.OCRLanguage == "" {
		return ErrMissingConfig("EDUKAI_OCR_LANGUAGE")
	}
	if c.RenderScale <= 0 {
		return ErrInvalidConfig("EDUKAI_RENDER_SCALE", "must be > 0")
	}
	if c.MaxFileSize <= 0 {
		return ErrInvalidConfig("EDUKAI_MAX_FILE_SIZE", "must be > 0")
	}
	if c.HistoryEnabled && c.DatabasePath == "" {
		return ErrMissingConfig("EDUKAI_DB_PATH")
	}
	return nil
}
