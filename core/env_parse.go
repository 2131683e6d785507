// env_parse.go provides typed environment variable readers used by
// LoadConfig. Every Edukai knob is an EDUKAI_-prefixed variable
// (EDUKAI_OCR_LANGUAGE, EDUKAI_RENDER_SCALE, ...); a variable that is
// unset or malformed falls back to the supplied default so a partial
// environment never produces a half-configured pipeline.
package core

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault reads a string variable, treating unset and empty as
// equivalent. GetEnvOrDefault("EDUKAI_OCR_LANGUAGE", "fra") yields the
// default French language pack when nothing overrides it.
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// ParseIntEnv reads an integer variable such as EDUKAI_QUIZ_QUESTIONS.
// Unset or non-numeric values yield the default.
func ParseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseInt64Env reads an int64 variable. Used for byte counts
// (EDUKAI_MAX_FILE_SIZE) that can exceed 32 bits.
func ParseInt64Env(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseFloat64Env reads a float variable such as EDUKAI_RENDER_SCALE.
// Unset or non-numeric values yield the default.
func ParseFloat64Env(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseBoolEnv reads a boolean variable such as EDUKAI_HISTORY_ENABLED.
// "true"/"1"/"yes"/"on" enable, "false"/"0"/"no"/"off" disable, both
// case-insensitive; anything else yields the default.
func ParseBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}

// ParseDurationEnv reads a variable expressed in whole seconds, such as
// EDUKAI_OCR_TIMEOUT_SECONDS, and returns it as a time.Duration.
func ParseDurationEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(ParseIntEnv(key, defaultSeconds)) * time.Second
}
