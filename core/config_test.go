package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OCRLanguage != "fra" {
		t.Errorf("OCRLanguage = %q, want %q", cfg.OCRLanguage, "fra")
	}
	if cfg.RenderScale != 2.0 {
		t.Errorf("RenderScale = %v, want 2.0", cfg.RenderScale)
	}
	if cfg.PageSeparator != "\n\n" {
		t.Errorf("PageSeparator = %q, want %q", cfg.PageSeparator, "\n\n")
	}
	if cfg.OCRTimeout != 0 {
		t.Errorf("OCRTimeout should default to 0 (unbounded), got %v", cfg.OCRTimeout)
	}
	if cfg.HistoryEnabled {
		t.Error("HistoryEnabled should default to false")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EDUKAI_OCR_LANGUAGE", "eng")
	t.Setenv("EDUKAI_RENDER_SCALE", "3.5")
	t.Setenv("EDUKAI_OCR_TIMEOUT_SECONDS", "30")
	t.Setenv("EDUKAI_HISTORY_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OCRLanguage != "eng" {
		t.Errorf("OCRLanguage = %q, want %q", cfg.OCRLanguage, "eng")
	}
	if cfg.RenderScale != 3.5 {
		t.Errorf("RenderScale = %v, want 3.5", cfg.RenderScale)
	}
	if cfg.OCRTimeout != 30*time.Second {
		t.Errorf("OCRTimeout = %v, want 30s", cfg.OCRTimeout)
	}
	if !cfg.HistoryEnabled {
		t.Error("HistoryEnabled should be true")
	}
}

func TestLoadConfig_OpenAIKeySources(t *testing.T) {
	t.Run("prefixed variable wins", func(t *testing.T) {
		t.Setenv("EDUKAI_OPENAI_API_KEY", "sk-edukai")
		t.Setenv("OPENAI_API_KEY", "sk-conventional")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.OpenAIAPIKey != "sk-edukai" {
			t.Errorf("OpenAIAPIKey = %q, want the EDUKAI_-prefixed value", cfg.OpenAIAPIKey)
		}
	})

	t.Run("conventional variable as fallback", func(t *testing.T) {
		t.Setenv("EDUKAI_OPENAI_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "sk-conventional")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.OpenAIAPIKey != "sk-conventional" {
			t.Errorf("OpenAIAPIKey = %q, want the OPENAI_API_KEY fallback", cfg.OpenAIAPIKey)
		}
	})
}

func TestLoadConfigWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edukai.yaml")
	content := []byte("ocr_language: deu\nrender_scale: 1.5\nquiz_question_count: 5\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfigWithFile(path)
	if err != nil {
		t.Fatalf("LoadConfigWithFile failed: %v", err)
	}

	if cfg.OCRLanguage != "deu" {
		t.Errorf("OCRLanguage = %q, want %q", cfg.OCRLanguage, "deu")
	}
	if cfg.RenderScale != 1.5 {
		t.Errorf("RenderScale = %v, want 1.5", cfg.RenderScale)
	}
	if cfg.QuizQuestionCount != 5 {
		t.Errorf("QuizQuestionCount = %d, want 5", cfg.QuizQuestionCount)
	}
}

func TestLoadConfigWithFile_Missing(t *testing.T) {
	cfg, err := LoadConfigWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got: %v", err)
	}
	if cfg.OCRLanguage != "fra" {
		t.Errorf("defaults should apply when file is missing, got language %q", cfg.OCRLanguage)
	}
}

func TestLoadConfigWithFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("ocr_language: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfigWithFile(path); err == nil {
		t.Error("malformed YAML should return an error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty language", func(c *Config) { c.OCRLanguage = "" }, true},
		{"zero scale", func(c *Config) { c.RenderScale = 0 }, true},
		{"negative max file size", func(c *Config) { c.MaxFileSize = -1 }, true},
		{"history without db path", func(c *Config) { c.HistoryEnabled = true; c.DatabasePath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
