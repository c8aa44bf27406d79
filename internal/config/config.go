package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/akira0907/gift-diagnosis/internal/wordpress"
)

// DotEnvFiles are loaded in order; earlier files win
var DotEnvFiles = []string{"config/.env", ".env"}

// Config holds all settings for giftctl
type Config struct {
	WordPress       wordpress.Config `yaml:"wordpress"`
	DiagnosisAppURL string           `yaml:"diagnosis_app_url"`
	Paths           PathsConfig      `yaml:"paths"`
	Assist          AssistConfig     `yaml:"assist"`
}

// PathsConfig locates the catalog files
type PathsConfig struct {
	CSV  string `yaml:"csv"`
	JSON string `yaml:"json"`
}

// AssistConfig configures the optional LLM excerpt suggestion
type AssistConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OllamaURL    string `yaml:"ollama_url"`
}

// ConfigError reports missing required settings
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf(`WordPress settings are incomplete (missing %s)

Set them in config/.env, for example:
  WP_URL=https://your-site.com
  WP_USERNAME=your-username
  WP_APP_PASSWORD=xxxx xxxx xxxx xxxx`, strings.Join(e.Missing, ", "))
}

// Defaults returns the built-in settings
func Defaults() Config {
	return Config{
		DiagnosisAppURL: "https://example.com/diagnose",
		Paths: PathsConfig{
			CSV:  "data/products.csv",
			JSON: "src/data/products.json",
		},
		Assist: AssistConfig{
			OllamaURL: "http://localhost:11434",
		},
	}
}

// LoadDotEnv loads .env files if present (missing files are ignored)
func LoadDotEnv() {
	for _, f := range DotEnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Unable to load env file", "file", f, "err", err)
		}
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (optional), then environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("No config file, using defaults and environment", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := mergo.Merge(&cfg, Defaults()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	override(&cfg.WordPress.URL, "WP_URL")
	override(&cfg.WordPress.Username, "WP_USERNAME")
	override(&cfg.WordPress.AppPassword, "WP_APP_PASSWORD")
	override(&cfg.DiagnosisAppURL, "DIAGNOSIS_APP_URL")
	override(&cfg.Paths.CSV, "GIFT_CSV_PATH")
	override(&cfg.Paths.JSON, "GIFT_JSON_PATH")
	override(&cfg.Assist.Provider, "ASSIST_PROVIDER")
	override(&cfg.Assist.Model, "ASSIST_MODEL")
	override(&cfg.Assist.GeminiAPIKey, "GEMINI_API_KEY")
	override(&cfg.Assist.OpenAIAPIKey, "OPENAI_API_KEY")
	override(&cfg.Assist.OllamaURL, "OLLAMA_URL")
}

// RequireWordPress fails with a *ConfigError when credentials are missing
func (c *Config) RequireWordPress() error {
	var missing []string
	if c.WordPress.URL == "" {
		missing = append(missing, "WP_URL")
	}
	if c.WordPress.Username == "" {
		missing = append(missing, "WP_USERNAME")
	}
	if c.WordPress.AppPassword == "" {
		missing = append(missing, "WP_APP_PASSWORD")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
