package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root application configuration, loaded from TOML with
// environment-variable and CLI-flag overrides layered on top.
type Config struct {
	Environment string         `toml:"environment" validate:"oneof=development production"`
	Logging     LoggingConfig  `toml:"logging"`
	LLM         LLMConfig      `toml:"llm"`
	Scoring     ScoringConfig  `toml:"scoring"`
	Cleaning    CleaningConfig `toml:"cleaning"`
	Server      ServerConfig   `toml:"server"`
}

// ServerConfig holds the [server] port/host values, which ApplyFlagOverrides
// can also set; the qualion CLI defines no -port/-host flags and nothing in
// this module reads these values. The Orchestrator never listens on a
// socket (spec.md §1: the HTTP transport is an external collaborator).
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// LoggingConfig mirrors the teacher's logging configuration shape.
type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"`
	Format     string   `toml:"format" validate:"oneof=text json"`
	Output     []string `toml:"output"`
	TimeFormat string   `toml:"time_format"`
}

// LLMProvider is the configured vendor behind interfaces.LLMService.
// spec.md §6 treats it as "currently one value" — the abstraction exists
// for future vendors, not because a second one is wired today.
type LLMProvider string

const (
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig is the §6 configuration surface for the Proofreader's LLM
// stage.
type LLMConfig struct {
	Provider    LLMProvider `toml:"provider"`
	APIKey      string      `toml:"api_key"`
	Model       string      `toml:"model"`
	MaxRetries  int         `toml:"max_retries" validate:"gte=0"`
	TimeoutMS   int         `toml:"timeout_ms" validate:"gt=0"`
	Temperature float32     `toml:"temperature"`
	MaxTokens   int         `toml:"max_tokens" validate:"gte=0"`
}

// Timeout returns LLM.TimeoutMS as a time.Duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ScoringConfig exposes the §4.9 severity-weight and per-category cap
// tables as overridable data, matching the teacher's pattern of keeping
// otherwise-constant behavior in a thin config struct (e.g. ProcessingConfig).
type ScoringConfig struct {
	SeverityWeights map[string]int `toml:"severity_weights"`
	CategoryCaps    map[string]int `toml:"category_caps"`
	VolumePenaltyPerIssue int      `toml:"volume_penalty_per_issue" validate:"gte=0"`
	VolumeThreshold       int      `toml:"volume_threshold" validate:"gte=0"`
}

// CleaningConfig carries the §6 feature-flag defaults for `clean` requests
// when the caller does not override them.
type CleaningConfig struct {
	DrawPolicy string `toml:"draw_policy" validate:"oneof=none auto all"`
	PDFMode    string `toml:"pdf_mode" validate:"oneof=sanitize text-only"`
}

// NewDefaultConfig returns a Config with the documented defaults from
// spec.md §6 (LLM_MAX_RETRIES=4, LLM_TIMEOUT_MS=60000) and §4.9's scoring
// tables.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		LLM: LLMConfig{
			Provider:    LLMProviderClaude,
			Model:       "claude-sonnet-4-20250514",
			MaxRetries:  4,
			TimeoutMS:   60000,
			Temperature: 0,
			MaxTokens:   8192,
		},
		Scoring: ScoringConfig{
			SeverityWeights: map[string]int{
				"critical": 25,
				"high":     10,
				"medium":   5,
				"low":      2,
			},
			CategoryCaps: map[string]int{
				"sensitiveData":   50,
				"macros":          30,
				"hiddenContent":   24,
				"comments":        15,
				"trackChanges":    15,
				"metadata":        10,
				"embeddedObjects": 15,
				"spellingErrors":  10,
				"brokenLinks":     12,
				"complianceRisks": 36,
			},
			VolumePenaltyPerIssue: 2,
			VolumeThreshold:       10,
		},
		Cleaning: CleaningConfig{
			DrawPolicy: "auto",
			PDFMode:    "sanitize",
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> env, matching the teacher's layered precedence
// (internal/common/config.go LoadFromFiles). CLI flag overrides are not
// applied here; ApplyFlagOverrides is separate, and cmd/qualion does not
// call it.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

var validate = validator.New()

// applyEnvOverrides applies the §6 environment variables, overriding any
// file configuration.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("QUALION_ENV"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		config.LLM.Provider = LLMProvider(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.LLM.MaxRetries = n
		}
	}
	if v := os.Getenv("LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.LLM.TimeoutMS = n
		}
	}
}

// ApplyFlagOverrides applies CLI flag values, which take precedence over
// every other configuration source, matching the teacher's
// cmd/quaero/main.go startup order.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction reports whether the configured environment is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
