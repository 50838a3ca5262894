package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PERSONA_REVIEW"

type Config struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text | json
	LogFile   string `mapstructure:"log_file"`

	AIProvider       string `mapstructure:"ai_provider"`       // persona | openai | ollama
	FallbackProvider string `mapstructure:"fallback_provider"` // optional, same values

	PersonaCommand    string        `mapstructure:"persona_command"`
	PersonaArgs       []string      `mapstructure:"persona_args"`
	PersonaOutput     string        `mapstructure:"persona_output"` // text | json
	PersonaResultPath string        `mapstructure:"persona_result_path"`
	PersonaErrorPath  string        `mapstructure:"persona_error_path"`
	PersonaCostPath   string        `mapstructure:"persona_cost_path"`
	PersonaTimeout    time.Duration `mapstructure:"persona_timeout"`
	DefaultPersona    string        `mapstructure:"default_persona"`

	OpenAIKey     string `mapstructure:"openai_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	OllamaURL     string `mapstructure:"ollama_url"`
	OllamaModel   string `mapstructure:"ollama_model"`

	RedisAddr string        `mapstructure:"redis_addr"`
	QueueType string        `mapstructure:"queue_type"` // memory | redis
	CacheType string        `mapstructure:"cache_type"` // none | memory | redis
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	BudgetEnabled    bool    `mapstructure:"budget_enabled"`
	BudgetDailyUSD   float64 `mapstructure:"budget_daily_usd"`
	BudgetPersonaUSD float64 `mapstructure:"budget_persona_usd"`

	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryWait     time.Duration `mapstructure:"retry_wait"`

	// APISecret enables HMAC signature checks on the /v1 API. Jobs that
	// write files are refused without it.
	APISecret string `mapstructure:"api_secret"`

	// Workspace is the root that API job paths must stay inside.
	Workspace string `mapstructure:"workspace"`

	// CommentTokens adds or replaces line-comment tokens by language.
	CommentTokens map[string]string `mapstructure:"comment_tokens"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", "8080")
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")

	v.SetDefault("ai_provider", "persona")
	v.SetDefault("fallback_provider", "")

	v.SetDefault("persona_command", "claude")
	v.SetDefault("persona_args", []string{"-p", "--output-format", "json", "--append-system-prompt", "Answer as {{persona}}."})
	v.SetDefault("persona_output", "json")
	v.SetDefault("persona_result_path", "result")
	v.SetDefault("persona_error_path", "is_error")
	v.SetDefault("persona_cost_path", "total_cost_usd")
	v.SetDefault("persona_timeout", 5*time.Minute)
	v.SetDefault("default_persona", "a senior engineer")

	v.SetDefault("openai_key", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("ollama_model", "llama3")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("queue_type", "memory")
	v.SetDefault("cache_type", "memory")
	v.SetDefault("cache_ttl", time.Hour)

	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 2)

	v.SetDefault("budget_enabled", false)
	v.SetDefault("budget_daily_usd", 5.0)
	v.SetDefault("budget_persona_usd", 1.0)

	v.SetDefault("retry_attempts", 3)
	v.SetDefault("retry_wait", 500*time.Millisecond)

	v.SetDefault("api_secret", "")
	v.SetDefault("workspace", ".")
	v.SetDefault("comment_tokens", map[string]string{})
}

// Load resolves configuration from defaults, then the YAML file at path (or
// ./persona-review.yaml when path is empty and the file exists), then
// PERSONA_REVIEW_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("persona-review")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.AIProvider, "persona", "openai", "ollama") {
		errs = append(errs, fmt.Errorf("ai_provider %q: want persona, openai or ollama", c.AIProvider))
	}
	if c.FallbackProvider != "" && !oneOf(c.FallbackProvider, "persona", "openai", "ollama") {
		errs = append(errs, fmt.Errorf("fallback_provider %q: want persona, openai or ollama", c.FallbackProvider))
	}
	if c.AIProvider == "persona" && strings.TrimSpace(c.PersonaCommand) == "" {
		errs = append(errs, errors.New("persona_command is required for the persona provider"))
	}
	if !oneOf(c.PersonaOutput, "text", "json") {
		errs = append(errs, fmt.Errorf("persona_output %q: want text or json", c.PersonaOutput))
	}
	if !oneOf(c.QueueType, "memory", "redis") {
		errs = append(errs, fmt.Errorf("queue_type %q: want memory or redis", c.QueueType))
	}
	if !oneOf(c.CacheType, "none", "memory", "redis") {
		errs = append(errs, fmt.Errorf("cache_type %q: want none, memory or redis", c.CacheType))
	}
	if !oneOf(c.LogFormat, "text", "json") {
		errs = append(errs, fmt.Errorf("log_format %q: want text or json", c.LogFormat))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate_limit_rps and rate_limit_burst must be positive"))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, errors.New("retry_attempts must be at least 1"))
	}
	if c.BudgetDailyUSD < 0 || c.BudgetPersonaUSD < 0 {
		errs = append(errs, errors.New("budget limits must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
