package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"` // "dev" or "prod"
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Forms    FormsConfig    `yaml:"forms"`
	LLM      LLMConfig      `yaml:"llm"`
	Mail     MailConfig     `yaml:"mail"`
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// UpstreamConfig points the console's API client at the survey service.
// By default it targets the /api surface served by this same binary.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration string, default "30s"
}

// FormsConfig configures the external forms provider. With an empty
// access token the provider runs in mock mode and emits sentinel-prefixed
// form URLs instead of calling out.
type FormsConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token"`
	MockMode    bool   `yaml:"mock_mode"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`    // "openai" (default)
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`       // default: "gpt-4o"
	Temperature float64 `yaml:"temperature"` // default: 0.9
}

// MailConfig configures the mail relay client. Delivery itself is handled
// by an external relay bridge; an empty relay URL means sends are
// simulated and logged.
type MailConfig struct {
	RelayURL string `yaml:"relay_url"`
	From     string `yaml:"from"`
}

func Load() *Config {
	env := os.Getenv("GFA_ENV")
	if env == "" {
		env = "dev" // Default to dev for safety
	}

	cfg := &Config{
		Env:      env,
		Server:   ServerConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "info"},
		Upstream: UpstreamConfig{BaseURL: "http://localhost:8080/api", Timeout: "30s"},
		Forms:    FormsConfig{BaseURL: "https://forms.googleapis.com/v1"},
		LLM:      LLMConfig{Provider: "openai", Model: "gpt-4o", Temperature: 0.9},
		Mail:     MailConfig{From: "formautomation@example.com"},
	}

	data, err := os.ReadFile("config.yaml")
	if err == nil {
		yaml.Unmarshal(data, cfg)
	}

	// Environment overrides (highest priority)
	if v := os.Getenv("GFA_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GFA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GFA_UPSTREAM_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("GFA_FORMS_BASE_URL"); v != "" {
		cfg.Forms.BaseURL = v
	}
	if v := os.Getenv("GFA_FORMS_ACCESS_TOKEN"); v != "" {
		cfg.Forms.AccessToken = v
	}
	if v := os.Getenv("GFA_FORMS_MOCK_MODE"); v == "true" || v == "1" {
		cfg.Forms.MockMode = true
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GFA_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GFA_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("GFA_MAIL_RELAY_URL"); v != "" {
		cfg.Mail.RelayURL = v
	}
	if v := os.Getenv("GFA_MAIL_FROM"); v != "" {
		cfg.Mail.From = v
	}

	return cfg
}
