package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all clinical-triage configuration. It is constructed once at
// startup and passed explicitly to each component.
type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// LLMConfig selects and configures the chat-completions backend. API keys are
// never read from the config file, only from the environment.
type LLMConfig struct {
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"-"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	AzureEndpoint   string `toml:"azure_endpoint"`
	AzureDeployment string `toml:"azure_deployment"`
	AzureAPIVersion string `toml:"azure_api_version"`
	AzureAPIKey     string `toml:"-"`
}

type SchedulingConfig struct {
	BaseURL        string `toml:"base_url"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Model:           "gpt-4o-mini",
			BaseURL:         "https://api.openai.com/v1",
			TimeoutSeconds:  60,
			AzureAPIVersion: "2024-06-01",
		},
		Scheduling: SchedulingConfig{
			BaseURL:        "http://localhost:5246",
			Port:           5246,
			TimeoutSeconds: 15,
		},
	}
}

// Load reads config from the standard path, falling back to defaults, then
// applies environment overrides. Environment always wins over the file.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "clinical-triage", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "clinical-triage", "config.toml"))
	}

	return paths
}

func applyEnv(cfg *Config) {
	setIfEnv(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setIfEnv(&cfg.LLM.Model, "OPENAI_MODEL")
	setIfEnv(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setIfEnv(&cfg.LLM.AzureEndpoint, "AZURE_OPENAI_ENDPOINT")
	setIfEnv(&cfg.LLM.AzureAPIKey, "AZURE_OPENAI_API_KEY")
	setIfEnv(&cfg.LLM.AzureDeployment, "AZURE_OPENAI_DEPLOYMENT")
	setIfEnv(&cfg.LLM.AzureAPIVersion, "AZURE_OPENAI_API_VERSION")
	setIfEnv(&cfg.Scheduling.BaseURL, "SCHEDULING_API_BASE_URL")

	if v := os.Getenv("SCHEDULING_API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Scheduling.Port = p
		} else {
			log.Printf("warning: ignoring invalid SCHEDULING_API_PORT %q, keeping port %d", v, cfg.Scheduling.Port)
		}
	}
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// UseAzure reports whether the Azure variant is selected. Azure takes
// precedence when endpoint, key, and deployment are all present.
func (c LLMConfig) UseAzure() bool {
	return c.AzureEndpoint != "" && c.AzureAPIKey != "" && c.AzureDeployment != ""
}

// HasCredentials reports whether either backend is usable.
func (c LLMConfig) HasCredentials() bool {
	return c.UseAzure() || c.APIKey != ""
}
