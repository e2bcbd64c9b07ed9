package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "config.json"
	DefaultProvider   = "cohere"
	DefaultAddress    = ":8000"
	DefaultUploadDir  = "uploads"

	envConfigPath = "HARDWAREBOT_CONFIG"
	envAddress    = "HARDWAREBOT_ADDR"
	envUploadDir  = "HARDWAREBOT_UPLOAD_DIR"
	envProvider   = "HARDWAREBOT_PROVIDER"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config" yaml:"basic_config"`
	Provider    string                    `json:"provider" yaml:"provider"`
	Providers   map[string]ProviderConfig `json:"providers" yaml:"providers"`
}

type ProviderConfig struct {
	BaseURL     string  `json:"base_url" yaml:"base_url"`
	Model       string  `json:"model" yaml:"model"`
	APIKey      string  `json:"api_key" yaml:"api_key"`
	APIKeyEnv   string  `json:"api_key_env" yaml:"api_key_env"`
	Temperature float32 `json:"temperature" yaml:"temperature"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address" yaml:"server_address"`
	UploadDir     string `json:"upload_dir" yaml:"upload_dir"`
	LogLevel      string `json:"log_level" yaml:"log_level"`
	// UploadRetention is in minutes; 0 keeps uploads forever.
	UploadRetention int `json:"upload_retention" yaml:"upload_retention"`
	// CleanInterval is in minutes.
	CleanInterval int `json:"clean_interval" yaml:"clean_interval"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		BasicConfig: BasicConfig{
			ServerAddress: DefaultAddress,
			UploadDir:     DefaultUploadDir,
			LogLevel:      "info",
			CleanInterval: 60,
		},
		Provider: DefaultProvider,
		Providers: map[string]ProviderConfig{
			"cohere": {
				BaseURL:     "https://api.cohere.ai/compatibility/v1",
				Model:       "command-nightly",
				APIKeyEnv:   "COHERE_API_KEY",
				Temperature: 0.7,
			},
			"openai": {
				Model:       "gpt-4o-mini",
				APIKeyEnv:   "OPENAI_API_KEY",
				Temperature: 0.7,
			},
			"claude": {
				Model:       "claude-3-5-haiku-latest",
				APIKeyEnv:   "ANTHROPIC_API_KEY",
				Temperature: 0.7,
			},
			"gemini": {
				Model:       "gemini-2.0-flash",
				APIKeyEnv:   "GEMINI_API_KEY",
				Temperature: 0.7,
			},
		},
	}
}

// PathFromEnv returns the config path named by HARDWAREBOT_CONFIG, if any.
func PathFromEnv() string {
	return os.Getenv(envConfigPath)
}

// Load builds the configuration: defaults, then the optional config file
// (JSON, or YAML for .yaml/.yml), then .env and process environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	baseDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if err := decodeFile(absPath, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		baseDir = filepath.Dir(absPath)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if cfg.BasicConfig.UploadDir != "" && !filepath.IsAbs(cfg.BasicConfig.UploadDir) {
		cfg.BasicConfig.UploadDir = filepath.Join(baseDir, cfg.BasicConfig.UploadDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	fileCfg := struct {
		BasicConfig *BasicConfig            `json:"basic_config" yaml:"basic_config"`
		Provider    string                  `json:"provider" yaml:"provider"`
		Providers   map[string]fileProvider `json:"providers" yaml:"providers"`
	}{BasicConfig: &cfg.BasicConfig}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(&fileCfg)
	default:
		err = json.NewDecoder(file).Decode(&fileCfg)
	}
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if fileCfg.Provider != "" {
		cfg.Provider = fileCfg.Provider
	}
	for name, p := range fileCfg.Providers {
		name = strings.ToLower(name)
		cfg.Providers[name] = p.merge(cfg.Providers[name])
	}
	return nil
}

// fileProvider distinguishes an omitted temperature from an explicit 0.
type fileProvider struct {
	BaseURL     string   `json:"base_url" yaml:"base_url"`
	Model       string   `json:"model" yaml:"model"`
	APIKey      string   `json:"api_key" yaml:"api_key"`
	APIKeyEnv   string   `json:"api_key_env" yaml:"api_key_env"`
	Temperature *float32 `json:"temperature" yaml:"temperature"`
}

func (f fileProvider) merge(base ProviderConfig) ProviderConfig {
	if f.BaseURL != "" {
		base.BaseURL = f.BaseURL
	}
	if f.Model != "" {
		base.Model = f.Model
	}
	if f.APIKey != "" {
		base.APIKey = f.APIKey
	}
	if f.APIKeyEnv != "" {
		base.APIKeyEnv = f.APIKeyEnv
	}
	if f.Temperature != nil {
		base.Temperature = *f.Temperature
	}
	return base
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(envAddress)); v != "" {
		c.BasicConfig.ServerAddress = v
	}
	if v := strings.TrimSpace(os.Getenv(envUploadDir)); v != "" {
		c.BasicConfig.UploadDir = v
	}
	if v := strings.TrimSpace(os.Getenv(envProvider)); v != "" {
		c.Provider = v
	}
	c.Provider = strings.ToLower(c.Provider)
	for name, p := range c.Providers {
		if p.APIKeyEnv == "" {
			continue
		}
		if key := strings.TrimSpace(os.Getenv(p.APIKeyEnv)); key != "" {
			p.APIKey = key
			c.Providers[name] = p
		}
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	p, ok := c.Providers[c.Provider]
	if !ok {
		return fmt.Errorf("provider %s not configured", c.Provider)
	}
	if p.APIKey == "" {
		if p.APIKeyEnv != "" {
			return fmt.Errorf("api key for provider %s must be set (env %s)", c.Provider, p.APIKeyEnv)
		}
		return fmt.Errorf("api key for provider %s must be set", c.Provider)
	}
	if p.Model == "" {
		return fmt.Errorf("model for provider %s must be set", c.Provider)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", p.Temperature)
	}
	if c.BasicConfig.UploadDir == "" {
		return errors.New("upload_dir must be configured")
	}
	if c.BasicConfig.UploadRetention < 0 {
		return errors.New("upload_retention cannot be negative")
	}
	return nil
}

// Active returns the selected provider's settings.
func (c *Config) Active() ProviderConfig {
	return c.Providers[c.Provider]
}
