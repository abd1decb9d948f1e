// Package core contains the business logic for taskboard: task record
// normalization, filtering, due-date ordering and labels, input validation,
// configuration, and the TaskService that ties them to the backend.
package core

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// ConfigFileName is the base name (without extension) of the config file.
const ConfigFileName = ".taskboard"

// ConfigurationManager loads and validates the client configuration.
type ConfigurationManager interface {
	Load() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
	ConfigFileUsed() string
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML config file and TB_ environment overrides.
type viperConfigManager struct {
	basePath string
	used     string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .taskboard.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		API: models.APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   15 * time.Second,
			Retries:   2,
			LoginPath: "/api/login",
		},
		Log: models.LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Display: models.DisplayConfig{
			Output: "table",
		},
	}
}

// Load reads the config file, if any, and applies environment overrides.
// A missing file yields the defaults.
func (cm *viperConfigManager) Load() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetEnvPrefix("TB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.retries", cfg.API.Retries)
	v.SetDefault("api.login_path", cfg.API.LoginPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("display.output", cfg.Display.Output)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
		}
	}
	cm.used = v.ConfigFileUsed()

	cfg.API.BaseURL = strings.TrimRight(v.GetString("api.base_url"), "/")
	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.API.Retries = v.GetInt("api.retries")
	cfg.API.LoginPath = v.GetString("api.login_path")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.Display.Output = strings.ToLower(v.GetString("display.output"))

	headers := v.GetStringMapString("api.headers")
	if len(headers) > 0 {
		cfg.API.Headers = headers
	}

	return cfg, nil
}

// ConfigFileUsed returns the path of the file read by the last Load, or ""
// when only defaults were used.
func (cm *viperConfigManager) ConfigFileUsed() string {
	return cm.used
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
	validOutputs    = map[string]bool{"table": true, "json": true, "yaml": true}
)

// ValidateConfig checks cfg for invalid values and reports all of them.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.API.BaseURL == "" {
		errs = append(errs, "api.base_url must not be empty")
	} else if u, err := url.Parse(cfg.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api.base_url %q must be an absolute http or https URL", cfg.API.BaseURL))
	}

	if cfg.API.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout must be positive, got %s", cfg.API.Timeout))
	}

	if cfg.API.Retries < 0 {
		errs = append(errs, fmt.Sprintf("api.retries must be non-negative, got %d", cfg.API.Retries))
	}

	if cfg.API.LoginPath != "" && !strings.HasPrefix(cfg.API.LoginPath, "/") {
		errs = append(errs, fmt.Sprintf("api.login_path %q must start with /", cfg.API.LoginPath))
	}

	if !validLogLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", cfg.Log.Level))
	}

	if !validLogFormats[cfg.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be one of: text, json", cfg.Log.Format))
	}

	if !validOutputs[cfg.Display.Output] {
		errs = append(errs, fmt.Sprintf("display.output %q is invalid, must be one of: table, json, yaml", cfg.Display.Output))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
